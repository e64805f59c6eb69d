package rig

import "errors"

var (
	// ErrBuildCancelled is returned when the character prompt is dismissed.
	ErrBuildCancelled = errors.New("character creation cancelled")
	// ErrInvalidCharacter is returned for a name or initials that do not
	// fit the naming rules.
	ErrInvalidCharacter = errors.New("invalid character")
	// ErrNoCharacter is returned when an operation needs a character
	// context that was never loaded.
	ErrNoCharacter = errors.New("no character loaded")
)
