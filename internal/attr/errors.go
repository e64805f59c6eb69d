package attr

import (
	"errors"

	"github.com/vk/riggen/internal/scene"
)

var (
	// ErrAttributeNotFound is the scene's missing-attribute error, so
	// errors.Is matches either name.
	ErrAttributeNotFound = scene.ErrAttrNotFound
	// ErrDuplicateAttribute is returned by Add when the attribute exists.
	ErrDuplicateAttribute = scene.ErrAttrExists
	// ErrUnknownEnumLabel is returned when an enum is set by a label it does
	// not declare.
	ErrUnknownEnumLabel = errors.New("unknown enum label")
)
