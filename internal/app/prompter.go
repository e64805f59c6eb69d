package app

import (
	"context"

	"github.com/vk/riggen/internal/config"
	"github.com/vk/riggen/internal/rig"
)

// configPrompter answers the character prompt from the loaded files. A
// missing character block dismisses the prompt.
type configPrompter struct {
	character *config.Character
}

func (p configPrompter) PromptCharacter(context.Context) (rig.Character, bool, error) {
	if p.character == nil {
		return rig.Character{}, false, nil
	}
	return rig.Character{
		Name:       p.character.Name,
		Initials:   p.character.Initials,
		LayoutSize: p.character.LayoutSize,
	}, true, nil
}
