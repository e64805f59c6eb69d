// This file contains the logic for translating HCL schema structs (from
// schema.go) into the format-agnostic configuration model defined in the
// config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/riggen/internal/config"
	"github.com/vk/riggen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// isExprDefined reports whether an optional attribute was present in the
// source. Omitted attributes decode to zero-width placeholder expressions.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

func (l *Loader) translate(ctx context.Context, root *fileRoot) (*config.Model, error) {
	m := &config.Model{}
	for _, c := range root.Characters {
		if err := m.Merge(&config.Model{Character: translateCharacter(c)}); err != nil {
			return nil, err
		}
	}
	for _, b := range root.Limbs {
		lb, err := translateLimb(ctx, b)
		if err != nil {
			return nil, err
		}
		m.Limbs = append(m.Limbs, lb)
	}
	for _, b := range root.Markers {
		mk, err := translateMarker(b)
		if err != nil {
			return nil, err
		}
		m.Markers = append(m.Markers, mk)
	}
	return m, nil
}

func translateCharacter(b *characterBlock) *config.Character {
	c := &config.Character{Name: b.Name, Initials: b.Initials}
	if b.LayoutSize != nil {
		c.LayoutSize = *b.LayoutSize
	}
	return c
}

// translateLimb evaluates the options object of a limb block into a map of
// values; their conversion is left to the limb.
func translateLimb(ctx context.Context, b *limbBlock) (*config.Limb, error) {
	logger := ctxlog.FromContext(ctx)
	out := &config.Limb{Type: b.Type, Name: b.Name, Parent: b.Parent}
	if !isExprDefined(b.Options) {
		logger.Debug("Limb has no options.", "limb", b.Name)
		return out, nil
	}

	val, diags := b.Options.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("limb %q options: %w", b.Name, diags)
	}
	if val.IsNull() {
		return out, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("limb %q options: expected an object, got %s", b.Name, val.Type().FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("limb %q options: values must be known", b.Name)
	}
	values := val.AsValueMap()
	out.Options = make(map[string]cty.Value, len(values))
	for k, v := range values {
		out.Options[k] = v
	}
	logger.Debug("Translated limb options.", "limb", b.Name, "count", len(out.Options))
	return out, nil
}

func translateMarker(b *markerBlock) (*config.Marker, error) {
	m := &config.Marker{
		Name:        b.Name,
		Side:        b.Side,
		Parent:      b.Parent,
		Type:        b.Type,
		Size:        b.Size,
		Limb:        b.Limb,
		Symmetrical: b.Symmetrical,
	}
	switch len(b.Position) {
	case 0:
	case 3:
		copy(m.Position[:], b.Position)
	default:
		return nil, fmt.Errorf("marker %q: position needs 3 components, got %d", b.Name, len(b.Position))
	}
	return m, nil
}
