package app

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/vk/riggen/internal/config"
	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/rig"
	"gonum.org/v1/gonum/spatial/r3"
)

// placeMarkers runs the marker generator of every limb block, then creates
// the hand placed markers, then moves the generated roots under their
// parents. Parents may therefore name markers from either source.
func (a *App) placeMarkers(ctx context.Context, c *rig.Context) error {
	logger := ctxlog.FromContext(ctx)

	roots := make([]string, len(a.model.Limbs))
	for i, l := range a.model.Limbs {
		root, err := c.GenerateMarkers(ctx, l.Type, limb.Options(l.Options))
		if err != nil {
			return fmt.Errorf("limb %q: %w", l.Name, err)
		}
		roots[i] = root
	}

	for _, m := range a.model.Markers {
		if err := a.placeMarker(ctx, c, m); err != nil {
			return fmt.Errorf("marker %q: %w", m.Name, err)
		}
	}

	for i, l := range a.model.Limbs {
		if l.Parent == "" {
			continue
		}
		if err := c.Scene().SetParent(roots[i], l.Parent); err != nil {
			return fmt.Errorf("limb %q: parent %q: %w", l.Name, l.Parent, err)
		}
	}
	logger.Info("Placed markers.", "limbs", len(a.model.Limbs), "markers", len(a.model.Markers))
	return nil
}

func (a *App) placeMarker(ctx context.Context, c *rig.Context, m *config.Marker) error {
	side, err := naming.ParseSide(m.Side)
	if err != nil {
		return err
	}
	handle, err := c.Joints.Marker(ctx, side, m.Name, r3.Vec{X: m.Position[0], Y: m.Position[1], Z: m.Position[2]}, joint.MarkerOptions{
		Size:   m.Size,
		Type:   m.Type,
		Parent: lo.Ternary(m.Parent != "", m.Parent, c.MarkerGroup),
	})
	if err != nil {
		return err
	}
	if m.Limb != "" {
		return c.Joints.MarkRoot(handle, m.Limb, m.Symmetrical)
	}
	return nil
}
