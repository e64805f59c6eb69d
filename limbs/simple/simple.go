// Package simple provides a generic FK chain: one circle control per joint,
// each facing the axis stored on the joint or inherited from its parent.
package simple

import (
	"context"
	"fmt"

	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/control"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/nodegraph"
	"github.com/vk/riggen/internal/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Key is the generator key of the simple limb.
const Key = "Simple"

// AxisAttr is the enum on a marker picking the axis its control faces.
const AxisAttr = "axis"

// Module implements the limb.Module interface for this package.
type Module struct{}

// Register registers the generator.
func (m *Module) Register(r *limb.Registry) {
	r.Register(Key, func() limb.Limb { return New() })
}

// Simple is the generator.
type Simple struct {
	limb.Base
}

// New returns a simple limb generator.
func New() *Simple {
	return &Simple{Base: limb.NewBase(Key, "Simple")}
}

// Options are the marker options.
type Options struct {
	limb.Placement
	Name     string    `cty:"name"`
	Axis     string    `cty:"axis"`
	Position []float64 `cty:"position"`
	Size     float64   `cty:"size"`
}

// GenerateMarkers places one root marker carrying the axis enum.
func (s *Simple) GenerateMarkers(ctx context.Context, r *limb.Rig, opts limb.Options) (string, error) {
	o := Options{Placement: limb.DefaultPlacement(), Name: "Joint", Axis: "X"}
	if err := opts.Decode(&o); err != nil {
		return "", fmt.Errorf("%s markers: %w", Key, err)
	}
	side, err := o.ParsedSide()
	if err != nil {
		return "", err
	}
	axis, ok := control.ParseAxis(o.Axis)
	if !ok {
		return "", fmt.Errorf("%s markers: unknown axis %q", Key, o.Axis)
	}
	var pos r3.Vec
	switch len(o.Position) {
	case 0:
	case 3:
		pos = r3.Vec{X: o.Position[0], Y: o.Position[1], Z: o.Position[2]}
	default:
		return "", fmt.Errorf("%s markers: position needs 3 components, got %d", Key, len(o.Position))
	}

	root, err := r.Joints.Marker(ctx, side, o.Name, pos, joint.MarkerOptions{Size: o.Size})
	if err != nil {
		return "", err
	}
	if err := s.MarkRoot(r, root, o.Symmetrical); err != nil {
		return "", err
	}
	err = r.Attrs().Add(root, AxisAttr, attr.AddOptions{
		Options: []string{"X", "Y", "Z"},
		Value:   int(axis),
		Keyable: true,
	})
	if err != nil {
		return "", err
	}
	r.Scene().Select(root)
	return root, nil
}

// BuildControls chains one circle control per pose joint, each driving its
// joint.
func (s *Simple) BuildControls(ctx context.Context, b *limb.Build) error {
	axis := control.X
	parent := b.ControlGroup
	for _, j := range b.Pose.Names() {
		if b.Attrs().Exists(scene.P(j, AxisAttr)) {
			v, err := b.Attrs().Int(scene.P(j, AxisAttr))
			if err != nil {
				return err
			}
			axis = control.Axis(v)
		}
		id, err := naming.ParseStructured(j)
		if err != nil {
			return err
		}
		ctrl, err := b.Controls.Circle(ctx, j, id.Name, control.Options{Parent: parent, Axis: axis})
		if err != nil {
			return err
		}
		if _, err := b.Graph.ParentConstraint(ctrl, j, nodegraph.ConstraintOptions{Connect: true}); err != nil {
			return err
		}
		parent = ctrl
	}
	return nil
}

// BuildBindJoints copies the chain and constrains each copy to its pose
// joint.
func (s *Simple) BuildBindJoints(ctx context.Context, b *limb.Build) (*joint.Collection, error) {
	pose := b.Pose.Names()
	bind, err := b.Joints.Variants(ctx, pose, naming.SuffixBindJoint, joint.VariantOptions{RootParent: b.BindParent(pose[0])})
	if err != nil {
		return nil, err
	}
	for i, j := range pose {
		if _, err := b.Graph.ParentConstraint(j, bind.At(i), nodegraph.ConstraintOptions{Connect: true}); err != nil {
			return nil, err
		}
	}
	return bind, nil
}
