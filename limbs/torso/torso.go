// Package torso provides the torso generators: an FK spine whose middle
// control blends between the pelvis and the upper torso, and a pelvis-only
// variant.
package torso

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/control"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/nodegraph"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	KeyFK     = "TorsoFK"
	KeySimple = "TorsoSimple"

	// BlendAttr weights a spine joint between the controls around it.
	BlendAttr = "blend"
)

// Module implements the limb.Module interface for this package.
type Module struct{}

// Register registers both torso generators.
func (m *Module) Register(r *limb.Registry) {
	r.Register(KeyFK, func() limb.Limb { return NewFK() })
	r.Register(KeySimple, func() limb.Limb { return NewSimple() })
}

// Options are the marker options. The whole layout is moved by Offset.
type Options struct {
	Offset []float64 `cty:"offset"`
}

func decode(key string, opts limb.Options) (r3.Vec, error) {
	var o Options
	if err := opts.Decode(&o); err != nil {
		return r3.Vec{}, fmt.Errorf("%s markers: %w", key, err)
	}
	switch len(o.Offset) {
	case 0:
		return r3.Vec{}, nil
	case 3:
		return r3.Vec{X: o.Offset[0], Y: o.Offset[1], Z: o.Offset[2]}, nil
	}
	return r3.Vec{}, fmt.Errorf("%s markers: offset needs 3 components, got %d", key, len(o.Offset))
}

type marker struct {
	name  string
	pos   r3.Vec
	size  float64
	blend float64
	nice  string
}

// place creates markers as a chain under parent.
func place(ctx context.Context, r *limb.Rig, parent string, offset r3.Vec, markers []marker) ([]string, error) {
	out := make([]string, 0, len(markers))
	for _, m := range markers {
		j, err := r.Joints.Marker(ctx, naming.Center, m.name, r3.Add(m.pos, offset), joint.MarkerOptions{
			Size:   m.size,
			Parent: parent,
		})
		if err != nil {
			return nil, err
		}
		if m.nice != "" {
			err := r.Attrs().Add(j, BlendAttr, attr.AddOptions{
				Kind:     scene.KindFloat,
				Value:    m.blend,
				Min:      floatPtr(0),
				Max:      floatPtr(1),
				NiceName: m.nice,
			})
			if err != nil {
				return nil, err
			}
		}
		out = append(out, j)
		parent = j
	}
	return out, nil
}

func floatPtr(v float64) *float64 { return &v }

// FK is the TorsoFK generator.
type FK struct {
	limb.Base
}

// NewFK returns the FK torso generator.
func NewFK() *FK {
	return &FK{Base: limb.NewBase(KeyFK, "Torso")}
}

// GenerateMarkers places the CoG, the pelvis with its nib and a three
// joint spine ending in a nib.
func (t *FK) GenerateMarkers(ctx context.Context, r *limb.Rig, opts limb.Options) (string, error) {
	offset, err := decode(KeyFK, opts)
	if err != nil {
		return "", err
	}
	cog, err := r.Joints.CoGMarker(ctx, offset)
	if err != nil {
		return "", err
	}
	if err := t.MarkRoot(r, cog, false); err != nil {
		return "", err
	}
	pelvis, err := place(ctx, r, cog, offset, []marker{{name: "Pelvis", size: 15}})
	if err != nil {
		return "", err
	}
	if _, err := place(ctx, r, pelvis[0], offset, []marker{{name: "PelvisNib", pos: r3.Vec{Y: -12, Z: -4.5}}}); err != nil {
		return "", err
	}
	spine, err := place(ctx, r, pelvis[0], offset, []marker{
		{name: "Spine0", size: 12, blend: 0.5, nice: "Blend hip <--> shoulder"},
		{name: "Spine1", pos: r3.Vec{Y: 8}, size: 15, blend: 0.8, nice: "Blend middle <--> shoulder"},
		{name: "Spine2", pos: r3.Vec{Y: 16, Z: -1}, size: 10},
		{name: "SpineNib", pos: r3.Vec{Y: 32, Z: -6}},
	})
	if err != nil {
		return "", err
	}
	if err := r.Attrs().Lock(spine[0], "translate"); err != nil {
		return "", err
	}
	r.Scene().Select(cog)
	return cog, nil
}

// BuildControls builds the pelvis, middle torso and upper torso controls.
// The middle control inherits a slerp of the pelvis and upper torso
// rotations, weighted by Spine0's blend.
func (t *FK) BuildControls(ctx context.Context, b *limb.Build) error {
	for _, j := range b.Pose.Names() {
		if err := b.Joints.OrientWorld(j, false); err != nil {
			return err
		}
	}
	if _, err := b.Graph.ParentConstraint(b.CoGControl, b.ControlGroup, nodegraph.ConstraintOptions{Connect: true}); err != nil {
		return err
	}

	pelvisCtrl, err := pelvisControl(ctx, b, true)
	if err != nil {
		return err
	}
	spine0, err := b.Pose.One("Spine0")
	if err != nil {
		return err
	}
	spine1, err := b.Pose.One("Spine1")
	if err != nil {
		return err
	}
	spine2, err := b.Pose.One("Spine2")
	if err != nil {
		return err
	}

	toMiddle, err := b.Joints.ToChild(spine0)
	if err != nil {
		return err
	}
	middle, err := b.Controls.Circle(ctx, spine0, "MiddleTorso", control.Options{
		Parent:   b.ControlGroup,
		Position: joint.Vec(toMiddle),
		Axis:     control.Y,
	})
	if err != nil {
		return err
	}

	toSpine2, err := b.Joints.ToChild(spine1)
	if err != nil {
		return err
	}
	toNib, err := b.Joints.ToChild(spine2)
	if err != nil {
		return err
	}
	shoulder, err := b.Controls.Create(ctx, control.Saddle, spine1, "UpperTorso", control.Options{
		Parent:   b.ControlGroup,
		Stretch:  &mgl64.Vec3{1, -1, 1},
		Axis:     control.Y,
		Position: joint.Vec(r3.Add(toSpine2, r3.Scale(0.5, toNib))),
	})
	if err != nil {
		return err
	}
	for _, ctrl := range []string{middle, shoulder} {
		if err := b.Attrs().Set(scene.P(ctrl, "rotateOrder"), xform.YZX.String()); err != nil {
			return err
		}
	}

	blend0, err := b.Attrs().Float(scene.P(spine0, BlendAttr))
	if err != nil {
		return err
	}
	if err := mixLocalRotations(b, pelvisCtrl, middle, shoulder, blend0); err != nil {
		return err
	}

	blend1, err := b.Attrs().Float(scene.P(spine1, BlendAttr))
	if err != nil {
		return err
	}
	constraints := []struct {
		sources []string
		target  string
		weights []any
	}{
		{[]string{middle}, spine0, []any{1.0}},
		{[]string{middle, shoulder}, spine1, nodegraph.SequentialWeights(1-blend1, blend1)},
		{[]string{shoulder}, spine2, []any{1.0}},
	}
	for _, c := range constraints {
		if _, err := b.Graph.OrientConstraint(c.sources, c.target, c.weights); err != nil {
			return err
		}
	}

	if err := b.Attrs().Lock(pelvisCtrl, "translate"); err != nil {
		return err
	}
	for _, ctrl := range []string{middle, shoulder} {
		if err := b.Attrs().Lock(ctrl, "translate", "scale"); err != nil {
			return err
		}
	}
	return nil
}

// mixLocalRotations feeds middle a rotation slerped from the pelvis control
// towards the shoulder control on top of its rest pose.
func mixLocalRotations(b *limb.Build, pelvis, middle, shoulder string, blend float64) error {
	shoulderRot, err := b.Graph.EulerToQuat(nodegraph.For(shoulder), scene.P(shoulder, "rotate"), scene.P(shoulder, "rotateOrder"))
	if err != nil {
		return err
	}
	pelvisRot, err := b.Graph.EulerToQuat(nodegraph.For(pelvis), scene.P(pelvis, "rotate"), scene.P(pelvis, "rotateOrder"))
	if err != nil {
		return err
	}
	mid, err := b.Graph.QuatSlerp(nodegraph.For(middle), blend, pelvisRot, shoulderRot)
	if err != nil {
		return err
	}
	rot, err := b.Graph.ComposeMatrix(nodegraph.For(middle), nodegraph.ComposeOptions{Quat: mid})
	if err != nil {
		return err
	}
	rest, err := b.Attrs().Matrix(scene.P(middle, "offsetParentMatrix"))
	if err != nil {
		return err
	}
	out, err := b.Graph.MatMult(nodegraph.For(middle), rot, rest)
	if err != nil {
		return err
	}
	return b.Attrs().Connect(out, scene.P(middle, "offsetParentMatrix"), true)
}

// pelvisControl folds the CoG joint into the pelvis, optionally moves the
// pelvis pivot to its nib, and drives it with a saddle control.
func pelvisControl(ctx context.Context, b *limb.Build, useNib bool) (string, error) {
	sc := b.Scene()
	cog, err := b.Pose.Pop("CoG")
	if err != nil {
		return "", err
	}
	pelvis, err := b.Pose.One("Pelvis")
	if err != nil {
		return "", err
	}
	if err := sc.SetParent(pelvis, sc.Parent(cog)); err != nil {
		return "", err
	}
	for _, c := range b.Joints.Children(cog) {
		if err := sc.SetParent(c, pelvis); err != nil {
			return "", err
		}
	}
	if err := b.Joints.Dissolve(cog); err != nil {
		return "", err
	}

	ctrl, err := b.Controls.Create(ctx, control.Saddle, pelvis, "Pelvis", control.Options{
		Parent: b.ControlGroup,
		Axis:   control.Y,
	})
	if err != nil {
		return "", err
	}
	if err := b.Attrs().Set(scene.P(ctrl, "rotateOrder"), xform.YZX.String()); err != nil {
		return "", err
	}

	if useNib {
		if err := moveToNib(b, pelvis); err != nil {
			return "", err
		}
	}
	if _, err := b.Graph.ParentConstraint(ctrl, pelvis, nodegraph.ConstraintOptions{Connect: true}); err != nil {
		return "", err
	}
	return ctrl, nil
}

// moveToNib moves the pelvis joint onto the PelvisNib marker without moving
// its children, then removes the nib.
func moveToNib(b *limb.Build, pelvis string) error {
	sc := b.Scene()
	nib, err := b.Pose.Pop("PelvisNib")
	if err != nil {
		return err
	}
	spine0, err := b.Pose.One("Spine0")
	if err != nil {
		return err
	}
	if err := b.Attrs().Unlock(spine0, "translate"); err != nil {
		return err
	}
	nibPos, err := b.Joints.Position(nib)
	if err != nil {
		return err
	}

	children := sc.Children(pelvis)
	for _, c := range children {
		if err := sc.SetParent(c, ""); err != nil {
			return err
		}
	}
	world, err := sc.WorldMatrix(pelvis)
	if err != nil {
		return err
	}
	if err := sc.SetWorldMatrix(pelvis, xform.WithTranslation(world, joint.Vec(nibPos))); err != nil {
		return err
	}
	for _, c := range children {
		if err := sc.SetParent(c, pelvis); err != nil {
			return err
		}
	}
	return b.Joints.Dissolve(nib)
}

// BuildBindJoints binds the pelvis and the three spine joints.
func (t *FK) BuildBindJoints(ctx context.Context, b *limb.Build) (*joint.Collection, error) {
	pose := make([]string, 0, 4)
	for _, typ := range []string{"Pelvis", "Spine0", "Spine1", "Spine2"} {
		j, err := b.Pose.One(typ)
		if err != nil {
			return nil, err
		}
		pose = append(pose, j)
	}
	bind, err := b.Joints.Variants(ctx, pose, naming.SuffixBindJoint, joint.VariantOptions{RootParent: b.BindParent(pose[0])})
	if err != nil {
		return nil, err
	}
	for i, j := range bind.Names() {
		if err := b.Attrs().Unlock(j, "translate", "rotate", "scale"); err != nil {
			return nil, err
		}
		if _, err := b.Graph.ParentConstraint(pose[i], j, nodegraph.ConstraintOptions{Connect: true}); err != nil {
			return nil, err
		}
	}
	return bind, nil
}

// Simple is the TorsoSimple generator: a CoG and a pelvis.
type Simple struct {
	limb.Base
}

// NewSimple returns the simple torso generator.
func NewSimple() *Simple {
	return &Simple{Base: limb.NewBase(KeySimple, "Torso")}
}

// GenerateMarkers places the CoG and the pelvis.
func (t *Simple) GenerateMarkers(ctx context.Context, r *limb.Rig, opts limb.Options) (string, error) {
	offset, err := decode(KeySimple, opts)
	if err != nil {
		return "", err
	}
	cog, err := r.Joints.CoGMarker(ctx, offset)
	if err != nil {
		return "", err
	}
	if err := t.MarkRoot(r, cog, false); err != nil {
		return "", err
	}
	if _, err := place(ctx, r, cog, offset, []marker{{name: "Pelvis", size: 10}}); err != nil {
		return "", err
	}
	r.Scene().Select(cog)
	return cog, nil
}

// BuildControls drives the pelvis with a saddle control under the CoG.
func (t *Simple) BuildControls(ctx context.Context, b *limb.Build) error {
	if _, err := b.Graph.ParentConstraint(b.CoGControl, b.ControlGroup, nodegraph.ConstraintOptions{Connect: true}); err != nil {
		return err
	}
	for _, j := range b.Pose.Names() {
		if err := b.Joints.OrientWorld(j, false); err != nil {
			return err
		}
	}
	_, err := pelvisControl(ctx, b, false)
	return err
}

// BuildBindJoints binds the whole chain; only the root is constrained, the
// rest follows through the hierarchy.
func (t *Simple) BuildBindJoints(ctx context.Context, b *limb.Build) (*joint.Collection, error) {
	pose := b.Pose.Names()
	bind, err := b.Joints.Variants(ctx, pose, naming.SuffixBindJoint, joint.VariantOptions{RootParent: b.BindParent(pose[0])})
	if err != nil {
		return nil, err
	}
	if _, err := b.Graph.ParentConstraint(pose[0], bind.At(0), nodegraph.ConstraintOptions{Connect: true}); err != nil {
		return nil, err
	}
	return bind, nil
}
