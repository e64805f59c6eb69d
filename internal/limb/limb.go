package limb

import (
	"context"
	"fmt"

	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/control"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/nodegraph"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/twist"
)

// Rig is the part of the character context a limb works with: the
// well-known groups, the global controls and the builders bound to the
// scene.
type Rig struct {
	Initials string

	MarkerGroup   string
	PoseGroup     string
	SystemsGroup  string
	BindGroup     string
	ControlsGroup string

	LayoutControl string
	// CoGControl is the layout control when the character has no CoG.
	CoGControl string

	Joints   *joint.Joints
	Controls *control.Controls
	Graph    *nodegraph.Builder
	Twist    *twist.Builder
}

// NewRig binds the builders to attrs' scene. Group and control names are
// filled in by the caller.
func NewRig(attrs *attr.Store, initials string) *Rig {
	joints := joint.New(attrs, initials)
	graph := nodegraph.New(attrs)
	return &Rig{
		Initials: initials,
		Joints:   joints,
		Controls: control.New(joints, graph),
		Graph:    graph,
		Twist:    twist.New(joints, graph),
	}
}

// Scene returns the scene the rig is built in.
func (r *Rig) Scene() scene.Scene { return r.Joints.Scene() }

// Attrs returns the attribute store.
func (r *Rig) Attrs() *attr.Store { return r.Joints.Attrs() }

// MarkerGenerator places the markers of a limb and returns the root marker.
type MarkerGenerator interface {
	GenerateMarkers(ctx context.Context, r *Rig, opts Options) (string, error)
}

// ControlBuilder creates the controls for a chain of pose joints. It may
// restructure the chain; joints it deletes are pruned afterwards.
type ControlBuilder interface {
	BuildControls(ctx context.Context, b *Build) error
}

// BindJointBuilder creates the joints that deform the character, driven by
// the pose joints.
type BindJointBuilder interface {
	BuildBindJoints(ctx context.Context, b *Build) (*joint.Collection, error)
}

// Cleaner removes what has no purpose once the rig is built.
type Cleaner interface {
	Cleanup(ctx context.Context, b *Build) error
}

// Limb is a rig generator for one kind of body part.
type Limb interface {
	Key() string
	DisplayName() string
	MarkerGenerator
	ControlBuilder
	BindJointBuilder
	Cleaner
}

// Base carries the identity of a limb and the behaviour most limbs share.
type Base struct {
	key     string
	display string
}

// NewBase returns a Base for the generator key and display name.
func NewBase(key, display string) Base {
	return Base{key: key, display: display}
}

func (b Base) Key() string         { return b.key }
func (b Base) DisplayName() string { return b.display }

// MarkRoot tags root with the limb key and moves it under the marker group.
func (b Base) MarkRoot(r *Rig, root string, symmetrical bool) error {
	if err := r.Joints.MarkRoot(root, b.key, symmetrical); err != nil {
		return fmt.Errorf("mark root %s: %w", root, err)
	}
	if r.MarkerGroup == "" || r.Scene().Parent(root) == r.MarkerGroup {
		return nil
	}
	return r.Scene().SetParent(root, r.MarkerGroup)
}

// Cleanup strips user attributes from the pose and bind joints.
func (b Base) Cleanup(ctx context.Context, bd *Build) error {
	for _, c := range []*joint.Collection{bd.Pose, bd.Bind} {
		if c == nil {
			continue
		}
		c.Prune()
		for _, j := range c.Names() {
			if err := bd.Attrs().ClearUser(j); err != nil {
				return err
			}
		}
	}
	return nil
}
