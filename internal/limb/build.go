package limb

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/nodegraph"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
)

// Build is the state of one limb generator running over one chain.
type Build struct {
	*Rig
	Limb Limb

	// Pose is the chain of pose joints, root first.
	Pose *joint.Collection
	// Bind is set once the bind joints exist.
	Bind *joint.Collection

	ControlGroup string
	SystemsGroup string

	wsSystems string
}

// Run looks up the generator named by the chain root and runs it: groups,
// controls, a prune of the pose chain, bind joints, cleanup.
func Run(ctx context.Context, r *Rig, reg *Registry, chain *joint.Collection) (*Build, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	root := chain.At(0)
	key, err := r.Joints.Generator(root)
	if err != nil {
		return nil, err
	}
	factory, err := reg.Lookup(key)
	if err != nil {
		return nil, fmt.Errorf("chain %s: %w", root, err)
	}
	l := factory()
	ctx = ctxlog.With(ctx, "limb", key, "root", root)
	logger = ctxlog.FromContext(ctx)
	logger.Debug("Building limb.", "joints", chain.Len())

	b := &Build{Rig: r, Limb: l, Pose: chain}
	if err := b.groups(root); err != nil {
		return nil, fmt.Errorf("limb %s at %s: %w", key, root, err)
	}
	if err := l.BuildControls(ctx, b); err != nil {
		return nil, fmt.Errorf("limb %s controls: %w", key, err)
	}
	b.Pose.Prune()
	b.Bind, err = l.BuildBindJoints(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("limb %s bind joints: %w", key, err)
	}
	if err := l.Cleanup(ctx, b); err != nil {
		return nil, fmt.Errorf("limb %s cleanup: %w", key, err)
	}
	logger.Info("Built limb.", "bind_joints", b.Bind.Len())
	return b, nil
}

// groups creates the control and systems groups at the chain root. They
// follow the root's driver when it lives outside the pose group; otherwise
// the systems group follows the layout control.
func (b *Build) groups(root string) error {
	display := b.Limb.DisplayName()
	var err error
	b.ControlGroup, err = b.GroupAt(root, GroupOptions{Name: display, Parent: b.ControlsGroup})
	if err != nil {
		return err
	}
	b.SystemsGroup, err = b.GroupAt(root, GroupOptions{Name: display, Suffix: naming.SuffixSystemGroup, Parent: b.Rig.SystemsGroup})
	if err != nil {
		return err
	}

	driver := b.Scene().Parent(root)
	if driver != "" && driver != b.PoseGroup {
		for _, grp := range []string{b.ControlGroup, b.SystemsGroup} {
			if _, err := b.Graph.ParentConstraint(driver, grp, nodegraph.ConstraintOptions{Connect: true}); err != nil {
				return err
			}
		}
		return nil
	}
	if b.LayoutControl != "" {
		_, err = b.Graph.ParentConstraint(b.LayoutControl, b.SystemsGroup, nodegraph.ConstraintOptions{Connect: true})
	}
	return err
}

// WSSystems returns the world-space systems group of the limb, creating it
// on first use. It follows the rotation of the layout control only.
func (b *Build) WSSystems() (string, error) {
	if b.wsSystems != "" {
		return b.wsSystems, nil
	}
	grp, err := b.GroupAt(b.SystemsGroup, GroupOptions{Name: b.Limb.DisplayName(), Suffix: "wsSystems", Parent: b.SystemsGroup})
	if err != nil {
		return "", err
	}
	if b.LayoutControl != "" {
		_, err = b.Graph.ParentConstraint(b.LayoutControl, grp, nodegraph.ConstraintOptions{
			Connect: true,
			TRS:     nodegraph.TRS{Rotate: lo.ToPtr(true)},
		})
		if err != nil {
			return "", err
		}
	}
	b.wsSystems = grp
	return grp, nil
}

// GroupOptions configures GroupAt.
type GroupOptions struct {
	// Name replaces the semantic name of the reference.
	Name string
	// Suffix defaults to "grp".
	Suffix string
	Parent string
	// Offset moves the group away from the reference in world space.
	Offset mgl64.Vec3
}

// GroupAt creates an empty transform named after ref, sitting at ref's
// world position with a world-aligned rest pose.
func (r *Rig) GroupAt(ref string, o GroupOptions) (string, error) {
	opts := []naming.Option{naming.WithSuffix(naming.SuffixGroup)}
	if o.Suffix != "" {
		opts = []naming.Option{naming.WithSuffix(o.Suffix)}
	}
	if o.Name != "" {
		opts = append(opts, naming.WithName(o.Name))
	}
	grp, err := r.Named(ref, opts...)
	if err != nil {
		return "", fmt.Errorf("group at %s: %w", ref, err)
	}
	world, err := r.Scene().WorldMatrix(ref)
	if err != nil {
		return "", err
	}
	if err := r.Scene().CreateNode("transform", grp, o.Parent); err != nil {
		return "", err
	}
	pos := xform.Translation(world).Add(o.Offset)
	if err := r.Scene().SetWorldMatrix(grp, mgl64.Translate3D(pos[0], pos[1], pos[2])); err != nil {
		return "", err
	}
	return grp, r.Attrs().SetRest(grp)
}

// IKHandle creates an ikHandle solving start to end with solver, under
// parent. The handle sits at end's world position.
func (r *Rig) IKHandle(name, start, end, solver, parent string) (string, error) {
	if err := r.Scene().CreateNode("ikHandle", name, parent); err != nil {
		return "", err
	}
	values := map[string]any{"startJoint": start, "endEffector": end, "solver": solver}
	for attrName, v := range values {
		if err := r.Attrs().Set(scene.P(name, attrName), v); err != nil {
			return "", err
		}
	}
	world, err := r.Scene().WorldMatrix(end)
	if err != nil {
		return "", err
	}
	pos := xform.Translation(world)
	if err := r.Scene().SetWorldMatrix(name, mgl64.Translate3D(pos[0], pos[1], pos[2])); err != nil {
		return "", err
	}
	return name, r.Attrs().SetRest(name)
}

// Named builds a handle from ref with some of its parts replaced, resolving
// collisions by incrementing.
func (r *Rig) Named(ref string, opts ...naming.Option) (string, error) {
	id, err := naming.ButWith(naming.Parse(ref), opts...)
	if err != nil {
		return "", err
	}
	id, err = naming.Resolve(r.Scene(), id, naming.Increment)
	if err != nil {
		return "", err
	}
	return id.ToSceneHandle(), nil
}

// BindParent is the parent for the bind copy of a chain root: the bind
// variant of the root's parent when it already exists, the bind group
// otherwise.
func (b *Build) BindParent(root string) string {
	parent := b.Scene().Parent(root)
	if parent != "" && parent != b.PoseGroup {
		id, err := naming.ButWith(naming.Parse(parent), naming.WithSuffix(naming.SuffixBindJoint))
		if err == nil && b.Scene().Exists(id.ToSceneHandle()) {
			return id.ToSceneHandle()
		}
	}
	return b.BindGroup
}
