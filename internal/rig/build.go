package rig

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/control"
	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/naming"
)

// Prepare loads the character to work on, creating it through p when the
// scene has none. The marker group is guaranteed to exist afterwards.
func Prepare(ctx context.Context, attrs *attr.Store, reg *limb.Registry, p Prompter) (*Context, error) {
	c, err := LoadOrCreateCharacter(ctx, attrs, reg, p)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Character ready.", "character", c.RawName, "markers", c.MarkerGroup)
	return c, nil
}

// GenerateMarkers places the markers of the limb registered under key and
// returns the root marker.
func (c *Context) GenerateMarkers(ctx context.Context, key string, opts limb.Options) (string, error) {
	if !c.Scene().Exists(c.MarkerGroup) {
		return "", fmt.Errorf("markers for %s: %w", key, ErrNoCharacter)
	}
	factory, err := c.Registry.Lookup(key)
	if err != nil {
		return "", err
	}
	root, err := factory().GenerateMarkers(ctx, c.Rig, opts)
	if err != nil {
		return "", fmt.Errorf("markers for %s: %w", key, err)
	}
	ctxlog.FromContext(ctx).Info("Generated markers.", "limb", key, "root", root)
	return root, nil
}

type groupPolicy int

const (
	// keep creates the group when missing and leaves its contents alone.
	keep groupPolicy = iota
	// recreate deletes the group and everything below it first.
	recreate
)

type outputGroup struct {
	name   string
	parent string
	policy groupPolicy
}

func (c *Context) outputGroups() []outputGroup {
	return []outputGroup{
		{c.OutputGroup, "", keep},
		{c.InternalsGroup, c.OutputGroup, keep},
		{c.ControlsGroup, c.OutputGroup, recreate},
		{c.GeometryGroup, c.OutputGroup, keep},
		{c.PoseGroup, c.InternalsGroup, recreate},
		{c.SystemsGroup, c.InternalsGroup, recreate},
		{c.BindGroup, c.InternalsGroup, recreate},
	}
}

// createOutput lays out the output hierarchy. User geometry and the
// top-level groups survive a rebuild; the generated content does not.
func (c *Context) createOutput(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	sc := c.Scene()
	for _, g := range c.outputGroups() {
		exists := sc.Exists(g.name)
		if exists && g.policy == recreate {
			logger.Debug("Replacing group.", "group", g.name)
			if err := sc.Delete(g.name); err != nil {
				return err
			}
			exists = false
		}
		if !exists {
			if err := sc.CreateNode("transform", g.name, g.parent); err != nil {
				return fmt.Errorf("create group %s: %w", g.name, err)
			}
		} else if sc.Parent(g.name) != g.parent {
			if err := sc.SetParent(g.name, g.parent); err != nil {
				return err
			}
		}
		if err := sc.ReorderBack(g.name); err != nil {
			return err
		}
	}
	return nil
}

// createPoseJoints copies every marker chain into the pose group with its
// rotation and scale baked into the joint orients. Chains whose pose copy
// exists are skipped; symmetrical chains are mirrored.
func (c *Context) createPoseJoints(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	markers := c.Joints.Descendants(c.MarkerGroup)
	roots := lo.Filter(markers, func(j string, _ int) bool { return c.Joints.IsRoot(j) })

	for _, root := range roots {
		id, err := naming.ButWith(naming.Parse(root), naming.WithSuffix(naming.SuffixPoseJoint))
		if err != nil {
			return fmt.Errorf("pose joints of %s: %w", root, err)
		}
		if c.Scene().Exists(id.ToSceneHandle()) {
			logger.Debug("Pose joints exist, skipping.", "root", root)
			continue
		}
		chain, err := c.Joints.ChainFromRoot(root)
		if err != nil {
			return err
		}
		pose, err := c.Joints.Variants(ctx, chain.Names(), naming.SuffixPoseJoint, joint.VariantOptions{})
		if err != nil {
			return fmt.Errorf("pose joints of %s: %w", root, err)
		}
		if err := c.Joints.BakeIdentity(pose.Names()); err != nil {
			return err
		}
		poseRoot := pose.At(0)
		if c.Scene().Parent(poseRoot) == c.MarkerGroup {
			if err := c.Scene().SetParent(poseRoot, c.PoseGroup); err != nil {
				return err
			}
		}

		symmetrical, err := c.Joints.IsSymmetrical(root)
		if err != nil {
			return err
		}
		if symmetrical {
			if _, err := c.Joints.Mirror(ctx, poseRoot); err != nil {
				return fmt.Errorf("mirror %s: %w", poseRoot, err)
			}
		}
		logger.Debug("Created pose joints.", "root", poseRoot, "joints", pose.Len(), "mirrored", symmetrical)
	}
	return nil
}

// globalControls creates the layout control and, when the pose has a CoG
// joint, the centre of gravity control under it.
func (c *Context) globalControls(ctx context.Context, pose *joint.Collection) error {
	layout, err := c.Controls.Create(ctx, control.CircleWithArrows, c.ControlsGroup, "Layout", control.Options{
		Parent: c.ControlsGroup,
		Axis:   control.Y,
		Radius: c.LayoutSize,
	})
	if err != nil {
		return fmt.Errorf("layout control: %w", err)
	}
	c.LayoutControl = layout
	c.CoGControl = layout

	if !pose.Has("CoG") {
		return nil
	}
	cog, err := pose.One("CoG")
	if err != nil {
		return err
	}
	c.CoGControl, err = c.Controls.Create(ctx, control.CircleWithArrows, cog, "CenterOfGravity", control.Options{
		Parent: layout,
		Axis:   control.Y,
	})
	if err != nil {
		return fmt.Errorf("CoG control: %w", err)
	}
	return nil
}

// Build creates the output groups and pose joints, then runs the limb
// generator of every pose root, parents before children.
func (c *Context) Build(ctx context.Context) ([]*limb.Build, error) {
	logger := ctxlog.FromContext(ctx)
	if !c.Scene().Exists(c.MarkerGroup) {
		return nil, ErrNoCharacter
	}
	logger.Info("Building rig.", "character", c.RawName)

	if err := c.createOutput(ctx); err != nil {
		return nil, err
	}
	if err := c.createPoseJoints(ctx); err != nil {
		return nil, err
	}
	pose := joint.NewCollection(c.Joints, c.Joints.Descendants(c.PoseGroup))
	if err := c.globalControls(ctx, pose); err != nil {
		return nil, err
	}

	roots := lo.Filter(pose.Names(), func(j string, _ int) bool { return c.Joints.IsRoot(j) })
	reversed := slices.Clone(roots)
	slices.Reverse(reversed)
	for _, root := range reversed {
		if err := c.Scene().ReorderBack(root); err != nil {
			return nil, err
		}
	}

	builds := make([]*limb.Build, 0, len(roots))
	for _, root := range roots {
		chain, err := c.Joints.ChainFromRoot(root)
		if err != nil {
			return nil, err
		}
		b, err := limb.Run(ctx, c.Rig, c.Registry, chain)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	logger.Info("Built rig.", "character", c.RawName, "limbs", len(builds))
	return builds, nil
}

// Bind is a placeholder for skinning the geometry to the bind joints.
func (c *Context) Bind(ctx context.Context) error {
	ctxlog.FromContext(ctx).Info("Got command to bind, nothing to do yet.", "character", c.RawName)
	return nil
}
