// Package twist builds the helper joints that spread a ball joint's twist
// along a limb segment, and half joints that follow a joint half way.
package twist

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
)

// Builder creates twist and half joints.
type Builder struct {
	joints *joint.Joints
	graph  *nodegraph.Builder
}

// New returns a Builder.
func New(joints *joint.Joints, graph *nodegraph.Builder) *Builder {
	return &Builder{joints: joints, graph: graph}
}

func (b *Builder) sc() scene.Scene { return b.joints.Scene() }

func (b *Builder) renamed(handle string, opts ...naming.Option) (string, error) {
	id, err := naming.ButWith(naming.Parse(handle), opts...)
	if err != nil {
		return "", err
	}
	id, err = naming.Resolve(b.sc(), id, naming.Increment)
	if err != nil {
		return "", err
	}
	return id.ToSceneHandle(), nil
}

func (b *Builder) scaleRadius(j string, factor float64) error {
	p := scene.P(j, "radius")
	r, err := b.joints.Attrs().Float(p)
	if err != nil {
		return err
	}
	return b.joints.Attrs().Set(p, r*factor)
}

// HalfJoint adds a sibling of j named <Name>Half that rotates half as much
// as j does away from its rest pose. The rest pose copy lives in
// systemsGrp.
func (b *Builder) HalfJoint(ctx context.Context, j, systemsGrp string) (string, error) {
	rest, err := b.joints.Variants(ctx, []string{j}, "restPose", joint.VariantOptions{
		RootParent:      systemsGrp,
		KeepRoot:        lo.ToPtr(false),
		ClearAttributes: true,
		OnCollision:     lo.ToPtr(naming.Increment),
	})
	if err != nil {
		return "", fmt.Errorf("half joint of %s: %w", j, err)
	}

	id, err := naming.ParseStructured(j)
	if err != nil {
		return "", fmt.Errorf("half joint of %s: %w", j, err)
	}
	half, err := b.renamed(j, naming.WithName(id.Name+"Half"))
	if err != nil {
		return "", err
	}
	if err := b.sc().Duplicate(j, half); err != nil {
		return "", err
	}
	if err := b.joints.ClearRoot(half); err != nil {
		return "", err
	}
	if err := b.scaleRadius(half, 1.5); err != nil {
		return "", err
	}
	_, err = b.graph.OrientConstraint([]string{rest.At(0), j}, half, nodegraph.SequentialWeights(0.5, 0.5))
	if err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Created half joint.", "joint", j, "half", half)
	return half, nil
}

// BallJoint spreads the twist of j over steps joints inserted below
// bindJoint. The swing drives a twist-free copy of j; the twist drives a
// tip joint at j's child, and each inserted joint blends between the two.
// It returns bindJoint followed by the inserted joints.
func (b *Builder) BallJoint(ctx context.Context, j, bindJoint, systemsGrp string, steps int) (*joint.Collection, error) {
	sc := b.sc()
	child, err := b.joints.Child(j)
	if err != nil {
		return nil, fmt.Errorf("ball joint twist on %s: %w", j, err)
	}
	childOffset, err := b.joints.Attrs().Vec3(scene.P(child, "translate"))
	if err != nil {
		return nil, err
	}

	grp, err := b.renamed(j, naming.WithSuffix("twistGrp"))
	if err != nil {
		return nil, err
	}
	if err := sc.CreateNode("transform", grp, systemsGrp); err != nil {
		return nil, err
	}
	world, err := sc.WorldMatrix(j)
	if err != nil {
		return nil, err
	}
	if err := sc.SetWorldMatrix(grp, world); err != nil {
		return nil, err
	}
	if err := b.joints.Attrs().SetRest(grp); err != nil {
		return nil, err
	}
	if parent := sc.Parent(j); parent != "" {
		if _, err := b.graph.ParentConstraint(parent, grp, nodegraph.ConstraintOptions{Connect: true}); err != nil {
			return nil, err
		}
	}

	root, err := b.renamed(j, naming.WithSuffix("noTwistRaw"))
	if err != nil {
		return nil, err
	}
	if err := sc.Duplicate(j, root); err != nil {
		return nil, err
	}
	if err := b.joints.Attrs().ClearUser(root); err != nil {
		return nil, err
	}
	if err := sc.SetParent(root, grp); err != nil {
		return nil, err
	}
	tip, err := b.renamed(j, naming.WithSuffix("twistRaw"))
	if err != nil {
		return nil, err
	}
	if err := sc.CreateNode("joint", tip, root); err != nil {
		return nil, err
	}
	if err := b.joints.Attrs().Set(scene.P(tip, "translate"), childOffset); err != nil {
		return nil, err
	}

	st, err := b.graph.SwingTwist(j)
	if err != nil {
		return nil, err
	}
	if err := b.joints.Attrs().Connect(st.Swing, scene.P(root, "rotate"), true); err != nil {
		return nil, err
	}
	if err := b.joints.Attrs().Connect(st.Twist, scene.P(tip, "rotate"), true); err != nil {
		return nil, err
	}

	out, err := b.subdivide(j, bindJoint, root, tip, childOffset, steps)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Created twist joints.", "joint", j, "steps", steps)
	return out, nil
}

func (b *Builder) subdivide(j, bindJoint, swing, twist string, childOffset mgl64.Vec3, steps int) (*joint.Collection, error) {
	sc := b.sc()
	out := joint.NewCollection(b.joints, []string{bindJoint})

	children := b.joints.Children(bindJoint)
	for _, c := range children {
		if err := sc.SetParent(c, ""); err != nil {
			return nil, err
		}
	}
	if _, err := b.graph.ParentConstraint(swing, bindJoint, nodegraph.ConstraintOptions{Connect: true}); err != nil {
		return nil, err
	}

	id, err := naming.ParseStructured(j)
	if err != nil {
		return nil, err
	}
	radius, err := b.joints.Attrs().Float(scene.P(j, "radius"))
	if err != nil {
		return nil, err
	}
	step := childOffset.Mul(1 / float64(steps+1))
	parent := bindJoint
	for i := 0; i < steps; i++ {
		t := float64(i+1) / float64(steps)
		name, err := b.renamed(j, naming.WithName(id.Name+"Twist"), naming.WithSuffix(naming.SuffixBindJoint))
		if err != nil {
			return nil, err
		}
		if err := sc.CreateNode("joint", name, parent); err != nil {
			return nil, err
		}
		if err := b.joints.Attrs().Set(scene.P(name, "translate"), step); err != nil {
			return nil, err
		}
		if err := b.joints.Attrs().Set(scene.P(name, "radius"), radius*0.5); err != nil {
			return nil, err
		}
		if err := b.joints.SetType(name, "Twist"); err != nil {
			return nil, err
		}
		_, err = b.graph.OrientConstraint([]string{swing, twist}, name, nodegraph.SequentialWeights(1-t, t))
		if err != nil {
			return nil, err
		}
		out.Push(name)
		parent = name
	}

	for _, c := range children {
		if err := sc.SetParent(c, parent); err != nil {
			return nil, err
		}
	}
	return out, nil
}
