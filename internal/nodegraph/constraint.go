package nodegraph

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/scene"
)

// ConstraintOptions configures ParentConstraint.
type ConstraintOptions struct {
	// Connect drives target.offsetParentMatrix with the result.
	Connect bool
	TRS     TRS
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (b *Builder) matrix(p scene.Plug) (mgl64.Mat4, error) {
	return b.Attrs.Matrix(p)
}

// ParentConstraint makes target follow source while keeping the offset the
// two have right now.
//
// The offset is sourceWorld^-1 * targetParentWorld * targetOffsetParent,
// the world matrix target would have with an identity local transform.
// The live chain is targetParent.worldInverse * source.world * offset, so
// at bind time it reproduces the stored offsetParentMatrix.
func (b *Builder) ParentConstraint(source, target string, o ConstraintOptions) (scene.Plug, error) {
	own, err := owner(source, target)
	if err != nil {
		return scene.Plug{}, err
	}
	sourceWorld, err := b.Scene.WorldMatrix(source)
	if err != nil {
		return scene.Plug{}, err
	}
	targetWorld, err := b.Scene.WorldMatrix(target)
	if err != nil {
		return scene.Plug{}, err
	}
	local, err := b.matrix(scene.P(target, "matrix"))
	if err != nil {
		return scene.Plug{}, err
	}
	offset := sourceWorld.Inv().Mul4(targetWorld.Mul4(local.Inv()))

	inputs := []any{offset, scene.P(source, "worldMatrix")}
	if parent := b.Scene.Parent(target); parent != "" {
		inputs = append(inputs, scene.P(parent, "worldInverseMatrix"))
	}
	name := ownerName(source) + "To" + upperFirst(ownerName(target))
	out, err := b.MatMult(Naming{Owner: own, Name: name, Suffix: "matrixParent"}, inputs...)
	if err != nil {
		return scene.Plug{}, fmt.Errorf("parent constraint %s -> %s: %w", source, target, err)
	}

	if o.TRS.Filtered() {
		rest, err := b.matrix(scene.P(target, "offsetParentMatrix"))
		if err != nil {
			return scene.Plug{}, err
		}
		filterOwner, err := owner(target, source)
		if err != nil {
			return scene.Plug{}, err
		}
		out, err = b.BlendMatrix(Naming{Owner: filterOwner, Suffix: "matrixParentFilter"}, rest,
			[]BlendTarget{{Matrix: out}}, BlendOptions{TRS: o.TRS})
		if err != nil {
			return scene.Plug{}, err
		}
	}
	if o.Connect {
		if err := b.Attrs.Connect(out, scene.P(target, "offsetParentMatrix"), true); err != nil {
			return scene.Plug{}, err
		}
	}
	return out, nil
}

// CompositeParent follows source for translation and scale and rotSource
// for rotation.
func (b *Builder) CompositeParent(source, rotSource, target string) (scene.Plug, error) {
	base, err := b.ParentConstraint(source, target, ConstraintOptions{})
	if err != nil {
		return scene.Plug{}, err
	}
	rot, err := b.ParentConstraint(rotSource, target, ConstraintOptions{})
	if err != nil {
		return scene.Plug{}, err
	}
	own, err := owner(target, source)
	if err != nil {
		return scene.Plug{}, err
	}
	out, err := b.BlendMatrix(Naming{Owner: own, Suffix: "compositeParent"}, base,
		[]BlendTarget{{Matrix: rot}}, BlendOptions{TRS: TRS{Rotate: lo.ToPtr(true)}})
	if err != nil {
		return scene.Plug{}, err
	}
	return out, b.Attrs.Connect(out, scene.P(target, "offsetParentMatrix"), true)
}

// SpaceSwitchOptions configures SpaceSwitch.
type SpaceSwitchOptions struct {
	// ControlAttr is an existing enum that drives the switch. When zero a
	// new enum named AttrName is added to ControlNode (default target).
	ControlAttr scene.Plug
	ControlNode string
	AttrName    string
	NiceName    string
	Default     int
	Options     []string
	// IncludeParent adds a leading option that keeps the target's own
	// parent space.
	IncludeParent bool
	TRS           TRS
	// RotSource, when set, always overrides rotation.
	RotSource string
}

// SpaceSwitch lets an enum pick which source drives target. Each source is
// a one-hot layer of a blendMatrix; with IncludeParent option 0 fades the
// whole blend out so target keeps its stored offset.
func (b *Builder) SpaceSwitch(sources []string, target string, o SpaceSwitchOptions) (scene.Plug, error) {
	want := len(sources)
	if o.IncludeParent {
		want++
	}
	control := o.ControlAttr
	if control.IsZero() {
		if len(o.Options) != want {
			return scene.Plug{}, fmt.Errorf("space switch on %s: expected %d options, got %d", target, want, len(o.Options))
		}
		node := lo.Ternary(o.ControlNode != "", o.ControlNode, target)
		name := lo.Ternary(o.AttrName != "", o.AttrName, "space")
		err := b.Attrs.Add(node, name, attr.AddOptions{
			Value:    o.Default,
			Options:  o.Options,
			NiceName: o.NiceName,
			Keyable:  true,
		})
		if err != nil {
			return scene.Plug{}, err
		}
		control = scene.P(node, name)
	} else {
		labels, err := b.Attrs.Labels(control)
		if err != nil {
			return scene.Plug{}, err
		}
		if len(labels) != want {
			return scene.Plug{}, fmt.Errorf("space switch on %s: expected an enum with %d options, got %d", target, want, len(labels))
		}
	}

	own, err := owner(target)
	if err != nil {
		return scene.Plug{}, err
	}
	offset := lo.Ternary(o.IncludeParent, 1, 0)
	targets := make([]BlendTarget, 0, len(sources)+1)
	for i, source := range sources {
		m, err := b.ParentConstraint(source, target, ConstraintOptions{})
		if err != nil {
			return scene.Plug{}, err
		}
		w, err := b.Switch1D(Naming{Owner: own, Suffix: "spaceWeight"}, control, "==", i+offset, nil, nil)
		if err != nil {
			return scene.Plug{}, err
		}
		targets = append(targets, BlendTarget{Matrix: m, Weight: w})
	}
	if o.RotSource != "" {
		m, err := b.ParentConstraint(o.RotSource, target, ConstraintOptions{})
		if err != nil {
			return scene.Plug{}, err
		}
		targets = append(targets, BlendTarget{Matrix: m, Translate: 0.0, Rotate: 1.0, Scale: 0.0, Shear: 0.0})
	}

	var envelope any = 1.0
	if o.IncludeParent {
		envelope, err = b.Switch1D(Naming{Owner: own, Suffix: "spaceEnvelope"}, control, ">", 0, nil, nil)
		if err != nil {
			return scene.Plug{}, err
		}
	}
	rest, err := b.matrix(scene.P(target, "offsetParentMatrix"))
	if err != nil {
		return scene.Plug{}, err
	}
	out, err := b.BlendMatrix(Naming{Owner: own, Suffix: "spaceSwitch"}, rest, targets,
		BlendOptions{Envelope: envelope, TRS: o.TRS})
	if err != nil {
		return scene.Plug{}, err
	}
	return out, b.Attrs.Connect(out, scene.P(target, "offsetParentMatrix"), true)
}

// OrientConstraint blends the rotation of sources onto target. Weights are
// sequential: weights[i] is how much source i overrides the blend of the
// sources before it, so the first weight is normally 1. A weight may be a
// plug.
func (b *Builder) OrientConstraint(sources []string, target string, weights []any) (scene.Plug, error) {
	if len(sources) == 0 || len(sources) != len(weights) {
		return scene.Plug{}, fmt.Errorf("orient constraint on %s: %d sources with %d weights", target, len(sources), len(weights))
	}
	own, err := owner(target)
	if err != nil {
		return scene.Plug{}, err
	}
	targets := make([]BlendTarget, 0, len(sources))
	for i, source := range sources {
		m, err := b.ParentConstraint(source, target, ConstraintOptions{})
		if err != nil {
			return scene.Plug{}, err
		}
		targets = append(targets, BlendTarget{Matrix: m, Weight: weights[i]})
	}
	rest, err := b.matrix(scene.P(target, "offsetParentMatrix"))
	if err != nil {
		return scene.Plug{}, err
	}
	out, err := b.BlendMatrix(Naming{Owner: own, Suffix: "orientBlend"}, rest, targets,
		BlendOptions{TRS: TRS{Rotate: lo.ToPtr(true)}})
	if err != nil {
		return scene.Plug{}, err
	}
	return out, b.Attrs.Connect(out, scene.P(target, "offsetParentMatrix"), true)
}

// SequentialWeights turns relative weights into the layer weights
// OrientConstraint expects, so that the blend is their weighted average.
func SequentialWeights(weights ...float64) []any {
	out := make([]any, len(weights))
	sum := 0.0
	for i, w := range weights {
		sum += w
		if sum == 0 {
			out[i] = 0.0
			continue
		}
		out[i] = w / sum
	}
	return out
}

// PoleVector drives the pole vector of an ikHandle with the world offset
// from the chain's start joint to pole.
func (b *Builder) PoleVector(pole, start, handle string) (scene.Plug, error) {
	own, err := owner(handle, pole)
	if err != nil {
		return scene.Plug{}, err
	}
	n := Naming{Owner: own}
	polePos, err := b.DecomposeMatrix(n.WithSuffix("poleWorld"), scene.P(pole, "worldMatrix"), nil)
	if err != nil {
		return scene.Plug{}, err
	}
	startPos, err := b.DecomposeMatrix(n.WithSuffix("startWorld"), scene.P(start, "worldMatrix"), nil)
	if err != nil {
		return scene.Plug{}, err
	}
	out, err := b.Sub3D(n.WithSuffix("poleVector"), polePos.Translate, startPos.Translate)
	if err != nil {
		return scene.Plug{}, err
	}
	return out, b.Attrs.Connect(out, scene.P(handle, "poleVector"), true)
}
