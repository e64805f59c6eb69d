package nodegraph

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
)

// MatMult multiplies matrices. Inputs are applied in order, so the result
// is inputs[n-1] * ... * inputs[0].
func (b *Builder) MatMult(n Naming, inputs ...any) (scene.Plug, error) {
	node, err := b.create("multMatrix", n, "matMult")
	if err != nil {
		return scene.Plug{}, err
	}
	for i, in := range inputs {
		if err := b.in(scene.P(node, "matrixIn").Index(i), in); err != nil {
			return scene.Plug{}, err
		}
	}
	return scene.P(node, "matrixSum"), nil
}

// BlendTarget is one layer of a blendMatrix. Weight defaults to 1. Channel
// weights override the node-wide TRS filter when set.
type BlendTarget struct {
	Matrix    any
	Weight    any
	Translate any
	Rotate    any
	Scale     any
	Shear     any
}

// BlendOptions configures BlendMatrix. Envelope defaults to 1 and Shear to
// off.
type BlendOptions struct {
	Envelope any
	TRS      TRS
	Shear    bool
}

// BlendMatrix layers targets over basis in order.
func (b *Builder) BlendMatrix(n Naming, basis any, targets []BlendTarget, o BlendOptions) (scene.Plug, error) {
	node, err := b.create("blendMatrix", n, "blendMatrix")
	if err != nil {
		return scene.Plug{}, err
	}
	env := o.Envelope
	if env == nil {
		env = 1.0
	}
	if err := b.inputs(node, map[string]any{"inputMatrix": basis, "envelope": env}); err != nil {
		return scene.Plug{}, err
	}
	t, r, s := o.TRS.Resolve()
	for i, tg := range targets {
		values := map[string]any{
			"targetMatrix":    tg.Matrix,
			"weight":          tg.Weight,
			"translateWeight": firstOf(tg.Translate, weight(t)),
			"rotateWeight":    firstOf(tg.Rotate, weight(r)),
			"scaleWeight":     firstOf(tg.Scale, weight(s)),
			"shearWeight":     firstOf(tg.Shear, weight(o.Shear)),
		}
		for child, v := range values {
			if err := b.in(scene.P(node, "target").Index(i).Child(child), v); err != nil {
				return scene.Plug{}, err
			}
		}
	}
	return scene.P(node, "outputMatrix"), nil
}

func firstOf(v, def any) any {
	if v != nil {
		return v
	}
	return def
}

// AimTarget is one axis of an aimMatrix. Mode is "aim", "align" or
// "lockAxis"; empty picks aim for a target matrix without a vector and
// align otherwise.
type AimTarget struct {
	Axis   mgl64.Vec3
	Mode   string
	Matrix any
	Vector any
}

func (t AimTarget) mode() string {
	if t.Mode != "" {
		return t.Mode
	}
	if t.Matrix != nil && t.Vector == nil {
		return "aim"
	}
	return "align"
}

// AimOptions configures AimMatrix. A nil Secondary leaves the secondary
// axis free.
type AimOptions struct {
	Primary   AimTarget
	Secondary *AimTarget
	PreSpace  any
	PostSpace any
}

// AimMatrix orients input so its primary axis follows the primary target.
func (b *Builder) AimMatrix(n Naming, input any, o AimOptions) (scene.Plug, error) {
	node, err := b.create("aimMatrix", n, "aimMatrix")
	if err != nil {
		return scene.Plug{}, err
	}
	if err := b.inputs(node, map[string]any{
		"inputMatrix":     input,
		"preSpaceMatrix":  o.PreSpace,
		"postSpaceMatrix": o.PostSpace,
	}); err != nil {
		return scene.Plug{}, err
	}
	if err := b.aimTarget(node, "primary", o.Primary); err != nil {
		return scene.Plug{}, err
	}
	if o.Secondary != nil {
		if err := b.aimTarget(node, "secondary", *o.Secondary); err != nil {
			return scene.Plug{}, err
		}
	}
	return scene.P(node, "outputMatrix"), nil
}

func (b *Builder) aimTarget(node, prefix string, t AimTarget) error {
	axis := t.Axis
	if axis == (mgl64.Vec3{}) {
		axis = mgl64.Vec3{1, 0, 0}
		if prefix == "secondary" {
			axis = mgl64.Vec3{0, 1, 0}
		}
	}
	return b.inputs(node, map[string]any{
		prefix + "Mode":         t.mode(),
		prefix + "InputAxis":    axis,
		prefix + "TargetMatrix": t.Matrix,
		prefix + "TargetVector": t.Vector,
	})
}

// ComposeOptions are the inputs of ComposeMatrix. Setting Quat switches the
// node from Euler to quaternion rotation.
type ComposeOptions struct {
	Translate   any
	Rotate      any
	Scale       any
	Quat        any
	RotateOrder any
}

// ComposeMatrix builds T * R * S.
func (b *Builder) ComposeMatrix(n Naming, o ComposeOptions) (scene.Plug, error) {
	node, err := b.create("composeMatrix", n, "composeMatrix")
	if err != nil {
		return scene.Plug{}, err
	}
	values := map[string]any{
		"inputTranslate":   o.Translate,
		"inputRotate":      o.Rotate,
		"inputScale":       o.Scale,
		"inputQuat":        o.Quat,
		"inputRotateOrder": rotateOrder(o.RotateOrder),
	}
	if o.Quat != nil {
		values["useEulerRotation"] = false
	}
	if err := b.inputs(node, values); err != nil {
		return scene.Plug{}, err
	}
	return scene.P(node, "outputMatrix"), nil
}

// Decomposed holds the outputs of a decomposeMatrix node.
type Decomposed struct {
	Node      string
	Translate scene.Plug
	Rotate    scene.Plug
	Scale     scene.Plug
	Shear     scene.Plug
	Quat      scene.Plug
}

// DecomposeMatrix splits a matrix into TRS channels. rotateOrder may be a
// literal order or a plug.
func (b *Builder) DecomposeMatrix(n Naming, input, order any) (Decomposed, error) {
	node, err := b.create("decomposeMatrix", n, "decomposeMatrix")
	if err != nil {
		return Decomposed{}, err
	}
	if err := b.inputs(node, map[string]any{"inputMatrix": input, "inputRotateOrder": rotateOrder(order)}); err != nil {
		return Decomposed{}, err
	}
	return Decomposed{
		Node:      node,
		Translate: scene.P(node, "outputTranslate"),
		Rotate:    scene.P(node, "outputRotate"),
		Scale:     scene.P(node, "outputScale"),
		Shear:     scene.P(node, "outputShear"),
		Quat:      scene.P(node, "outputQuat"),
	}, nil
}

// Weighted is one input of WtAddMatrix.
type Weighted struct {
	Matrix any
	Weight any
}

// WtAddMatrix sums weighted matrices.
func (b *Builder) WtAddMatrix(n Naming, inputs ...Weighted) (scene.Plug, error) {
	return b.wtAddMatrix(n, "wtAddMatrix", inputs)
}

func (b *Builder) wtAddMatrix(n Naming, suffix string, inputs []Weighted) (scene.Plug, error) {
	node, err := b.create("wtAddMatrix", n, suffix)
	if err != nil {
		return scene.Plug{}, err
	}
	for i, in := range inputs {
		el := scene.P(node, "wtMatrix").Index(i)
		if err := b.in(el.Child("matrixIn"), in.Matrix); err != nil {
			return scene.Plug{}, err
		}
		if err := b.in(el.Child("weightIn"), in.Weight); err != nil {
			return scene.Plug{}, err
		}
	}
	return scene.P(node, "matrixSum"), nil
}

// rotateOrder turns a literal rotate order into the enum index the scene
// stores; plugs, labels and nil pass through.
func rotateOrder(v any) any {
	if o, ok := v.(xform.RotateOrder); ok {
		return int(o)
	}
	return v
}

func (b *Builder) quatNode(n Naming, nodeType, suffix string, values map[string]any) (scene.Plug, error) {
	node, err := b.create(nodeType, n, suffix)
	if err != nil {
		return scene.Plug{}, err
	}
	if err := b.inputs(node, values); err != nil {
		return scene.Plug{}, err
	}
	return scene.P(node, "outputQuat"), nil
}

// EulerToQuat converts Euler degrees to a quaternion.
func (b *Builder) EulerToQuat(n Naming, rotate, order any) (scene.Plug, error) {
	return b.quatNode(n, "eulerToQuat", "euler2quat", map[string]any{
		"inputRotate":      rotate,
		"inputRotateOrder": rotateOrder(order),
	})
}

// QuatToEuler converts a quaternion to Euler degrees.
func (b *Builder) QuatToEuler(n Naming, quat, order any) (scene.Plug, error) {
	node, err := b.create("quatToEuler", n, "quat2euler")
	if err != nil {
		return scene.Plug{}, err
	}
	if err := b.inputs(node, map[string]any{"inputQuat": quat, "inputRotateOrder": rotateOrder(order)}); err != nil {
		return scene.Plug{}, err
	}
	return scene.P(node, "outputRotate"), nil
}

// QuatSlerp interpolates from q1 to q2 by t.
func (b *Builder) QuatSlerp(n Naming, t, q1, q2 any) (scene.Plug, error) {
	return b.quatNode(n, "quatSlerp", "quatSlerp", map[string]any{"inputT": t, "input1Quat": q1, "input2Quat": q2})
}

// QuatInvert inverts a quaternion.
func (b *Builder) QuatInvert(n Naming, q any) (scene.Plug, error) {
	return b.quatNode(n, "quatInvert", "quatInvert", map[string]any{"inputQuat": q})
}

// QuatProd returns q1 * q2.
func (b *Builder) QuatProd(n Naming, q1, q2 any) (scene.Plug, error) {
	return b.quatNode(n, "quatProd", "quatProd", map[string]any{"input1Quat": q1, "input2Quat": q2})
}

// QuatNormalize normalizes a quaternion.
func (b *Builder) QuatNormalize(n Naming, q any) (scene.Plug, error) {
	return b.quatNode(n, "quatNormalize", "quatNormalize", map[string]any{"inputQuat": q})
}
