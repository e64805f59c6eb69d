package nodegraph

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
)

// SwingTwistPlugs are the outputs of a swing-twist network.
type SwingTwistPlugs struct {
	Swing     scene.Plug // Euler degrees in the target's rotate order
	Twist     scene.Plug
	SwingQuat scene.Plug
	TwistQuat scene.Plug
}

// SwingTwist builds the network form of xform.SwingTwist for target.
//
// The rotation it factors is the target's live transform relative to its
// parent, expressed against the pose target has now, so the network reads
// identity at build time. The reference comes from the optional twistRest
// attribute (Euler degrees, default zero) and is baked in as a literal.
func (b *Builder) SwingTwist(target string) (SwingTwistPlugs, error) {
	n := For(target)

	order, err := b.Attrs.Int(scene.P(target, "rotateOrder"))
	if err != nil {
		return SwingTwistPlugs{}, err
	}
	restV, err := b.Attrs.GetOr(scene.P(target, "twistRest"), mgl64.Vec3{})
	if err != nil {
		return SwingTwistPlugs{}, err
	}
	rest, _ := restV.(mgl64.Vec3)
	reference := xform.EulerToQuat(rest, xform.RotateOrder(order))
	refTwist := xform.TwistAxisComponent(reference)

	bind, err := b.matrix(scene.P(target, "worldMatrix"))
	if err != nil {
		return SwingTwistPlugs{}, err
	}
	if parent := b.Scene.Parent(target); parent != "" {
		parentWorld, err := b.Scene.WorldMatrix(parent)
		if err != nil {
			return SwingTwistPlugs{}, err
		}
		bind = parentWorld.Inv().Mul4(bind)
	}
	inputs := []any{scene.P(target, "worldMatrix"), scene.P(target, "parentInverseMatrix"), bind.Inv()}
	local, err := b.MatMult(n.WithSuffix("swingTwistLocal"), inputs...)
	if err != nil {
		return SwingTwistPlugs{}, err
	}
	rotation, err := b.DecomposeMatrix(n, local, scene.P(target, "rotateOrder"))
	if err != nil {
		return SwingTwistPlugs{}, err
	}

	relative, err := b.QuatProd(n, rotation.Quat, reference.Inverse())
	if err != nil {
		return SwingTwistPlugs{}, err
	}
	relTwist, err := b.QuatNormalize(n, [4]any{
		scene.P(relative.Node, relative.Attr+"X"), 0.0, 0.0, scene.P(relative.Node, relative.Attr+"W"),
	})
	if err != nil {
		return SwingTwistPlugs{}, err
	}
	relTwistInv, err := b.QuatInvert(n, relTwist)
	if err != nil {
		return SwingTwistPlugs{}, err
	}
	relSwing, err := b.QuatProd(n, relTwistInv, relative)
	if err != nil {
		return SwingTwistPlugs{}, err
	}
	swingInRef, err := b.QuatProd(n, refTwist.Inverse(), relSwing)
	if err != nil {
		return SwingTwistPlugs{}, err
	}
	swing, err := b.QuatProd(n, swingInRef, reference)
	if err != nil {
		return SwingTwistPlugs{}, err
	}
	twist, err := b.QuatProd(n, refTwist, relTwist)
	if err != nil {
		return SwingTwistPlugs{}, err
	}

	out := SwingTwistPlugs{SwingQuat: swing, TwistQuat: twist}
	if out.Swing, err = b.QuatToEuler(n, swing, scene.P(target, "rotateOrder")); err != nil {
		return SwingTwistPlugs{}, err
	}
	if out.Twist, err = b.QuatToEuler(n, twist, scene.P(target, "rotateOrder")); err != nil {
		return SwingTwistPlugs{}, err
	}
	return out, nil
}
