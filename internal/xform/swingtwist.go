package xform

import "github.com/go-gl/mathgl/mgl64"

// TwistAxisComponent keeps only the X and W components of q and
// normalizes, isolating the rotation about the local X axis. A rotation of
// exactly 180 degrees about an orthogonal axis has no X twist and returns
// identity.
func TwistAxisComponent(q mgl64.Quat) mgl64.Quat {
	t := mgl64.Quat{W: q.W, V: mgl64.Vec3{q.V[0], 0, 0}}
	if t.Len() < 1e-12 {
		return mgl64.QuatIdent()
	}
	return t.Normalize()
}

// SwingTwist factors rotation relative to reference into a swing and a twist
// about local X. The factors satisfy twist * swing == rotation, and for
// reference == identity swing carries no X twist.
func SwingTwist(rotation, reference mgl64.Quat) (swing, twist mgl64.Quat) {
	refTwist := TwistAxisComponent(reference)
	relative := rotation.Mul(reference.Inverse())
	relTwist := TwistAxisComponent(relative)
	relSwing := relTwist.Inverse().Mul(relative)

	swing = refTwist.Inverse().Mul(relSwing).Mul(reference)
	twist = refTwist.Mul(relTwist)
	return swing.Normalize(), twist.Normalize()
}
