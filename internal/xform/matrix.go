package xform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TRS is a decomposed local transform.
type TRS struct {
	Translate mgl64.Vec3
	Rotate    mgl64.Vec3
	Scale     mgl64.Vec3
	Order     RotateOrder
}

// Identity returns the rest TRS.
func Identity() TRS {
	return TRS{Scale: mgl64.Vec3{1, 1, 1}}
}

// Matrix composes T * R * S.
func (t TRS) Matrix() mgl64.Mat4 {
	return Compose(t.Translate, EulerToMat4(t.Rotate, t.Order), t.Scale)
}

// Compose builds T * R * S from a translation, a rotation matrix and a
// scale.
func Compose(translate mgl64.Vec3, rotation mgl64.Mat4, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(translate[0], translate[1], translate[2]).
		Mul4(rotation).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// Decompose splits an affine matrix without shear into translation, pure
// rotation and scale. A reflection is carried by a negative X scale.
func Decompose(m mgl64.Mat4) (mgl64.Vec3, mgl64.Mat4, mgl64.Vec3) {
	translate := mgl64.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}

	var cols [3]mgl64.Vec3
	var scale mgl64.Vec3
	for c := 0; c < 3; c++ {
		cols[c] = mgl64.Vec3{m.At(0, c), m.At(1, c), m.At(2, c)}
		scale[c] = cols[c].Len()
	}
	if cols[0].Cross(cols[1]).Dot(cols[2]) < 0 {
		scale[0] = -scale[0]
	}

	rot := mgl64.Ident4()
	for c := 0; c < 3; c++ {
		if math.Abs(scale[c]) < 1e-12 {
			continue
		}
		for r := 0; r < 3; r++ {
			rot.Set(r, c, cols[c][r]/scale[c])
		}
	}
	return translate, rot, scale
}

// DecomposeTRS decomposes m into Euler TRS values for the given order.
func DecomposeTRS(m mgl64.Mat4, order RotateOrder) TRS {
	t, rot, s := Decompose(m)
	return TRS{Translate: t, Rotate: Mat4ToEuler(rot, order), Scale: s, Order: order}
}

// Translation returns the translation column of m.
func Translation(m mgl64.Mat4) mgl64.Vec3 {
	return mgl64.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}
}

// WithTranslation replaces the translation column of m.
func WithTranslation(m mgl64.Mat4, t mgl64.Vec3) mgl64.Mat4 {
	m.Set(0, 3, t[0])
	m.Set(1, 3, t[1])
	m.Set(2, 3, t[2])
	return m
}

// Axis returns column c of the upper 3x3 block.
func Axis(m mgl64.Mat4, c int) mgl64.Vec3 {
	return mgl64.Vec3{m.At(0, c), m.At(1, c), m.At(2, c)}
}

// FromAxes builds a rotation matrix from three orthonormal column axes.
func FromAxes(x, y, z mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
}

// Aim returns the rotation whose aimAxis points along dir and whose upAxis
// points as close as possible to worldUp. Both axes are unit local axes and
// must not be parallel.
func Aim(dir, worldUp, aimAxis, upAxis mgl64.Vec3) mgl64.Mat4 {
	a := dir.Normalize()
	u := worldUp.Sub(a.Mul(worldUp.Dot(a)))
	if u.Len() < 1e-9 {
		u = perpendicular(a)
	}
	u = u.Normalize()
	w := a.Cross(u)

	// Map the local frame (aimAxis, upAxis, aimAxis x upAxis) onto the
	// world frame (a, u, w).
	local := FromAxes(aimAxis, upAxis, aimAxis.Cross(upAxis))
	world := FromAxes(a, u, w)
	return world.Mul4(local.Transpose())
}

func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	if math.Abs(v[0]) < 0.9 {
		return v.Cross(mgl64.Vec3{1, 0, 0})
	}
	return v.Cross(mgl64.Vec3{0, 1, 0})
}

// Mirror reflects a world matrix across the YZ plane. With behavior the
// local axes are also inverted, so mirrored joints rotate in opposite
// directions, which keeps the result a proper rotation.
func Mirror(m mgl64.Mat4, behavior bool) mgl64.Mat4 {
	flip := mgl64.Scale3D(-1, 1, 1)
	out := flip.Mul4(m)
	if behavior {
		out = out.Mul4(mgl64.Scale3D(-1, -1, -1))
	} else {
		out = out.Mul4(flip)
	}
	return out
}

// Blend interpolates two matrices channel by channel: translation and scale
// linearly, rotation by slerp.
func Blend(a, b mgl64.Mat4, translateW, rotateW, scaleW float64) mgl64.Mat4 {
	ta, ra, sa := Decompose(a)
	tb, rb, sb := Decompose(b)
	t := ta.Add(tb.Sub(ta).Mul(translateW))
	s := sa.Add(sb.Sub(sa).Mul(scaleW))
	qa := mgl64.Mat4ToQuat(ra)
	qb := mgl64.Mat4ToQuat(rb)
	if qa.Dot(qb) < 0 {
		qb = qb.Scale(-1)
	}
	q := mgl64.QuatSlerp(qa, qb, rotateW)
	return Compose(t, q.Normalize().Mat4(), s)
}

// ApproxEqual compares two matrices element-wise.
func ApproxEqual(a, b mgl64.Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// ApproxEqualVec compares two vectors component-wise with an absolute
// tolerance.
func ApproxEqualVec(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
