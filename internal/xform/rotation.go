package xform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const gimbalEpsilon = 1e-9

// EulerToQuat converts Euler angles in degrees to a unit quaternion.
func EulerToQuat(euler mgl64.Vec3, order RotateOrder) mgl64.Quat {
	q := mgl64.QuatIdent()
	for _, axis := range orderAxes[order] {
		step := mgl64.QuatRotate(mgl64.DegToRad(euler[axis]), unitAxes[axis])
		q = step.Mul(q)
	}
	return q.Normalize()
}

// EulerToMat4 converts Euler angles in degrees to a rotation matrix.
func EulerToMat4(euler mgl64.Vec3, order RotateOrder) mgl64.Mat4 {
	return EulerToQuat(euler, order).Mat4()
}

// Mat4ToEuler extracts Euler angles in degrees from the rotation part of m.
// The upper 3x3 block must be orthonormal.
func Mat4ToEuler(m mgl64.Mat4, order RotateOrder) mgl64.Vec3 {
	ax := orderAxes[order]
	i, j, k := ax[0], ax[1], ax[2]
	r := func(row, col int) float64 { return m.At(row, col) }

	var a, b, c float64
	if order.odd() {
		b = math.Asin(clampUnit(r(k, i)))
		if math.Abs(math.Cos(b)) > gimbalEpsilon {
			a = math.Atan2(-r(k, j), r(k, k))
			c = math.Atan2(-r(j, i), r(i, i))
		} else {
			a = math.Atan2(r(j, k), r(j, j))
		}
	} else {
		b = math.Asin(clampUnit(-r(k, i)))
		if math.Abs(math.Cos(b)) > gimbalEpsilon {
			a = math.Atan2(r(k, j), r(k, k))
			c = math.Atan2(r(j, i), r(i, i))
		} else {
			a = math.Atan2(-r(j, k), r(j, j))
		}
	}

	var out mgl64.Vec3
	out[i] = mgl64.RadToDeg(a)
	out[j] = mgl64.RadToDeg(b)
	out[k] = mgl64.RadToDeg(c)
	return out
}

// QuatToEuler converts a quaternion to Euler angles in degrees.
func QuatToEuler(q mgl64.Quat, order RotateOrder) mgl64.Vec3 {
	return Mat4ToEuler(q.Normalize().Mat4(), order)
}

// QuatFromVec4 reads an x, y, z, w port value as a quaternion.
func QuatFromVec4(v mgl64.Vec4) mgl64.Quat {
	return mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
}

// QuatToVec4 packs a quaternion into x, y, z, w order.
func QuatToVec4(q mgl64.Quat) mgl64.Vec4 {
	return mgl64.Vec4{q.V[0], q.V[1], q.V[2], q.W}
}

// RotationMatrix returns the pure rotation part of m with translation and
// scale removed.
func RotationMatrix(m mgl64.Mat4) mgl64.Mat4 {
	_, rot, _ := Decompose(m)
	return rot
}

// SameRotation reports whether two quaternions describe the same rotation,
// treating q and -q as equal.
func SameRotation(a, b mgl64.Quat, eps float64) bool {
	return math.Abs(math.Abs(a.Normalize().Dot(b.Normalize()))-1) < eps
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
