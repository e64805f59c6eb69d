package xform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestDecomposeCompose(t *testing.T) {
	trs := TRS{
		Translate: mgl64.Vec3{1, 2, 3},
		Rotate:    mgl64.Vec3{10, -20, 30},
		Scale:     mgl64.Vec3{2, 1, 0.5},
		Order:     ZXY,
	}
	got := DecomposeTRS(trs.Matrix(), ZXY)
	assert.True(t, ApproxEqualVec(got.Translate, trs.Translate, 1e-9))
	assert.True(t, ApproxEqualVec(got.Scale, trs.Scale, 1e-9))
	assert.True(t, ApproxEqual(got.Matrix(), trs.Matrix(), 1e-9))
}

func TestDecomposeReflection(t *testing.T) {
	m := mgl64.Scale3D(-1, 1, 1)
	_, rot, scale := Decompose(m)
	assert.InDelta(t, -1, scale[0], 1e-12)
	assert.True(t, ApproxEqual(rot, mgl64.Ident4(), 1e-12))
}

func TestMirrorBehavior(t *testing.T) {
	world := Compose(mgl64.Vec3{7, 80, 0}, EulerToMat4(mgl64.Vec3{0, 0, -90}, XYZ), mgl64.Vec3{1, 1, 1})
	mirrored := Mirror(world, true)

	assert.True(t, ApproxEqualVec(Translation(mirrored), mgl64.Vec3{-7, 80, 0}, 1e-9))
	assert.InDelta(t, 1, mirrored.Mat3().Det(), 1e-9, "behavior mirror keeps a proper rotation")
	// The aim axis flips with the behavior mirror: a joint pointing down -Y
	// on the left points up +Y in local X terms on the right.
	assert.True(t, ApproxEqualVec(Axis(mirrored, 0), mgl64.Vec3{0, 1, 0}, 1e-9), "got %v", Axis(mirrored, 0))
	assert.True(t, ApproxEqual(Mirror(mirrored, true), world, 1e-9), "mirroring twice is the identity")
}

func TestAim(t *testing.T) {
	rot := Aim(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	assert.True(t, ApproxEqualVec(Axis(rot, 0), mgl64.Vec3{0, 0, 1}, 1e-9))
	assert.True(t, ApproxEqualVec(Axis(rot, 1), mgl64.Vec3{0, 1, 0}, 1e-9))

	// Up parallel to the aim still yields a valid frame.
	rot = Aim(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	assert.InDelta(t, 1, rot.Mat3().Det(), 1e-9)
}

func TestBlend(t *testing.T) {
	a := mgl64.Translate3D(0, 0, 0)
	b := Compose(mgl64.Vec3{10, 0, 0}, EulerToMat4(mgl64.Vec3{0, 90, 0}, XYZ), mgl64.Vec3{1, 1, 1})

	assert.True(t, ApproxEqual(Blend(a, b, 0, 0, 0), a, 1e-9))
	assert.True(t, ApproxEqual(Blend(a, b, 1, 1, 1), b, 1e-9))

	translateOnly := Blend(a, b, 1, 0, 0)
	assert.True(t, ApproxEqualVec(Translation(translateOnly), mgl64.Vec3{10, 0, 0}, 1e-9))
	assert.True(t, ApproxEqual(RotationMatrix(translateOnly), mgl64.Ident4(), 1e-9))
}

func TestApproxEqualVecIsAbsoluteNearZero(t *testing.T) {
	assert.True(t, ApproxEqualVec(mgl64.Vec3{1, 2.220446049250313e-16, 0}, mgl64.Vec3{1, 0, 0}, 1e-9))
	assert.True(t, ApproxEqualVec(mgl64.Vec3{4.440892098500626e-16, 0, -2}, mgl64.Vec3{0, 0, -2}, 1e-9))
	assert.False(t, ApproxEqualVec(mgl64.Vec3{1e-6, 0, 0}, mgl64.Vec3{}, 1e-9))
}
