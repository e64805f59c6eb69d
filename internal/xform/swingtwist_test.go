package xform

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestSwingTwistRecomposes(t *testing.T) {
	reference := EulerToQuat(mgl64.Vec3{0, 0, -45}, XYZ)
	testCases := []struct {
		name     string
		rotation mgl64.Quat
	}{
		{"identity", mgl64.QuatIdent()},
		{"pure twist", mgl64.QuatRotate(math.Pi/3, mgl64.Vec3{1, 0, 0})},
		{"pure swing", mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 1, 0})},
		{"mixed", EulerToQuat(mgl64.Vec3{40, -25, 60}, XYZ)},
	}
	for _, ref := range []mgl64.Quat{mgl64.QuatIdent(), reference} {
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				swing, twist := SwingTwist(tc.rotation, ref)
				assert.True(t, SameRotation(twist.Mul(swing), tc.rotation, 1e-9))
			})
		}
	}
}

func TestSwingTwistSeparatesAxes(t *testing.T) {
	ref := mgl64.QuatIdent()

	twistOnly := mgl64.QuatRotate(math.Pi/3, mgl64.Vec3{1, 0, 0})
	swing, twist := SwingTwist(twistOnly, ref)
	assert.True(t, SameRotation(swing, mgl64.QuatIdent(), 1e-9))
	assert.True(t, SameRotation(twist, twistOnly, 1e-9))

	swingOnly := mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1})
	swing, twist = SwingTwist(swingOnly, ref)
	assert.True(t, SameRotation(swing, swingOnly, 1e-9))
	assert.True(t, SameRotation(twist, mgl64.QuatIdent(), 1e-9))
}

func TestBezierWeights(t *testing.T) {
	for _, tt := range []float64{0, 0.25, 0.5, 0.8, 1} {
		w := BezierWeights(tt)
		d := BezierTangentWeights(tt)
		assert.InDelta(t, 1, w[0]+w[1]+w[2]+w[3], 1e-12)
		assert.InDelta(t, 0, d[0]+d[1]+d[2]+d[3], 1e-12)

		// Tangent weights are the derivative of the position weights.
		const h = 1e-6
		lo, hi := BezierWeights(tt-h), BezierWeights(tt+h)
		for i := range d {
			assert.InDelta(t, (hi[i]-lo[i])/(2*h), d[i], 1e-5)
		}
	}
	assert.Equal(t, [4]float64{1, 0, 0, 0}, BezierWeights(0))
	assert.Equal(t, [4]float64{0, 0, 0, 1}, BezierWeights(1))
}
