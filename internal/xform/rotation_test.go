package xform

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEulerRoundTrip(t *testing.T) {
	angles := []mgl64.Vec3{
		{0, 0, 0},
		{30, 0, 0},
		{0, -45, 0},
		{10, 20, 30},
		{-120, 35, 170},
		{5, -80, -15},
	}
	for order := XYZ; order <= ZYX; order++ {
		for _, euler := range angles {
			t.Run(fmt.Sprintf("%s/%v", order, euler), func(t *testing.T) {
				m := EulerToMat4(euler, order)
				back := Mat4ToEuler(m, order)
				assert.True(t, ApproxEqual(m, EulerToMat4(back, order), 1e-9), "got %v", back)
			})
		}
	}
}

func TestEulerOrderAppliesFirstAxisFirst(t *testing.T) {
	// xyz: rotate 90 about X then 90 about Y. The Y axis first goes to +Z,
	// then the Y rotation takes +Z to +X.
	q := EulerToQuat(mgl64.Vec3{90, 90, 0}, XYZ)
	got := q.Rotate(mgl64.Vec3{0, 1, 0})
	assert.True(t, ApproxEqualVec(got, mgl64.Vec3{1, 0, 0}, 1e-9), "got %v", got)
}

func TestGimbalLockStillRoundTrips(t *testing.T) {
	m := EulerToMat4(mgl64.Vec3{25, 90, 0}, XYZ)
	back := Mat4ToEuler(m, XYZ)
	assert.True(t, ApproxEqual(m, EulerToMat4(back, XYZ), 1e-9))
}

func TestParseRotateOrder(t *testing.T) {
	order, err := ParseRotateOrder("yzx")
	require.NoError(t, err)
	assert.Equal(t, YZX, order)
	assert.Equal(t, "yzx", order.String())

	_, err = ParseRotateOrder("xxy")
	assert.ErrorContains(t, err, "unknown rotate order")
}

func TestQuatVec4(t *testing.T) {
	q := mgl64.QuatRotate(math.Pi/3, mgl64.Vec3{0, 0, 1})
	v := QuatToVec4(q)
	assert.InDelta(t, q.W, v[3], 1e-12)
	assert.True(t, SameRotation(q, QuatFromVec4(v), 1e-12))
	assert.True(t, SameRotation(q, q.Scale(-1), 1e-12))
}
