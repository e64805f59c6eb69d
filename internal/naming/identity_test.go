// internal/naming/identity_test.go
package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	a := MustCompose("ST", Left, "Hip", "marker")
	b := MustCompose("ST", Left, "Hip", "marker")
	opaque := Opaque{Raw: a.ToSceneHandle()}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(opaque), "variants never compare equal")
	assert.False(t, opaque.Equal(a))
	assert.True(t, opaque.Equal(Opaque{Raw: "ST_l_Hip_marker"}))
	assert.False(t, a.Equal(MustCompose("ST", Right, "Hip", "marker")))
}

func TestButWith(t *testing.T) {
	hip := MustCompose("ST", Left, "Hip", "marker")

	t.Run("replaces components", func(t *testing.T) {
		got, err := hip.ButWith(WithName("Knee"), WithSuffix(SuffixPoseJoint))
		require.NoError(t, err)
		assert.Equal(t, "ST_l_Knee_pose", got.ToSceneHandle())
		assert.Equal(t, "ST_l_Hip_marker", hip.ToSceneHandle(), "receiver is unchanged")
	})

	t.Run("double flip returns original side", func(t *testing.T) {
		once, err := hip.ButWith(Flipped())
		require.NoError(t, err)
		assert.Equal(t, Right, once.Side)
		twice, err := once.ButWith(Flipped())
		require.NoError(t, err)
		assert.Equal(t, hip, twice)
	})

	t.Run("center stays center when flipped", func(t *testing.T) {
		c := MustCompose("ST", Center, "Spine0", "pose")
		got, err := c.ButWith(Flipped())
		require.NoError(t, err)
		assert.Equal(t, Center, got.Side)
	})

	t.Run("invalid replacement", func(t *testing.T) {
		_, err := hip.ButWith(WithName("Bad Name"))
		require.ErrorIs(t, err, ErrInvalidSegment)
	})

	t.Run("opaque identity", func(t *testing.T) {
		_, err := ButWith(Opaque{Raw: "persp"}, WithSuffix("grp"))
		require.ErrorIs(t, err, ErrNotStructured)
	})
}

func TestBase(t *testing.T) {
	testCases := []struct {
		name   string
		stem   string
		number int
	}{
		{"Foo", "Foo", 0},
		{"Foo3", "Foo", 3},
		{"Spine10", "Spine", 10},
		{"7", "", 7},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stem, n := Structured{Initials: "ST", Name: tc.name, Suffix: "grp"}.Base()
			assert.Equal(t, tc.stem, stem)
			assert.Equal(t, tc.number, n)
		})
	}
}

func TestParseSide(t *testing.T) {
	for raw, want := range map[string]Side{"left": Left, "R": Right, "": Center, "center": Center} {
		got, err := ParseSide(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSide("up")
	assert.Error(t, err)
}
