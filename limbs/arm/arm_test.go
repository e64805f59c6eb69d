package arm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/inmemoryscene"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func newRig() *limb.Rig {
	return limb.NewRig(attr.New(inmemoryscene.New()), "ch")
}

func TestFingerMarkers(t *testing.T) {
	m := fingers[0].markers()
	require.Len(t, m, 5)
	assert.Equal(t, "PointerCMC", m[0].name)
	assert.Equal(t, "Metacarpal", m[0].typ)
	assert.Equal(t, "Knuckle", m[1].typ)
	assert.Equal(t, "FingerTip", m[4].typ)
	assert.InDelta(t, 59.4+0.75*9.3, m[3].pos.X, 1e-9)
	assert.InDelta(t, -1.1, m[3].pos.Y, 1e-9)
	assert.InDelta(t, 0.5, m[3].pos.Z, 1e-9)
}

func TestGenerateMarkers(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig()

	root, err := New().GenerateMarkers(ctx, r, nil)
	require.NoError(t, err)
	assert.Equal(t, "ch_l_Clavicle_marker", root)

	gen, err := r.Joints.Generator(root)
	require.NoError(t, err)
	assert.Equal(t, Key, gen)

	// clavicle, shoulder, elbow, wrist, four fingers of five and a thumb of four
	assert.Len(t, r.Joints.Descendants(root), 3+4*5+4)
	assert.Equal(t, "ch_l_Wrist_marker", r.Scene().Parent("ch_l_Thumb_marker"))
	assert.Equal(t, "ch_l_Pinky_marker", r.Scene().Parent("ch_l_Pinky2_marker"))
	size, err := r.Joints.ControlSize("ch_l_PinkyCMC_marker")
	require.NoError(t, err)
	assert.Equal(t, 1.2, size)
}

func TestGenerateMarkersWithoutClavicleOnTheRight(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig()

	root, err := New().GenerateMarkers(ctx, r, limb.Options{
		"side":         cty.StringVal("right"),
		"has_clavicle": cty.False,
	})
	require.NoError(t, err)
	assert.Equal(t, "ch_r_Shoulder_marker", root)
	assert.False(t, r.Scene().Exists("ch_l_Shoulder_marker"))
	assert.False(t, r.Scene().Exists("ch_r_Clavicle_marker"))

	pos, err := r.Joints.Position("ch_r_Elbow_marker")
	require.NoError(t, err)
	assert.InDelta(t, -31, pos.X, 1e-9)
}
