package torso

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/inmemoryscene"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func newRig() *limb.Rig {
	return limb.NewRig(attr.New(inmemoryscene.New()), "ch")
}

func offset(x, y, z int64) limb.Options {
	return limb.Options{"offset": cty.TupleVal([]cty.Value{cty.NumberIntVal(x), cty.NumberIntVal(y), cty.NumberIntVal(z)})}
}

func TestSimpleMarkers(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig()

	root, err := NewSimple().GenerateMarkers(ctx, r, offset(0, 100, 0))
	require.NoError(t, err)
	assert.Equal(t, "ch_CenterOfGravity_marker", root)
	assert.Equal(t, "CoG", r.Joints.Type(root))
	gen, err := r.Joints.Generator(root)
	require.NoError(t, err)
	assert.Equal(t, KeySimple, gen)

	assert.Equal(t, []string{"ch_Pelvis_marker"}, r.Scene().Children(root))
	pos, err := r.Joints.Position(root)
	require.NoError(t, err)
	assert.InDelta(t, 100, pos.Y, 1e-9)
}

func TestFKMarkers(t *testing.T) {
	ctx, _ := testutil.Context(t)
	r := newRig()

	root, err := NewFK().GenerateMarkers(ctx, r, nil)
	require.NoError(t, err)

	chain := []string{"ch_Pelvis_marker", "ch_Spine0_marker", "ch_Spine1_marker", "ch_Spine2_marker", "ch_SpineNib_marker"}
	parent := root
	for _, j := range chain {
		assert.Equal(t, parent, r.Scene().Parent(j), j)
		parent = j
	}
	assert.Equal(t, "ch_Pelvis_marker", r.Scene().Parent("ch_PelvisNib_marker"))

	blend, err := r.Attrs().Float(scene.P("ch_Spine1_marker", BlendAttr))
	require.NoError(t, err)
	assert.InDelta(t, 0.8, blend, 1e-9)
	assert.ErrorIs(t, r.Attrs().Set(scene.P("ch_Spine0_marker", "translateX"), 1.0), scene.ErrLocked)
}

func TestMarkersBadOffset(t *testing.T) {
	ctx, _ := testutil.Context(t)
	_, err := NewSimple().GenerateMarkers(ctx, newRig(), limb.Options{"offset": cty.TupleVal([]cty.Value{cty.NumberIntVal(1)})})
	assert.ErrorContains(t, err, "offset needs 3 components")
}
