package control

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/inmemoryscene"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/nodegraph"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/testutil"
	"github.com/vk/riggen/internal/xform"
	"gonum.org/v1/gonum/spatial/r3"
)

func newControls(t *testing.T) (*inmemoryscene.Store, *joint.Joints, *Controls) {
	t.Helper()
	sc := inmemoryscene.New()
	attrs := attr.New(sc)
	j := joint.New(attrs, "ch")
	return sc, j, New(j, nodegraph.New(attrs))
}

func TestShapes(t *testing.T) {
	t.Run("circle", func(t *testing.T) {
		c := CircleCurve(2)
		require.Len(t, c.Points, 8)
		for _, p := range c.Points {
			assert.InDelta(t, 2, p.Len(), 1e-9)
			assert.InDelta(t, 0, p[1], 1e-9)
		}
	})

	t.Run("saddle", func(t *testing.T) {
		c := SaddleCurve(2)
		assert.InDelta(t, -1, c.Points[1][1], 1e-9)
		assert.InDelta(t, -1, c.Points[5][1], 1e-9)
		assert.InDelta(t, 1, c.Points[3][1], 1e-9)
		assert.InDelta(t, 0, c.Points[0][1], 1e-9)
	})

	t.Run("square corners", func(t *testing.T) {
		c := SquareCurve(1)
		assert.Equal(t, 1, c.Degree)
		for _, p := range c.Points {
			assert.Equal(t, 1.0, math.Abs(p[0]))
			assert.Equal(t, 1.0, math.Abs(p[2]))
		}
	})

	t.Run("arrows reach their tips", func(t *testing.T) {
		r, w, l := 4.0, 0.125, 0.125
		c := CircleWithArrowsCurve(r, w, l)
		tip := math.Cos(math.Asin(w))*r + l*r + 2*w*r
		assert.InDelta(t, tip, c.Bounds(), 1e-9)
		assert.Equal(t, c.Points[0], c.Points[len(c.Points)-1])
		for _, p := range c.Points {
			assert.GreaterOrEqual(t, p.Len(), r-1e-9)
		}
	})

	t.Run("pointer", func(t *testing.T) {
		c := PointerCurve(2, X, mgl64.Vec3{0, 1, 0}, 0.25)
		assert.Equal(t, mgl64.Vec3{}, c.Points[0])
		assert.True(t, xform.ApproxEqualVec(c.Points[1], mgl64.Vec3{0, 3, 0}, 1e-9))
		assert.InDelta(t, 3+2*0.75, c.Bounds(), 1e-9)
	})

	t.Run("octahedron", func(t *testing.T) {
		assert.Len(t, OctahedronCurve(1).Points, 13)
	})
}

func TestCreate(t *testing.T) {
	ctx, _ := testutil.Context(t)
	sc, j, c := newControls(t)
	ref, err := j.Marker(ctx, naming.Left, "Arm", r3.Vec{X: 2, Y: 3}, joint.MarkerOptions{Size: 4})
	require.NoError(t, err)
	require.NoError(t, sc.CreateNode("transform", "ch_Controls_grp", ""))
	require.NoError(t, j.Attrs().Set(scene.P("ch_Controls_grp", "translate"), mgl64.Vec3{1, 0, 0}))

	ctrl, err := c.Circle(ctx, ref, "", Options{Parent: "ch_Controls_grp", Position: mgl64.Vec3{0, 5, 0}})
	require.NoError(t, err)
	assert.Equal(t, "ch_l_Arm_control", ctrl)
	assert.Equal(t, "ch_Controls_grp", sc.Parent(ctrl))

	world, err := sc.WorldMatrix(ctrl)
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqual(world, mgl64.Translate3D(2, 3, 0), 1e-9))
	translate, err := j.Attrs().Vec3(scene.P(ctrl, "translate"))
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{}, translate, "controls rest at zero")

	crv, err := c.ShapeOf(ctrl)
	require.NoError(t, err)
	assert.Equal(t, 3, crv.Degree)
	assert.Equal(t, "periodic", crv.Form)
	require.Len(t, crv.Points, 8)
	centre := mgl64.Vec3{}
	for _, p := range crv.Points {
		assert.InDelta(t, 0, p[0], 1e-9, "a circle facing X lies in the YZ plane")
		centre = centre.Add(p.Mul(1.0 / 8))
	}
	assert.True(t, xform.ApproxEqualVec(centre, mgl64.Vec3{0, 5, 0}, 1e-9))

	rgb, err := j.Attrs().Vec3(scene.P(ctrl, "overrideColorRGB"))
	require.NoError(t, err)
	assert.Equal(t, Palette["midtone blue"], rgb)

	again, err := c.Circle(ctx, ref, "", Options{Color: "highlight green"})
	require.NoError(t, err)
	assert.Equal(t, "ch_l_Arm1_control", again)

	_, err = c.Circle(ctx, ref, "", Options{Color: "no such colour"})
	assert.Error(t, err)
}

func TestFkIkSwitch(t *testing.T) {
	ctx, _ := testutil.Context(t)
	sc, j, c := newControls(t)
	ref, err := j.Marker(ctx, naming.Right, "Arm", r3.Vec{X: -2}, joint.MarkerOptions{})
	require.NoError(t, err)

	sw, err := c.FkIkSwitch(ctx, ref, "Arm", SwitchOptions{Position: mgl64.Vec3{3, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, "ch_r_Arm_switch", sw)

	fk := func() float64 {
		v, err := sc.EvaluateFloat(scene.P(sw, SwitchFKAttr))
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, 1.0, fk())
	require.NoError(t, j.Attrs().Set(scene.P(sw, SwitchIKAttr), "IK"))
	assert.Equal(t, 0.0, fk())

	info, err := sc.AttrInfo(scene.P(sw, SwitchIKAttr))
	require.NoError(t, err)
	assert.Equal(t, "Posing", info.NiceName)
	assert.Equal(t, []string{"FK", "IK"}, info.Enum)

	src, ok := sc.Source(scene.P("ch_r_Arm_ikLabel", "visibility"))
	require.True(t, ok)
	assert.Equal(t, scene.P(sw, SwitchIKAttr), src)

	label, err := c.ShapeOf("ch_r_Arm_fkLabel")
	require.NoError(t, err)
	for _, p := range label.Points {
		assert.Less(t, p[0], 0.0, "right side labels are offset towards -X")
	}
}
