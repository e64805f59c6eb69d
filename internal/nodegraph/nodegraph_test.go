package nodegraph

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/inmemoryscene"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
)

func newBuilder(t *testing.T) (*inmemoryscene.Store, *Builder) {
	t.Helper()
	sc := inmemoryscene.New()
	return sc, New(attr.New(sc))
}

func transform(t *testing.T, b *Builder, name, parent string, translate mgl64.Vec3) {
	t.Helper()
	require.NoError(t, b.Scene.CreateNode("transform", name, parent))
	require.NoError(t, b.Attrs.Set(scene.P(name, "translate"), translate))
}

func TestTRSResolve(t *testing.T) {
	testCases := []struct {
		name    string
		filter  TRS
		t, r, s bool
	}{
		{name: "none given", filter: TRS{}, t: true, r: true, s: true},
		{name: "translate only", filter: TRS{Translate: lo.ToPtr(true)}, t: true},
		{name: "rotate only", filter: TRS{Rotate: lo.ToPtr(true)}, r: true},
		{name: "not scale", filter: TRS{Scale: lo.ToPtr(false)}, t: true, r: true},
		{name: "translate wins", filter: TRS{Translate: lo.ToPtr(false), Scale: lo.ToPtr(true)}, r: true, s: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr, r, s := tc.filter.Resolve()
			assert.Equal(t, []bool{tc.t, tc.r, tc.s}, []bool{tr, r, s})
		})
	}
}

func TestPrimitiveNaming(t *testing.T) {
	sc, b := newBuilder(t)
	n := For("ch_l_Arm_control")

	first, err := b.Add1D(n, 1.0, 2.0)
	require.NoError(t, err)
	second, err := b.Add1D(n, 1.0)
	require.NoError(t, err)
	renamed, err := b.Mult(n.WithName("Elbow").WithSuffix("scale"), 1.0, 2.0)
	require.NoError(t, err)

	assert.Equal(t, "ch_l_Arm_add", first.Node)
	assert.Equal(t, "ch_l_Arm1_add", second.Node)
	assert.Equal(t, scene.P("ch_l_Elbow_scale", "outputX"), renamed)

	typ, err := sc.NodeType(first.Node)
	require.NoError(t, err)
	assert.Equal(t, "plusMinusAverage", typ)

	_, err = b.Add1D(For("pCube1"), 1.0)
	assert.Error(t, err)
}

func TestArithmetic(t *testing.T) {
	sc, b := newBuilder(t)
	n := For("ch_Test_control")
	eval := func(p scene.Plug, err error) float64 {
		t.Helper()
		require.NoError(t, err)
		v, err := sc.EvaluateFloat(p)
		require.NoError(t, err)
		return v
	}

	sum, err := b.Add1D(n, 1.0, 2.0, 3.0)
	assert.Equal(t, 6.0, eval(sum, err))
	assert.Equal(t, 3.0, eval(b.Sub1D(n, sum, 3.0)))
	assert.Equal(t, 4.0, eval(b.Avg1D(n, 2.0, 6.0)))
	assert.Equal(t, 24.0, eval(b.Mult(n, sum, 4.0)))
	assert.Equal(t, 0.0, eval(b.Div(n, sum, 0.0)))
	assert.Equal(t, 8.0, eval(b.Pow(n, 2.0, 3.0)))
	assert.Equal(t, 2.0, eval(b.Min(n, sum, 2.0)))
	assert.Equal(t, 6.0, eval(b.Max(n, sum, 2.0)))
	assert.Equal(t, 5.0, eval(b.Clamp(n, sum, 0.0, 5.0)))
	assert.Equal(t, 0.25, eval(b.Reverse(n, 0.75)))
	assert.Equal(t, 1.0, eval(b.Switch1D(n, sum, ">=", 6.0, nil, nil)))
	assert.Equal(t, 7.0, eval(b.Switch1D(n, sum, "<", 6.0, 3.0, 7.0)))

	vec, err := b.Add3D(n, mgl64.Vec3{1, 2, 3}, [3]any{sum, 0.0, 1.0})
	require.NoError(t, err)
	v, err := sc.Evaluate(vec)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{7, 2, 4}, v)

	_, err = b.Switch1D(n, sum, "=~", 1.0, nil, nil)
	assert.ErrorContains(t, err, "unknown comparison")
}

func TestParentConstraintKeepsOffset(t *testing.T) {
	sc, b := newBuilder(t)
	transform(t, b, "ch_Source_control", "", mgl64.Vec3{1, 2, 3})
	require.NoError(t, b.Attrs.Set(scene.P("ch_Source_control", "rotate"), mgl64.Vec3{0, 45, 0}))
	transform(t, b, "ch_Parent_grp", "", mgl64.Vec3{5, 0, 0})
	transform(t, b, "ch_Target_control", "ch_Parent_grp", mgl64.Vec3{0, 1, 0})

	before, err := sc.WorldMatrix("ch_Target_control")
	require.NoError(t, err)
	sourceBefore, err := sc.WorldMatrix("ch_Source_control")
	require.NoError(t, err)

	out, err := b.ParentConstraint("ch_Source_control", "ch_Target_control", ConstraintOptions{Connect: true})
	require.NoError(t, err)
	assert.Equal(t, scene.P("ch_SourceToTarget_matrixParent", "matrixSum"), out)

	world, err := sc.EvaluateMatrix(scene.P("ch_Target_control", "worldMatrix"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqual(before, world, 1e-9))

	require.NoError(t, b.Attrs.Set(scene.P("ch_Source_control", "translate"), mgl64.Vec3{1, 4, 3}))
	require.NoError(t, b.Attrs.Set(scene.P("ch_Source_control", "rotate"), mgl64.Vec3{0, 90, 0}))
	sourceAfter, err := sc.WorldMatrix("ch_Source_control")
	require.NoError(t, err)

	world, err = sc.EvaluateMatrix(scene.P("ch_Target_control", "worldMatrix"))
	require.NoError(t, err)
	want := sourceAfter.Mul4(sourceBefore.Inv()).Mul4(before)
	assert.True(t, xform.ApproxEqual(want, world, 1e-9), "got %v want %v", world, want)
}

func TestParentConstraintFilter(t *testing.T) {
	sc, b := newBuilder(t)
	transform(t, b, "ch_Source_control", "", mgl64.Vec3{})
	transform(t, b, "ch_Target_control", "", mgl64.Vec3{2, 0, 0})
	require.NoError(t, b.Attrs.SetRest("ch_Target_control"))

	out, err := b.ParentConstraint("ch_Source_control", "ch_Target_control", ConstraintOptions{
		Connect: true,
		TRS:     TRS{Translate: lo.ToPtr(true)},
	})
	require.NoError(t, err)
	assert.Equal(t, "ch_Target_matrixParentFilter", out.Node)

	require.NoError(t, b.Attrs.Set(scene.P("ch_Source_control", "rotate"), mgl64.Vec3{0, 90, 0}))
	world, err := sc.EvaluateMatrix(scene.P("ch_Target_control", "worldMatrix"))
	require.NoError(t, err)

	assert.True(t, xform.ApproxEqualVec(xform.Translation(world), mgl64.Vec3{0, 0, -2}, 1e-9), "translation %v", xform.Translation(world))
	assert.True(t, xform.ApproxEqual(xform.RotationMatrix(world), mgl64.Ident4(), 1e-9))
}

func TestSpaceSwitch(t *testing.T) {
	sc, b := newBuilder(t)
	transform(t, b, "ch_A_control", "", mgl64.Vec3{1, 0, 0})
	transform(t, b, "ch_B_control", "", mgl64.Vec3{0, 5, 0})
	transform(t, b, "ch_Hand_control", "", mgl64.Vec3{0, 2, 0})
	require.NoError(t, b.Attrs.SetRest("ch_Hand_control"))

	_, err := b.SpaceSwitch([]string{"ch_A_control", "ch_B_control"}, "ch_Hand_control", SpaceSwitchOptions{
		IncludeParent: true,
		Options:       []string{"A", "B"},
	})
	require.ErrorContains(t, err, "expected 3 options")

	_, err = b.SpaceSwitch([]string{"ch_A_control", "ch_B_control"}, "ch_Hand_control", SpaceSwitchOptions{
		IncludeParent: true,
		Options:       []string{"Parent", "A", "B"},
	})
	require.NoError(t, err)

	// Move both spaces after the switch is wired.
	require.NoError(t, b.Attrs.Set(scene.P("ch_A_control", "translate"), mgl64.Vec3{1, 0, 3}))
	require.NoError(t, b.Attrs.Set(scene.P("ch_B_control", "translate"), mgl64.Vec3{0, 5, -4}))

	testCases := []struct {
		value int
		want  mgl64.Vec3
	}{
		{value: 0, want: mgl64.Vec3{0, 2, 0}},
		{value: 1, want: mgl64.Vec3{0, 2, 3}},
		{value: 2, want: mgl64.Vec3{0, 2, -4}},
	}
	for _, tc := range testCases {
		require.NoError(t, b.Attrs.Set(scene.P("ch_Hand_control", "space"), tc.value))
		opm, err := sc.EvaluateMatrix(scene.P("ch_Hand_control", "offsetParentMatrix"))
		require.NoError(t, err)
		assert.True(t, xform.ApproxEqualVec(xform.Translation(opm), tc.want, 1e-9),
			"space %d: got %v want %v", tc.value, xform.Translation(opm), tc.want)
	}

	labels, err := b.Attrs.Labels(scene.P("ch_Hand_control", "space"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Parent", "A", "B"}, labels)

	_, err = b.SpaceSwitch([]string{"ch_A_control"}, "ch_Hand_control", SpaceSwitchOptions{
		ControlAttr: scene.P("ch_Hand_control", "space"),
	})
	assert.ErrorContains(t, err, "expected an enum with 1 options")
}

func TestSwingTwistNetworkMatchesFactorization(t *testing.T) {
	sc, b := newBuilder(t)
	require.NoError(t, sc.CreateNode("joint", "ch_l_Shoulder_pose", ""))

	plugs, err := b.SwingTwist("ch_l_Shoulder_pose")
	require.NoError(t, err)

	testCases := []struct {
		name   string
		rotate mgl64.Vec3
	}{
		{name: "identity", rotate: mgl64.Vec3{}},
		{name: "pure twist", rotate: mgl64.Vec3{50, 0, 0}},
		{name: "pure swing", rotate: mgl64.Vec3{0, 0, 70}},
		{name: "mixed", rotate: mgl64.Vec3{30, 40, 10}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, b.Attrs.Set(scene.P("ch_l_Shoulder_pose", "rotate"), tc.rotate))
			rotation := xform.EulerToQuat(tc.rotate, xform.XYZ)
			wantSwing, wantTwist := xform.SwingTwist(rotation, mgl64.QuatIdent())

			swingV, err := sc.Evaluate(plugs.SwingQuat)
			require.NoError(t, err)
			twistV, err := sc.Evaluate(plugs.TwistQuat)
			require.NoError(t, err)
			swing := xform.QuatFromVec4(swingV.(mgl64.Vec4))
			twist := xform.QuatFromVec4(twistV.(mgl64.Vec4))

			assert.True(t, xform.SameRotation(wantSwing, swing, 1e-9), "swing %v want %v", swing, wantSwing)
			assert.True(t, xform.SameRotation(wantTwist, twist, 1e-9), "twist %v want %v", twist, wantTwist)
			assert.True(t, xform.SameRotation(rotation, twist.Mul(swing), 1e-9))
		})
	}
}

func TestMatrixSpline(t *testing.T) {
	sc, b := newBuilder(t)
	points := []mgl64.Vec3{{0, 0, 0}, {1, 1, 0}, {2, 1, 0}, {3, 0, 0}}
	values := lo.Map(points, func(p mgl64.Vec3, _ int) any { return mgl64.Translate3D(p[0], p[1], p[2]) })
	n := For("ch_Spine_control")

	out, err := b.MatrixSpline(n, values, 0.25)
	require.NoError(t, err)
	assert.Equal(t, "ch_Spine_alignToSpline", out.Node)

	m, err := sc.EvaluateMatrix(out)
	require.NoError(t, err)

	var wantPos, wantTangent mgl64.Vec3
	w, dw := xform.BezierWeights(0.25), xform.BezierTangentWeights(0.25)
	for i, p := range points {
		wantPos = wantPos.Add(p.Mul(w[i]))
		wantTangent = wantTangent.Add(p.Mul(dw[i]))
	}
	assert.True(t, xform.ApproxEqualVec(xform.Translation(m), wantPos, 1e-9), "position %v want %v", xform.Translation(m), wantPos)
	assert.True(t, xform.ApproxEqualVec(xform.Axis(m, 0).Normalize(), wantTangent.Normalize(), 1e-9))

	_, err = b.MatrixSpline(n, values[:3], 0.5)
	assert.ErrorContains(t, err, "needs 4 control matrices")
}

func TestOrientConstraintHalfway(t *testing.T) {
	sc, b := newBuilder(t)
	transform(t, b, "ch_A_control", "", mgl64.Vec3{})
	transform(t, b, "ch_B_control", "", mgl64.Vec3{})
	transform(t, b, "ch_Half_control", "", mgl64.Vec3{0, 0, 0})

	_, err := b.OrientConstraint([]string{"ch_A_control", "ch_B_control"}, "ch_Half_control", SequentialWeights(1, 1))
	require.NoError(t, err)
	require.NoError(t, b.Attrs.Set(scene.P("ch_B_control", "rotate"), mgl64.Vec3{0, 0, 90}))

	world, err := sc.EvaluateMatrix(scene.P("ch_Half_control", "worldMatrix"))
	require.NoError(t, err)
	got := mgl64.Mat4ToQuat(xform.RotationMatrix(world))
	want := xform.EulerToQuat(mgl64.Vec3{0, 0, 45}, xform.XYZ)
	assert.True(t, xform.SameRotation(want, got, 1e-9))

	assert.Equal(t, []any{1.0, 0.5, 0.0}, SequentialWeights(2, 2, 0))
}

func TestPoleVector(t *testing.T) {
	sc, b := newBuilder(t)
	require.NoError(t, sc.CreateNode("joint", "ch_l_Hip_ik", ""))
	require.NoError(t, b.Attrs.Set(scene.P("ch_l_Hip_ik", "translate"), mgl64.Vec3{1, 10, 0}))
	require.NoError(t, sc.CreateNode("ikHandle", "ch_l_Leg_ikHandle", ""))
	transform(t, b, "ch_l_Knee_ikPole", "", mgl64.Vec3{1, 6, 8})

	_, err := b.PoleVector("ch_l_Knee_ikPole", "ch_l_Hip_ik", "ch_l_Leg_ikHandle")
	require.NoError(t, err)

	v, err := sc.Evaluate(scene.P("ch_l_Leg_ikHandle", "poleVector"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqualVec(v.(mgl64.Vec3), mgl64.Vec3{0, -4, 8}, 1e-9))
}
