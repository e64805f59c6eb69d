package inmemoryscene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
)

func TestEvaluateArithmetic(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("plusMinusAverage", "sum", ""))
	require.NoError(t, s.SetAttr(scene.P("sum", "input1D[0]"), 2.0))
	require.NoError(t, s.SetAttr(scene.P("sum", "input1D[3]"), 3.0))

	v, err := s.EvaluateFloat(scene.P("sum", "output1D"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	require.NoError(t, s.SetAttr(scene.P("sum", "operation"), 2))
	v, err = s.EvaluateFloat(scene.P("sum", "output1D"))
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)

	require.NoError(t, s.CreateNode("multiplyDivide", "md", ""))
	require.NoError(t, s.Connect(scene.P("sum", "output1D"), scene.P("md", "input1Y"), false))
	require.NoError(t, s.SetAttr(scene.P("md", "input2Y"), 4.0))
	v, err = s.EvaluateFloat(scene.P("md", "outputY"))
	require.NoError(t, err)
	assert.Equal(t, -4.0, v)

	require.NoError(t, s.CreateNode("floatMath", "fm", ""))
	require.NoError(t, s.SetAttr(scene.P("fm", "operation"), 4))
	require.NoError(t, s.Connect(scene.P("md", "outputY"), scene.P("fm", "floatA"), false))
	v, err = s.EvaluateFloat(scene.P("fm", "outFloat"))
	require.NoError(t, err)
	assert.Equal(t, -4.0, v)

	got, err := s.GetAttr(scene.P("fm", "outFloat"))
	require.NoError(t, err)
	assert.Equal(t, -4.0, got)
}

func TestEvaluateMultMatrixOrder(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("multMatrix", "mm", ""))
	require.NoError(t, s.SetAttr(scene.P("mm", "matrixIn[0]"), mgl64.Translate3D(1, 0, 0)))
	require.NoError(t, s.SetAttr(scene.P("mm", "matrixIn[1]"), mgl64.Scale3D(2, 2, 2)))

	m, err := s.EvaluateMatrix(scene.P("mm", "matrixSum"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqualVec(xform.Translation(m), mgl64.Vec3{2, 0, 0}, 1e-12))
}

func TestEvaluateConditionDrivenBlend(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "ctrl", ""))
	require.NoError(t, s.AddAttr("ctrl", scene.AttrSpec{Name: "space", Kind: scene.KindEnum, Enum: []string{"a", "b"}}))
	require.NoError(t, s.CreateNode("condition", "cond", ""))
	require.NoError(t, s.SetAttr(scene.P("cond", "secondTerm"), 1.0))
	require.NoError(t, s.SetAttr(scene.P("cond", "colorIfTrueR"), 1.0))
	require.NoError(t, s.SetAttr(scene.P("cond", "colorIfFalseR"), 0.0))
	require.NoError(t, s.Connect(scene.P("ctrl", "space"), scene.P("cond", "firstTerm"), false))

	a := mgl64.Translate3D(1, 0, 0)
	b := mgl64.Translate3D(0, 5, 0)
	require.NoError(t, s.CreateNode("blendMatrix", "blend", ""))
	require.NoError(t, s.SetAttr(scene.P("blend", "inputMatrix"), a))
	require.NoError(t, s.SetAttr(scene.P("blend", "target[0].targetMatrix"), b))
	require.NoError(t, s.Connect(scene.P("cond", "outColorR"), scene.P("blend", "target[0].weight"), false))

	m, err := s.EvaluateMatrix(scene.P("blend", "outputMatrix"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqual(a, m, 1e-9))

	require.NoError(t, s.SetAttr(scene.P("ctrl", "space"), 1))
	m, err = s.EvaluateMatrix(scene.P("blend", "outputMatrix"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqual(b, m, 1e-9))

	require.NoError(t, s.Disconnect(scene.P("cond", "outColorR"), scene.P("blend", "target[0].weight")))
	require.NoError(t, s.SetAttr(scene.P("blend", "target[0].weight"), 0.5))
	m, err = s.EvaluateMatrix(scene.P("blend", "outputMatrix"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqualVec(xform.Translation(m), mgl64.Vec3{0.5, 2.5, 0}, 1e-9))
}

func TestEvaluateTransformOutputs(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "src", ""))
	require.NoError(t, s.SetAttr(scene.P("src", "translate"), mgl64.Vec3{1, 2, 3}))
	require.NoError(t, s.CreateNode("decomposeMatrix", "dm", ""))
	require.NoError(t, s.CreateNode("transform", "follower", ""))
	require.NoError(t, s.Connect(scene.P("src", "worldMatrix"), scene.P("dm", "inputMatrix"), false))
	require.NoError(t, s.Connect(scene.P("dm", "outputTranslate"), scene.P("follower", "translate"), false))

	m, err := s.EvaluateMatrix(scene.P("follower", "worldMatrix"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqualVec(xform.Translation(m), mgl64.Vec3{1, 2, 3}, 1e-12))

	static, err := s.WorldMatrix("follower")
	require.NoError(t, err)
	assert.Equal(t, mgl64.Ident4(), static, "the static solve ignores connections")
}

func TestEvaluateQuaternions(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("eulerToQuat", "e2q", ""))
	require.NoError(t, s.SetAttr(scene.P("e2q", "inputRotate"), mgl64.Vec3{0, 0, 90}))
	require.NoError(t, s.CreateNode("quatSlerp", "slerp", ""))
	require.NoError(t, s.Connect(scene.P("e2q", "outputQuat"), scene.P("slerp", "input2Quat"), false))
	require.NoError(t, s.SetAttr(scene.P("slerp", "inputT"), 0.5))
	require.NoError(t, s.CreateNode("quatToEuler", "q2e", ""))
	require.NoError(t, s.Connect(scene.P("slerp", "outputQuat"), scene.P("q2e", "inputQuat"), false))

	v, err := s.Evaluate(scene.P("q2e", "outputRotate"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqualVec(v.(mgl64.Vec3), mgl64.Vec3{0, 0, 45}, 1e-9), "got %v", v)
}

func TestEvaluateAimMatrix(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("aimMatrix", "aim", ""))
	require.NoError(t, s.SetAttr(scene.P("aim", "primaryTargetMatrix"), mgl64.Translate3D(0, 10, 0)))

	m, err := s.EvaluateMatrix(scene.P("aim", "outputMatrix"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqualVec(xform.Axis(m, 0), mgl64.Vec3{0, 1, 0}, 1e-9))
}
