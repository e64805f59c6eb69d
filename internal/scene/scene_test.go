package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlugHelpers(t *testing.T) {
	p := P("blend", "target").Index(2).Child("weight")
	assert.Equal(t, "blend.target[2].weight", p.String())
	assert.Equal(t, "target[].weight", NormalizeAttr(p.Attr))
	assert.Equal(t, "input3D[2].input3Dx", ConcreteChild("input3D[].input3Dx", "input3D[]", "input3D[2]"))

	parsed, err := ParsePlug("L_hip_ctrl.translateX")
	require.NoError(t, err)
	assert.Equal(t, P("L_hip_ctrl", "translateX"), parsed)

	_, err = ParsePlug("noattr")
	assert.Error(t, err)
	assert.True(t, Plug{}.IsZero())
}

func TestCoerce(t *testing.T) {
	testCases := []struct {
		name    string
		kind    Kind
		in      any
		want    any
		wantErr bool
	}{
		{name: "int widens to float", kind: KindFloat, in: 3, want: 3.0},
		{name: "whole float narrows to enum", kind: KindEnum, in: 2.0, want: 2},
		{name: "fractional float is not an int", kind: KindInt, in: 2.5, wantErr: true},
		{name: "quaternion stored xyzw", kind: KindFloat4, in: mgl64.QuatIdent(), want: mgl64.Vec4{0, 0, 0, 1}},
		{name: "slice to vector", kind: KindFloat3, in: []float64{1, 2, 3}, want: mgl64.Vec3{1, 2, 3}},
		{name: "short slice rejected", kind: KindFloat3, in: []float64{1, 2}, wantErr: true},
		{name: "points flatten", kind: KindFloatArray, in: []mgl64.Vec3{{1, 2, 3}}, want: []float64{1, 2, 3}},
		{name: "string is not a bool", kind: KindBool, in: "yes", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Coerce(tc.kind, tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrKindMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("float3")
	require.NoError(t, err)
	assert.Equal(t, KindFloat3, k)

	_, err = ParseKind("invalid")
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	joint, ok := LookupType("joint")
	require.True(t, ok)
	assert.True(t, joint.DAG)

	p, key, ok := joint.Port("jointOrientY")
	require.True(t, ok)
	assert.Equal(t, "jointOrientY", key)
	assert.Equal(t, "jointOrient", p.Parent)
	assert.Equal(t, 1, p.Component)

	blend, ok := LookupType("blendMatrix")
	require.True(t, ok)
	assert.False(t, blend.DAG)
	p, key, ok = blend.Port("target[4].rotateWeight")
	require.True(t, ok)
	assert.Equal(t, "target[].rotateWeight", key)
	assert.Equal(t, 1.0, p.Default)

	pma, _ := LookupType("plusMinusAverage")
	p, _, ok = pma.Port("input3D[1].input3Dy")
	require.True(t, ok)
	assert.Equal(t, "input3D[]", p.Parent)

	assert.True(t, IsTransformInput("translate"))
	assert.True(t, IsTransformInput("rotateX"))
	assert.False(t, IsTransformInput("visibility"))
	assert.True(t, IsTransformOutput("worldMatrix"))
	assert.Contains(t, TypeNames(), "wtAddMatrix")
}
