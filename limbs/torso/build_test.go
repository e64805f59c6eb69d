package torso

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/inmemoryscene"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/rig"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/testutil"
	"github.com/vk/riggen/internal/xform"
)

type character rig.Character

func (c character) PromptCharacter(context.Context) (rig.Character, bool, error) {
	return rig.Character(c), true, nil
}

func buildTorso(t *testing.T, key string) (*rig.Context, *inmemoryscene.Store, *limb.Build) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	sc := inmemoryscene.New()
	reg := limb.NewRegistry(nil)
	reg.RegisterModules(&Module{})

	c, err := rig.Prepare(ctx, attr.New(sc), reg, character{Name: "Bob", Initials: "bo"})
	require.NoError(t, err)
	_, err = c.GenerateMarkers(ctx, key, offset(0, 100, 0))
	require.NoError(t, err)
	builds, err := c.Build(ctx)
	require.NoError(t, err)
	require.Len(t, builds, 1)
	return c, sc, builds[0]
}

func world(t *testing.T, sc *inmemoryscene.Store, node string) mgl64.Mat4 {
	t.Helper()
	m, err := sc.EvaluateMatrix(scene.P(node, "worldMatrix"))
	require.NoError(t, err)
	return m
}

func TestFKBuildFoldsCoGAndNib(t *testing.T) {
	c, sc, b := buildTorso(t, KeyFK)

	assert.Equal(t, KeyFK, b.Limb.Key())
	assert.Equal(t, "bo_CenterOfGravity_control", c.CoGControl)
	assert.False(t, sc.Exists("bo_CenterOfGravity_pose"))
	assert.False(t, sc.Exists("bo_PelvisNib_pose"))
	assert.Equal(t, c.PoseGroup, sc.Parent("bo_Pelvis_pose"))
	assert.Equal(t, "bo_Pelvis_pose", sc.Parent("bo_Spine0_pose"))

	pelvis, err := c.Joints.Position("bo_Pelvis_pose")
	require.NoError(t, err)
	assert.InDelta(t, 88, pelvis.Y, 1e-9, "the pelvis pivots at its nib")
	assert.InDelta(t, -4.5, pelvis.Z, 1e-9)
	spine0, err := c.Joints.Position("bo_Spine0_pose")
	require.NoError(t, err)
	assert.InDelta(t, 100, spine0.Y, 1e-9, "children of the pelvis stay in place")
}

func TestFKBuildBindJoints(t *testing.T) {
	c, sc, b := buildTorso(t, KeyFK)

	assert.Equal(t, []string{
		"bo_Pelvis_bindJoint",
		"bo_Spine0_bindJoint",
		"bo_Spine1_bindJoint",
		"bo_Spine2_bindJoint",
	}, b.Bind.Names())
	assert.Equal(t, c.BindGroup, sc.Parent("bo_Pelvis_bindJoint"))
	assert.Equal(t, "bo_Pelvis_bindJoint", sc.Parent("bo_Spine0_bindJoint"))
	assert.Equal(t, "bo_Spine1_bindJoint", sc.Parent("bo_Spine2_bindJoint"))
	assert.False(t, sc.HasAttr(scene.P("bo_Spine0_pose", BlendAttr)))

	require.NoError(t, c.Attrs().Set(scene.P("bo_UpperTorso_control", "rotate"), mgl64.Vec3{0, 30, 0}))
	require.NoError(t, c.Attrs().Set(scene.P("bo_Pelvis_control", "rotate"), mgl64.Vec3{10, 0, 0}))
	for _, typ := range []string{"Pelvis", "Spine0", "Spine1", "Spine2"} {
		pose, bind := "bo_"+typ+"_pose", "bo_"+typ+"_bindJoint"
		assert.True(t, xform.ApproxEqual(world(t, sc, pose), world(t, sc, bind), 1e-6), "%s follows %s", bind, pose)
	}
}

func TestFKBuildMiddleSlerp(t *testing.T) {
	c, sc, _ := buildTorso(t, KeyFK)
	middle := scene.P("bo_MiddleTorso_control", "offsetParentMatrix")

	rest, err := sc.EvaluateMatrix(middle)
	require.NoError(t, err)

	// Spine0's blend of 0.5 puts the middle halfway between the pelvis and
	// the upper torso.
	require.NoError(t, c.Attrs().Set(scene.P("bo_UpperTorso_control", "rotate"), mgl64.Vec3{0, 40, 0}))
	got, err := sc.EvaluateMatrix(middle)
	require.NoError(t, err)
	want := rest.Mul4(xform.EulerToMat4(mgl64.Vec3{0, 20, 0}, xform.XYZ))
	assert.True(t, xform.ApproxEqual(want, got, 1e-9), "got %v want %v", got, want)

	require.NoError(t, c.Attrs().Set(scene.P("bo_Pelvis_control", "rotate"), mgl64.Vec3{0, 40, 0}))
	got, err = sc.EvaluateMatrix(middle)
	require.NoError(t, err)
	want = rest.Mul4(xform.EulerToMat4(mgl64.Vec3{0, 40, 0}, xform.XYZ))
	assert.True(t, xform.ApproxEqual(want, got, 1e-9), "both ends turned alike")
}

func TestSimpleBuild(t *testing.T) {
	c, sc, b := buildTorso(t, KeySimple)

	assert.Equal(t, []string{"bo_Pelvis_bindJoint"}, b.Bind.Names())
	assert.Equal(t, c.BindGroup, sc.Parent("bo_Pelvis_bindJoint"))
	pelvis, err := c.Joints.Position("bo_Pelvis_pose")
	require.NoError(t, err)
	assert.InDelta(t, 100, pelvis.Y, 1e-9)
	assert.True(t, sc.Exists("bo_Pelvis_control"))
}
