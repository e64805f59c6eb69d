package inmemoryscene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
)

func TestHierarchy(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "grp", ""))
	require.NoError(t, s.CreateNode("joint", "a", "grp"))
	require.NoError(t, s.CreateNode("joint", "b", "a"))
	require.NoError(t, s.CreateNode("transform", "other", ""))

	assert.Equal(t, []string{"grp", "other"}, s.Roots())
	assert.Equal(t, []string{"a"}, s.Children("grp"))
	assert.Equal(t, "a", s.Parent("b"))
	assert.Equal(t, []string{"a", "b"}, s.Descendants("grp"))

	require.NoError(t, s.ReorderBack("grp"))
	assert.Equal(t, []string{"other", "grp"}, s.Roots())

	require.NoError(t, s.Delete("a"))
	assert.False(t, s.Exists("a"))
	assert.False(t, s.Exists("b"))
	assert.Empty(t, s.Children("grp"))
}

func TestCreateNodeErrors(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "grp", ""))

	assert.ErrorIs(t, s.CreateNode("transform", "grp", ""), scene.ErrNodeExists)
	assert.ErrorIs(t, s.CreateNode("spaceship", "x", ""), scene.ErrUnknownNodeType)
	assert.ErrorIs(t, s.CreateNode("joint", "x", "missing"), scene.ErrNodeNotFound)
	assert.Error(t, s.CreateNode("reverse", "rev", "grp"), "utility nodes have no parent")
	assert.Error(t, s.CreateNode("transform", "bad name", ""))
}

func TestSetParentRejectsDescendant(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "a", ""))
	require.NoError(t, s.CreateNode("transform", "b", "a"))

	assert.Error(t, s.SetParent("a", "b"))
	assert.Error(t, s.SetParent("a", "a"))
}

func TestVectorComponents(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "ctrl", ""))

	require.NoError(t, s.SetAttr(scene.P("ctrl", "translateY"), 4))
	v, err := s.GetAttr(scene.P("ctrl", "translate"))
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{0, 4, 0}, v)

	require.NoError(t, s.SetAttr(scene.P("ctrl", "scale"), mgl64.Vec3{2, 3, 4}))
	v, err = s.GetAttr(scene.P("ctrl", "scaleZ"))
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestLocks(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "ctrl", ""))

	require.NoError(t, s.SetAttrState(scene.P("ctrl", "translateY"), scene.AttrState{Locked: true}))
	assert.ErrorIs(t, s.SetAttr(scene.P("ctrl", "translateY"), 1.0), scene.ErrLocked)
	assert.ErrorIs(t, s.SetAttr(scene.P("ctrl", "translate"), mgl64.Vec3{1, 1, 1}), scene.ErrLocked)
	assert.NoError(t, s.SetAttr(scene.P("ctrl", "translateX"), 1.0))

	require.NoError(t, s.SetAttrState(scene.P("ctrl", "rotate"), scene.AttrState{Locked: true}))
	assert.ErrorIs(t, s.SetAttr(scene.P("ctrl", "rotateZ"), 1.0), scene.ErrLocked)

	info, err := s.AttrInfo(scene.P("ctrl", "rotate"))
	require.NoError(t, err)
	assert.True(t, info.Locked)
	assert.Equal(t, []string{"rotateX", "rotateY", "rotateZ"}, info.Children)
}

func TestComputedIsReadOnly(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "ctrl", ""))
	assert.ErrorIs(t, s.SetAttr(scene.P("ctrl", "worldMatrix"), mgl64.Ident4()), scene.ErrReadOnly)
	assert.ErrorIs(t, s.SetAttr(scene.P("ctrl", "nothing"), 1.0), scene.ErrAttrNotFound)
	assert.ErrorIs(t, s.SetAttr(scene.P("ctrl", "translate"), "up"), scene.ErrKindMismatch)
}

func TestUserAttributes(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "ctrl", ""))

	require.NoError(t, s.AddAttr("ctrl", scene.AttrSpec{Name: "offset", Kind: scene.KindFloat3}))
	require.NoError(t, s.AddAttr("ctrl", scene.AttrSpec{
		Name: "space", Kind: scene.KindEnum, Enum: []string{"world", "local"}, Default: 1,
		State: scene.AttrState{Keyable: true},
	}))
	assert.ErrorIs(t, s.AddAttr("ctrl", scene.AttrSpec{Name: "space", Kind: scene.KindInt}), scene.ErrAttrExists)
	assert.ErrorIs(t, s.AddAttr("ctrl", scene.AttrSpec{Name: "translate", Kind: scene.KindInt}), scene.ErrAttrExists)

	assert.Equal(t, []string{"offset", "space"}, s.ListAttrs("ctrl", true))
	assert.True(t, s.HasAttr(scene.P("ctrl", "offsetZ")))

	v, err := s.GetAttr(scene.P("ctrl", "space"))
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Error(t, s.SetAttr(scene.P("ctrl", "space"), 2), "enum out of range")

	require.NoError(t, s.SetAttr(scene.P("ctrl", "offsetX"), 3.0))
	v, err = s.GetAttr(scene.P("ctrl", "offset"))
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{3, 0, 0}, v)

	require.NoError(t, s.DeleteAttr(scene.P("ctrl", "offset")))
	assert.False(t, s.HasAttr(scene.P("ctrl", "offsetX")))
	assert.ErrorIs(t, s.DeleteAttr(scene.P("ctrl", "translate")), scene.ErrAttrNotFound)
}

func TestAttributeRange(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "ctrl", ""))
	lo, hi := 0.0, 1.0
	require.NoError(t, s.AddAttr("ctrl", scene.AttrSpec{Name: "blend", Kind: scene.KindFloat, Min: &lo, Max: &hi}))

	assert.NoError(t, s.SetAttr(scene.P("ctrl", "blend"), 0.5))
	assert.Error(t, s.SetAttr(scene.P("ctrl", "blend"), 1.5))
	assert.Error(t, s.SetAttr(scene.P("ctrl", "blend"), -0.1))
}

func TestConnect(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "ctrl", ""))
	require.NoError(t, s.CreateNode("transform", "other", ""))
	require.NoError(t, s.CreateNode("reverse", "rev", ""))
	require.NoError(t, s.AddAttr("ctrl", scene.AttrSpec{Name: "ik", Kind: scene.KindEnum, Enum: []string{"FK", "IK"}}))
	require.NoError(t, s.AddAttr("ctrl", scene.AttrSpec{Name: "fk", Kind: scene.KindEnum, Enum: []string{"Off", "On"}}))

	// A switch driving its own visibility attribute through a reverse node
	// is not a cycle.
	require.NoError(t, s.Connect(scene.P("ctrl", "ik"), scene.P("rev", "inputX"), false))
	require.NoError(t, s.Connect(scene.P("rev", "outputX"), scene.P("ctrl", "fk"), false))

	src, ok := s.Source(scene.P("ctrl", "fk"))
	require.True(t, ok)
	assert.Equal(t, scene.P("rev", "outputX"), src)
	assert.Equal(t, []scene.Plug{scene.P("ctrl", "fk")}, s.Destinations(scene.P("rev", "outputX")))

	assert.NoError(t, s.Connect(scene.P("ctrl", "ik"), scene.P("rev", "inputX"), false), "reconnecting the same source is a no-op")
	assert.ErrorIs(t, s.Connect(scene.P("other", "translateX"), scene.P("rev", "inputX"), false), scene.ErrAlreadyConnected)

	require.NoError(t, s.Connect(scene.P("other", "translateX"), scene.P("rev", "inputX"), true))
	src, _ = s.Source(scene.P("rev", "inputX"))
	assert.Equal(t, scene.P("other", "translateX"), src)
	assert.Empty(t, s.Destinations(scene.P("ctrl", "ik")))

	assert.ErrorIs(t, s.Connect(scene.P("ctrl", "worldMatrix"), scene.P("other", "translateX"), false), scene.ErrKindMismatch)
	assert.ErrorIs(t, s.Connect(scene.P("ctrl", "translateX"), scene.P("rev", "outputY"), false), scene.ErrReadOnly)

	require.NoError(t, s.Disconnect(scene.P("other", "translateX"), scene.P("rev", "inputX")))
	assert.ErrorIs(t, s.Disconnect(scene.P("other", "translateX"), scene.P("rev", "inputX")), scene.ErrNotConnected)
}

func TestConnectRejectsCycles(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("multiplyDivide", "md1", ""))
	require.NoError(t, s.CreateNode("multiplyDivide", "md2", ""))
	require.NoError(t, s.CreateNode("transform", "ctrl", ""))

	require.NoError(t, s.Connect(scene.P("md1", "output"), scene.P("md2", "input1"), false))
	assert.ErrorIs(t, s.Connect(scene.P("md2", "outputX"), scene.P("md1", "input2X"), false), scene.ErrCycle)
	assert.ErrorIs(t, s.Connect(scene.P("md1", "outputY"), scene.P("md1", "input1Z"), false), scene.ErrCycle)

	require.NoError(t, s.CreateNode("decomposeMatrix", "dm", ""))
	require.NoError(t, s.Connect(scene.P("ctrl", "worldMatrix"), scene.P("dm", "inputMatrix"), false))
	assert.ErrorIs(t, s.Connect(scene.P("dm", "outputTranslate"), scene.P("ctrl", "translate"), false), scene.ErrCycle)
	assert.NoError(t, s.Connect(scene.P("dm", "outputTranslate"), scene.P("md2", "input2"), false))
}

func TestSetParentKeepsWorld(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "grp", ""))
	require.NoError(t, s.SetAttr(scene.P("grp", "translate"), mgl64.Vec3{10, 0, 0}))
	require.NoError(t, s.SetAttr(scene.P("grp", "rotate"), mgl64.Vec3{0, 90, 0}))
	require.NoError(t, s.CreateNode("transform", "item", ""))
	require.NoError(t, s.SetAttr(scene.P("item", "translate"), mgl64.Vec3{1, 2, 3}))

	before, err := s.WorldMatrix("item")
	require.NoError(t, err)
	require.NoError(t, s.SetParent("item", "grp"))
	after, err := s.WorldMatrix("item")
	require.NoError(t, err)

	assert.True(t, xform.ApproxEqual(before, after, 1e-9))
	v, err := s.GetAttr(scene.P("item", "translate"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqualVec(v.(mgl64.Vec3), mgl64.Vec3{-3, 2, -9}, 1e-9), "got %v", v)

	require.NoError(t, s.SetParentRelative("item", ""))
	v, err = s.GetAttr(scene.P("item", "translate"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqualVec(v.(mgl64.Vec3), mgl64.Vec3{-3, 2, -9}, 1e-9))
}

func TestJointKeepsRotateOnReparent(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "grp", ""))
	require.NoError(t, s.SetAttr(scene.P("grp", "rotate"), mgl64.Vec3{45, 0, 0}))
	require.NoError(t, s.CreateNode("joint", "jnt", ""))
	require.NoError(t, s.SetAttr(scene.P("jnt", "rotate"), mgl64.Vec3{0, 0, 30}))
	require.NoError(t, s.SetAttrState(scene.P("jnt", "rotate"), scene.AttrState{Locked: true}))

	before, err := s.WorldMatrix("jnt")
	require.NoError(t, err)
	require.NoError(t, s.SetParent("jnt", "grp"))
	after, err := s.WorldMatrix("jnt")
	require.NoError(t, err)

	assert.True(t, xform.ApproxEqual(before, after, 1e-9))
	rot, err := s.GetAttr(scene.P("jnt", "rotate"))
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{0, 0, 30}, rot)
	orient, err := s.GetAttr(scene.P("jnt", "jointOrient"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqualVec(orient.(mgl64.Vec3), mgl64.Vec3{-45, 0, 0}, 1e-9), "got %v", orient)
}

func TestSetWorldMatrixHonoursOffsetParentMatrix(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "ctrl", ""))
	require.NoError(t, s.SetAttr(scene.P("ctrl", "offsetParentMatrix"), mgl64.Translate3D(0, 5, 0)))

	target := mgl64.Translate3D(1, 5, 0)
	require.NoError(t, s.SetWorldMatrix("ctrl", target))

	v, err := s.GetAttr(scene.P("ctrl", "translate"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqualVec(v.(mgl64.Vec3), mgl64.Vec3{1, 0, 0}, 1e-9))

	world, err := s.GetAttr(scene.P("ctrl", "worldMatrix"))
	require.NoError(t, err)
	assert.True(t, xform.ApproxEqual(target, world.(mgl64.Mat4), 1e-9))
}

func TestRenameCarriesConnections(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "a", ""))
	require.NoError(t, s.CreateNode("transform", "child", "a"))
	require.NoError(t, s.CreateNode("reverse", "rev", ""))
	require.NoError(t, s.Connect(scene.P("a", "translateX"), scene.P("rev", "inputX"), false))
	s.Select("a")

	require.NoError(t, s.Rename("a", "b"))
	assert.False(t, s.Exists("a"))
	assert.Equal(t, "b", s.Parent("child"))
	assert.Equal(t, []string{"b"}, s.Selection())
	src, ok := s.Source(scene.P("rev", "inputX"))
	require.True(t, ok)
	assert.Equal(t, scene.P("b", "translateX"), src)

	// The dependency graph follows the rename.
	require.NoError(t, s.Connect(scene.P("rev", "outputX"), scene.P("b", "visibility"), false))
	assert.ErrorIs(t, s.Connect(scene.P("rev", "outputY"), scene.P("b", "translateX"), false), scene.ErrCycle)
}

func TestDuplicate(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "grp", ""))
	require.NoError(t, s.CreateNode("joint", "a", "grp"))
	require.NoError(t, s.CreateNode("joint", "b", "a"))
	require.NoError(t, s.SetAttr(scene.P("a", "translate"), mgl64.Vec3{1, 2, 3}))
	require.NoError(t, s.AddAttr("a", scene.AttrSpec{Name: "tag", Kind: scene.KindString, Default: "hip"}))

	require.NoError(t, s.Duplicate("a", "aCopy"))
	assert.Equal(t, "grp", s.Parent("aCopy"))
	assert.Empty(t, s.Children("aCopy"))

	require.NoError(t, s.SetAttr(scene.P("aCopy", "translate"), mgl64.Vec3{}))
	require.NoError(t, s.SetAttr(scene.P("aCopy", "tag"), "knee"))

	v, err := s.GetAttr(scene.P("a", "translate"))
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, v)
	tag, err := s.GetAttr(scene.P("a", "tag"))
	require.NoError(t, err)
	assert.Equal(t, "hip", tag)
}

func TestSnapshot(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateNode("transform", "grp", ""))
	require.NoError(t, s.CreateNode("joint", "a", "grp"))
	require.NoError(t, s.CreateNode("reverse", "rev", ""))
	require.NoError(t, s.SetAttr(scene.P("a", "translate"), mgl64.Vec3{1, 2, 3}))
	require.NoError(t, s.SetAttrState(scene.P("a", "rotate"), scene.AttrState{Locked: true}))
	require.NoError(t, s.Connect(scene.P("a", "translateX"), scene.P("rev", "inputX"), false))

	doc := s.Snapshot()
	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, "grp", doc.Nodes[0].Name)
	assert.Equal(t, "a", doc.Nodes[1].Name)
	assert.Equal(t, "grp", doc.Nodes[1].Parent)
	assert.Equal(t, []float64{1, 2, 3}, doc.Nodes[1].Attrs["translate"])
	assert.Equal(t, []string{"rotate"}, doc.Nodes[1].Locked)
	assert.Equal(t, "rev", doc.Nodes[2].Name)
	assert.Equal(t, []ConnectionDoc{{Source: "a.translateX", Destination: "rev.inputX"}}, doc.Connections)
}
