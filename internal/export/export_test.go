package export

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/riggen/internal/inmemoryscene"
	"github.com/vk/riggen/internal/scene"
)

func sampleDoc(t *testing.T) inmemoryscene.Document {
	t.Helper()
	s := inmemoryscene.New()
	require.NoError(t, s.CreateNode("transform", "bo_Controls_grp", ""))
	require.NoError(t, s.CreateNode("transform", "bo_Layout_control", "bo_Controls_grp"))
	require.NoError(t, s.CreateNode("reverse", "bo_l_Leg_reverse", ""))
	require.NoError(t, s.AddAttr("bo_Layout_control", scene.AttrSpec{Name: "ik", Kind: scene.KindEnum, Enum: []string{"FK", "IK"}}))
	require.NoError(t, s.SetAttr(scene.P("bo_Layout_control", "translate"), mgl64.Vec3{1, 2, 3}))
	require.NoError(t, s.Connect(scene.P("bo_Layout_control", "ik"), scene.P("bo_l_Leg_reverse", "inputX"), false))
	return s.Snapshot()
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": JSON, "YAML": YAML, "yml": YAML, "msgpack": MsgPack} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteRead(t *testing.T) {
	doc := sampleDoc(t)
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, f, doc))
			require.NotZero(t, buf.Len())

			got, err := Read(&buf, f)
			require.NoError(t, err)
			require.Len(t, got.Nodes, len(doc.Nodes))
			for i, n := range doc.Nodes {
				assert.Equal(t, n.Name, got.Nodes[i].Name)
				assert.Equal(t, n.Type, got.Nodes[i].Type)
				assert.Equal(t, n.Parent, got.Nodes[i].Parent)
			}
			assert.Equal(t, doc.Connections, got.Connections)
		})
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, sampleDoc(t)))
	out := buf.String()
	assert.Contains(t, out, `"parent": "bo_Controls_grp"`)
	assert.Contains(t, out, `"source": "bo_Layout_control.ik"`)
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, "xml", inmemoryscene.Document{}), ErrUnknownFormat)
	_, err := Read(&buf, "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
