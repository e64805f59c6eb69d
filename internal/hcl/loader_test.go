package hcl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/riggen/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

func TestLoad(t *testing.T) {
	ctx, _ := testutil.Context(t)
	dir := testutil.WriteFiles(t, map[string]string{
		"bob.hcl": `
character {
  name        = "big bob"
  initials    = "bb"
  layout_size = 30
}
`,
		"limbs/body.hcl": `
limb "TorsoSimple" "spine" {}

limb "Leg" "leg" {
  parent  = "bb_Pelvis_marker"
  options = {
    name     = "Leg"
    position = [10, 90, 0]
  }
}

marker "Tail" {
  side        = "left"
  position    = [0, 95, -10]
  parent      = "bb_Pelvis_marker"
  limb        = "Simple"
  symmetrical = true
}
`,
		"notes.txt": "ignored",
	})

	m, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)

	require.NotNil(t, m.Character)
	assert.Equal(t, "big bob", m.Character.Name)
	assert.Equal(t, "bb", m.Character.Initials)
	assert.Equal(t, 30.0, m.Character.LayoutSize)

	require.Len(t, m.Limbs, 2)
	assert.Equal(t, "TorsoSimple", m.Limbs[0].Type)
	assert.Equal(t, "spine", m.Limbs[0].Name)
	assert.Empty(t, m.Limbs[0].Options)

	leg := m.Limbs[1]
	assert.Equal(t, "Leg", leg.Type)
	assert.Equal(t, "bb_Pelvis_marker", leg.Parent)
	require.Contains(t, leg.Options, "name")
	assert.True(t, leg.Options["name"].RawEquals(cty.StringVal("Leg")))
	assert.Equal(t, 3, leg.Options["position"].LengthInt())

	require.Len(t, m.Markers, 1)
	tail := m.Markers[0]
	assert.Equal(t, "Tail", tail.Name)
	assert.Equal(t, "left", tail.Side)
	assert.Equal(t, [3]float64{0, 95, -10}, tail.Position)
	assert.Equal(t, "Simple", tail.Limb)
	assert.True(t, tail.Symmetrical)
}

func TestLoadSingleFileWithoutCharacter(t *testing.T) {
	ctx, _ := testutil.Context(t)
	dir := testutil.WriteFiles(t, map[string]string{"only.hcl": `marker "Root" {}`})

	m, err := NewLoader().Load(ctx, filepath.Join(dir, "only.hcl"))
	require.NoError(t, err)
	assert.Nil(t, m.Character)
	require.Len(t, m.Markers, 1)
	assert.Equal(t, [3]float64{}, m.Markers[0].Position)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "syntax",
			files:   map[string]string{"a.hcl": `character {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown block",
			files:   map[string]string{"a.hcl": `rig "x" {}`},
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "short position",
			files:   map[string]string{"a.hcl": `marker "Hip" { position = [1, 2] }`},
			wantErr: "position needs 3 components",
		},
		{
			name:    "options not an object",
			files:   map[string]string{"a.hcl": `limb "Simple" "tail" { options = "Tail" }`},
			wantErr: "expected an object",
		},
		{
			name: "two characters",
			files: map[string]string{
				"a.hcl": "character {\n  name = \"Bob\"\n  initials = \"bo\"\n}\n",
				"b.hcl": "character {\n  name = \"Alice\"\n  initials = \"al\"\n}\n",
			},
			wantErr: "character declared twice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			dir := testutil.WriteFiles(t, tt.files)
			_, err := NewLoader().Load(ctx, dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadPaths(t *testing.T) {
	ctx, _ := testutil.Context(t)

	_, err := NewLoader().Load(ctx, t.TempDir())
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = NewLoader().Load(ctx, filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
