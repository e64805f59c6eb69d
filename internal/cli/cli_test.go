package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/riggen/internal/app"
	"github.com/vk/riggen/internal/export"
)

func TestParse(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-stage", "bind", "-out", "bob.yaml", "-format", "yml", "-summary", "-log-level", "DEBUG", "bob.hcl"}, &out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, &app.Config{
		CharacterPath: "bob.hcl",
		Stage:         app.StageBind,
		OutPath:       "bob.yaml",
		Format:        export.YAML,
		Summary:       true,
		LogFormat:     "text",
		LogLevel:      "debug",
	}, cfg)
}

func TestParseDefaults(t *testing.T) {
	cfg, exit, err := Parse([]string{"characters/"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, app.StageBuild, cfg.Stage)
	assert.Equal(t, export.JSON, cfg.Format)
	assert.Empty(t, cfg.OutPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseCleanExit(t *testing.T) {
	for name, args := range map[string][]string{"help": {"-h"}, "no path": {}} {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, exit, err := Parse(args, &out)
			require.NoError(t, err)
			assert.True(t, exit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), "riggen [options] CHARACTER_PATH")
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-workers", "3", "bob.hcl"}, "flag provided but not defined"},
		{"stage", []string{"-stage", "skin", "bob.hcl"}, "unknown stage"},
		{"format", []string{"-format", "xml", "bob.hcl"}, "unknown export format"},
		{"log format", []string{"-log-format", "xml", "bob.hcl"}, "invalid log-format"},
		{"log level", []string{"-log-level", "loud", "bob.hcl"}, "invalid log-level"},
		{"two paths", []string{"a.hcl", "b.hcl"}, "expected one character path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, exit, err := Parse(tt.args, &bytes.Buffer{})
			assert.False(t, exit)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tt.want)
		})
	}
}
