package app

import (
	"errors"
	"fmt"

	"github.com/vk/riggen/internal/export"
)

// Stage is how far a run takes the character. Every stage includes the
// ones before it.
type Stage int

const (
	StagePrepare Stage = iota
	StageMarkers
	StageBuild
	StageBind
)

var stageNames = []string{"prepare", "markers", "build", "bind"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// ParseStage maps a stage name to its Stage.
func ParseStage(s string) (Stage, error) {
	for i, name := range stageNames {
		if name == s {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q: must be one of %v", s, stageNames)
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CharacterPath string // hcl file or directory
	Stage         Stage

	// OutPath receives the scene snapshot; empty skips the export.
	OutPath string
	Format  export.Format
	Summary bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.CharacterPath == "" {
		return nil, errors.New("CharacterPath is a required configuration field and cannot be empty")
	}
	if cfg.Stage < StagePrepare || cfg.Stage > StageBind {
		return nil, fmt.Errorf("invalid stage %d", int(cfg.Stage))
	}
	if cfg.Format == "" {
		cfg.Format = export.JSON
	}
	if _, err := export.ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}
	return &cfg, nil
}
