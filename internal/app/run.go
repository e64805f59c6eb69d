package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/export"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/rig"
)

// Run takes the character through every stage up to cfg.Stage, then
// exports the scene and prints the summary when asked to.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "stage", cfg.Stage)

	c, err := rig.Prepare(ctx, a.attrs, a.registry, configPrompter{character: a.model.Character})
	if err != nil {
		return fmt.Errorf("failed to prepare character: %w", err)
	}

	var builds []*limb.Build
	if cfg.Stage >= StageMarkers {
		if err := a.placeMarkers(ctx, c); err != nil {
			return fmt.Errorf("failed to place markers: %w", err)
		}
	}
	if cfg.Stage >= StageBuild {
		if builds, err = c.Build(ctx); err != nil {
			return fmt.Errorf("failed to build rig: %w", err)
		}
	}
	if cfg.Stage >= StageBind {
		if err := c.Bind(ctx); err != nil {
			return fmt.Errorf("failed to bind: %w", err)
		}
	}

	if cfg.OutPath != "" {
		if err := a.export(cfg.OutPath, cfg.Format); err != nil {
			return err
		}
		a.logger.Info("Exported scene.", "path", cfg.OutPath, "format", cfg.Format)
	}
	if cfg.Summary {
		a.printSummary(c, builds)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) export(path string, f export.Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	return export.Write(file, f, a.scene.Snapshot())
}
