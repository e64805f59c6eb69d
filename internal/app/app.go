package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/config"
	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/inmemoryscene"
	"github.com/vk/riggen/internal/limb"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *limb.Registry
	model    *config.Model
	scene    *inmemoryscene.Store
	attrs    *attr.Store
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, registry and
// empty scene.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...limb.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.CharacterPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	reg := limb.NewRegistry(logger)
	if len(modules) == 0 {
		modules = coreModules
	}
	reg.RegisterModules(modules...)
	logger.Debug("All limb modules registered.", "count", len(modules), "keys", reg.Keys())

	// Every limb the files ask for must be known before anything is built.
	for _, l := range model.Limbs {
		if _, err := reg.Lookup(l.Type); err != nil {
			panic(fmt.Errorf("limb %q: %w", l.Name, err))
		}
	}
	for _, m := range model.Markers {
		if m.Limb == "" {
			continue
		}
		if _, err := reg.Lookup(m.Limb); err != nil {
			panic(fmt.Errorf("marker %q: %w", m.Name, err))
		}
	}

	sc := inmemoryscene.New()
	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
		scene:    sc,
		attrs:    attr.New(sc),
	}
}

// Registry returns the application's limb registry. This is primarily for testing.
func (a *App) Registry() *limb.Registry {
	return a.registry
}

// Scene returns the scene the character is built in.
func (a *App) Scene() *inmemoryscene.Store {
	return a.scene
}
