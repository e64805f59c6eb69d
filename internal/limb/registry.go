package limb

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/samber/lo"
)

// Module is the interface every limb package implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Factory returns a fresh generator for one build.
type Factory func() Limb

// Registry maps generator keys to factories.
type Registry struct {
	logger    *slog.Logger
	factories map[string]Factory
}

// NewRegistry returns an empty Registry that logs to logger, or to the
// default logger when nil.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger, factories: make(map[string]Factory)}
}

// Register adds a factory. A duplicate key replaces the earlier factory.
func (r *Registry) Register(key string, f Factory) {
	if _, exists := r.factories[key]; exists {
		r.logger.Warn("Limb type already exists, overriding.", "key", key)
	}
	r.logger.Debug("Registering limb generator.", "key", key)
	r.factories[key] = f
}

// RegisterModules lets every module add its generators.
func (r *Registry) RegisterModules(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// Lookup returns the factory registered under key.
func (r *Registry) Lookup(key string) (Factory, error) {
	f, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLimb, key)
	}
	return f, nil
}

// Keys lists the registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := lo.Keys(r.factories)
	slices.Sort(keys)
	return keys
}
