package schema

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/schemata/internal/logging"
)

// Stage is one step of schema construction. Stages run in registration
// order, after the definition has been compiled.
type Stage func(s *Schema) error

// Plugin extends a Registry. Install typically registers construction
// stages and may attach data to schemas through Schema.SetExtension.
type Plugin interface {
	// ID identifies the plugin; a registry applies each ID at most once.
	ID() string
	Install(r *Registry, config any) error
}

type pluginFunc struct {
	id string
	fn func(r *Registry, config any) error
}

func (p pluginFunc) ID() string                            { return p.id }
func (p pluginFunc) Install(r *Registry, config any) error { return p.fn(r, config) }

// NewPlugin adapts a function into a Plugin.
func NewPlugin(id string, install func(r *Registry, config any) error) Plugin {
	return pluginFunc{id: id, fn: install}
}

type namedStage struct {
	name string
	run  Stage
}

// Registry builds schemas through an ordered pipeline of stages contributed
// by plugins. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	applied map[string]struct{}
	stages  []namedStage
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for construction events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a registry with no plugins applied.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		applied: make(map[string]struct{}),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Logger returns the registry logger, for use by plugins.
func (r *Registry) Logger() *slog.Logger {
	return r.logger
}

// Use applies plugin with config. Applying a plugin ID that was already
// applied is a no-op. A failed install leaves the plugin unapplied.
func (r *Registry) Use(plugin Plugin, config any) error {
	id := plugin.ID()

	r.mu.Lock()
	if _, ok := r.applied[id]; ok {
		r.mu.Unlock()
		r.logger.Debug("plugin already applied", "plugin", id)
		return nil
	}
	r.applied[id] = struct{}{}
	r.mu.Unlock()

	if err := plugin.Install(r, config); err != nil {
		r.mu.Lock()
		delete(r.applied, id)
		r.mu.Unlock()
		return fmt.Errorf("install plugin %s: %w", id, err)
	}

	r.logger.Debug("plugin applied", "plugin", id)
	return nil
}

// Applied reports whether a plugin ID has been applied.
func (r *Registry) Applied(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.applied[id]
	return ok
}

// AddStage appends a construction stage. Schemas built before the call are
// not affected.
func (r *Registry) AddStage(name string, stage Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, namedStage{name: name, run: stage})
}

// New compiles def and runs every construction stage. An empty name
// defaults to AnonymousName.
func (r *Registry) New(name string, def *Definition) (*Schema, error) {
	if name == "" {
		name = AnonymousName
	}

	compiled, err := Compile(def)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	s := &Schema{
		name:       name,
		registry:   r,
		fields:     compiled.Fields,
		definition: compiled.Definition,
		types:      compiled.Types,
		specs:      compiled.Specs,
		ext:        make(map[string]any),
	}

	r.mu.RLock()
	stages := append([]namedStage(nil), r.stages...)
	r.mu.RUnlock()

	for _, st := range stages {
		if err := st.run(s); err != nil {
			return nil, fmt.Errorf("schema %s: stage %s: %w", name, st.name, err)
		}
	}

	r.logger.Debug("schema built", "schema", name, "fields", len(s.fields), "stages", len(stages))
	return s, nil
}

var defaultRegistry = NewRegistry()

// Default returns the package-level registry used by New and Use.
func Default() *Registry {
	return defaultRegistry
}

// New builds a schema on the default registry.
func New(name string, def *Definition) (*Schema, error) {
	return defaultRegistry.New(name, def)
}

// Use applies a plugin to the default registry.
func Use(plugin Plugin, config any) error {
	return defaultRegistry.Use(plugin, config)
}
