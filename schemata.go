package schemata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/schemata/internal/logging"
	"github.com/aretw0/schemata/pkg/adapters/memory"
	"github.com/aretw0/schemata/pkg/loader"
	"github.com/aretw0/schemata/pkg/observability"
	"github.com/aretw0/schemata/pkg/ports"
	"github.com/aretw0/schemata/pkg/schema"
	"github.com/aretw0/schemata/pkg/validation"
)

// Version is the library and CLI version.
const Version = "0.3.0"

// Catalog is a named collection of schemas sharing one registry, with the
// validation capability attached.
type Catalog struct {
	registry *schema.Registry
	index    ports.UniqueIndex
	metrics  *observability.Metrics
	hooks    validation.Hooks
	logger   *slog.Logger

	schemas map[string]*schema.Schema
	parents map[string]string
	uniques map[string][]uniqueField // own and inherited, per schema
	order   []string
}

type uniqueField struct {
	field string
	scope string
}

// Option defines a functional option for configuring the Catalog.
type Option func(*Catalog)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithIndex sets the index backing unique fields (default: in memory).
func WithIndex(index ports.UniqueIndex) Option {
	return func(c *Catalog) {
		c.index = index
	}
}

// WithMetrics records every validation run into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Catalog) {
		c.metrics = m
	}
}

// WithHooks registers validation hooks.
func WithHooks(hooks validation.Hooks) Option {
	return func(c *Catalog) {
		c.hooks = hooks
	}
}

// New creates an empty catalog.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{
		schemas: make(map[string]*schema.Schema),
		parents: make(map[string]string),
		uniques: make(map[string][]uniqueField),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.index == nil {
		c.index = memory.NewIndex()
	}

	hooks := c.hooks
	if c.metrics != nil {
		hooks = c.metrics.Hooks(hooks)
	}

	c.registry = schema.NewRegistry(schema.WithLogger(c.logger))
	if err := c.registry.Use(validation.Plugin(validation.Config{Logger: c.logger, Hooks: hooks}), nil); err != nil {
		return nil, err
	}
	return c, nil
}

// Load builds every schema found in dir. Parents are built before the
// schemas that extend them.
func Load(dir string, opts ...Option) (*Catalog, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	docs, err := loader.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if _, err := c.Add(doc); err != nil {
			return nil, err
		}
	}
	c.logger.Info("schemas loaded", "dir", dir, "count", len(c.order))
	return c, nil
}

// Add builds the schema described by doc. A parent named by doc.Extends must
// already be in the catalog. Fields marked unique get a Unique validator
// scoped to "<schema>.<field>".
func (c *Catalog) Add(doc *loader.Document) (*schema.Schema, error) {
	if _, ok := c.schemas[doc.Name]; ok {
		return nil, fmt.Errorf("%w: %s", loader.ErrDuplicateName, doc.Name)
	}

	def := doc.Fields.Clone()
	uniques := append([]uniqueField(nil), c.uniques[doc.Extends]...)
	for _, field := range doc.Unique() {
		entry, _ := def.Get(field)
		spec := entry.(schema.Spec)
		delete(spec, loader.KeyUnique)
		unique := validation.Unique(c.index, doc.Name+"."+field, validation.WithUniqueLogger(c.logger))
		spec[schema.KeyValidate] = append(listOf(spec[schema.KeyValidate]), unique)
		uniques = append(uniques, uniqueField{field: field, scope: doc.Name + "." + field})
	}

	var (
		s   *schema.Schema
		err error
	)
	if doc.Extends != "" {
		parent, ok := c.schemas[doc.Extends]
		if !ok {
			return nil, fmt.Errorf("%w: %s extends %s", loader.ErrUnknownParent, doc.Name, doc.Extends)
		}
		s, err = parent.Extend(doc.Name, def)
	} else {
		s, err = c.registry.New(doc.Name, def)
	}
	if err != nil {
		return nil, err
	}

	c.schemas[doc.Name] = s
	c.parents[doc.Name] = doc.Extends
	c.uniques[doc.Name] = uniques
	c.order = append(c.order, doc.Name)
	c.logger.Debug("schema added", "schema", doc.Name, "extends", doc.Extends, "fields", len(s.Fields()))
	return s, nil
}

// Schema returns a schema by name.
func (c *Catalog) Schema(name string) (*schema.Schema, bool) {
	s, ok := c.schemas[name]
	return s, ok
}

// Parent returns the name of the schema name extends, or "".
func (c *Catalog) Parent(name string) string {
	return c.parents[name]
}

// Names returns the schema names in the order they were added.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Registry returns the registry every catalog schema is built with.
func (c *Catalog) Registry() *schema.Registry {
	return c.registry
}

// Index returns the index backing unique fields.
func (c *Catalog) Index() ports.UniqueIndex {
	return c.index
}

// Validate validates model against the named schema and waits for the result.
// A failed validation returns the result and a *validation.FailedError.
func (c *Catalog) Validate(ctx context.Context, name string, model any) (*validation.Result, error) {
	s, ok := c.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	p, err := validation.Validate(ctx, s, model, nil)
	if err != nil {
		return nil, err
	}
	return p.Wait(ctx)
}

// Claim marks the values of model's unique fields as taken in the catalog
// index, so that later records repeating them fail validation. It is meant for
// records that passed Validate. When a value was taken in the meantime, the
// values claimed so far are released and the error wraps ErrValueTaken.
func (c *Catalog) Claim(ctx context.Context, name string, model any) error {
	if _, ok := c.schemas[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	rec, err := schema.ToRecord(model)
	if err != nil {
		return err
	}

	type claim struct{ scope, value string }
	var claimed []claim
	rollback := func() {
		for _, cl := range claimed {
			if err := c.index.Release(ctx, cl.scope, cl.value); err != nil {
				c.logger.Warn("failed to release unique value", "scope", cl.scope, "error", err)
			}
		}
	}

	for _, u := range c.uniques[name] {
		v, ok := rec[u.field]
		if !ok || v == nil {
			continue
		}
		value := fmt.Sprint(v)
		if value == "" {
			continue
		}
		won, err := c.index.Claim(ctx, u.scope, value)
		if err != nil {
			rollback()
			return fmt.Errorf("failed to claim %s: %w", u.field, err)
		}
		if !won {
			rollback()
			return fmt.Errorf("%w: %s=%s", ErrValueTaken, u.field, value)
		}
		claimed = append(claimed, claim{scope: u.scope, value: value})
	}
	c.logger.Debug("unique values claimed", "schema", name, "count", len(claimed))
	return nil
}

func listOf(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}
