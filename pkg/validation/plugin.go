package validation

import (
	"log/slog"
	"time"

	"github.com/aretw0/schemata/pkg/schema"
)

// PluginID identifies the validation plugin in a registry.
const PluginID = "validation"

const extensionKey = "validation.engine"

// Hooks observe validation runs. Both callbacks are optional and may be
// called from any goroutine.
type Hooks struct {
	// OnFieldSettled is called once per field when its whole chain has reported.
	OnFieldSettled func(schemaName, field string, codes []string, elapsed time.Duration)
	// OnComplete is called once per run, before the result is published.
	OnComplete func(schemaName string, valid bool, elapsed time.Duration)
}

// Config configures the validation plugin.
type Config struct {
	// Logger defaults to the registry logger.
	Logger *slog.Logger
	Hooks  Hooks
}

// Plugin returns the plugin that compiles validator chains for every schema
// the registry builds. A Config passed as the Use config value replaces cfg.
func Plugin(cfg Config) schema.Plugin {
	return schema.NewPlugin(PluginID, func(r *schema.Registry, config any) error {
		conf := cfg
		switch c := config.(type) {
		case Config:
			conf = c
		case *Config:
			if c != nil {
				conf = *c
			}
		}
		logger := conf.Logger
		if logger == nil {
			logger = r.Logger()
		}
		hooks := conf.Hooks

		r.AddStage(PluginID, func(s *schema.Schema) error {
			chains, err := compileChains(s)
			if err != nil {
				return err
			}
			s.SetExtension(extensionKey, &engine{
				chains: chains,
				logger: logger,
				hooks:  hooks,
			})
			return nil
		})
		return nil
	})
}

func engineOf(s *schema.Schema) (*engine, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.Extension(extensionKey)
	if !ok {
		return nil, false
	}
	eng, ok := v.(*engine)
	return eng, ok
}
