package validation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/schemata/internal/logging"
	"github.com/aretw0/schemata/pkg/ports"
	"github.com/aretw0/schemata/pkg/schema"
)

// UniqueOption configures Unique.
type UniqueOption func(*uniqueConfig)

type uniqueConfig struct {
	logger *slog.Logger
}

// WithUniqueLogger sets the logger that receives index errors.
func WithUniqueLogger(logger *slog.Logger) UniqueOption {
	return func(c *uniqueConfig) {
		c.logger = logger
	}
}

// Unique returns an async validator that fails with CodeUnique when the value
// is already taken in scope. Missing values pass. Index errors are logged and
// reported as CodeUnique.
func Unique(index ports.UniqueIndex, scope string, opts ...UniqueOption) Validator {
	cfg := uniqueConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return Async(CodeUnique, func(ctx context.Context, v any, _ schema.Record, done func(string)) {
		if isMissing(v) {
			done("")
			return
		}
		go func() {
			taken, err := index.Exists(ctx, scope, fmt.Sprint(v))
			if err != nil {
				cfg.logger.Warn("unique index lookup failed", "scope", scope, "error", err)
				done(CodeUnique)
				return
			}
			if taken {
				done(CodeUnique)
				return
			}
			done("")
		}()
	})
}
