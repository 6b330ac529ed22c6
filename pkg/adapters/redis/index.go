package redis

import (
	"context"
	"fmt"

	"github.com/aretw0/schemata/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix is prepended to every scope key.
const DefaultPrefix = "schemata:unique:"

// Index implements ports.UniqueIndex with one Redis set per scope.
type Index struct {
	client *backend.Client
	prefix string
}

type Option func(*Index)

// WithPrefix sets the key prefix for scopes.
func WithPrefix(prefix string) Option {
	return func(i *Index) {
		i.prefix = prefix
	}
}

// New creates a new Redis index with options.
func New(address, password string, db int, opts ...Option) *Index {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis index from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Index {
	idx := &Index{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(idx)
	}

	return idx
}

func (i *Index) key(scope string) string {
	return i.prefix + scope
}

// Exists reports whether value is a member of the scope set.
func (i *Index) Exists(ctx context.Context, scope, value string) (bool, error) {
	ok, err := i.client.SIsMember(ctx, i.key(scope), value).Result()
	if err != nil {
		return false, fmt.Errorf("failed to query redis index: %w", err)
	}
	return ok, nil
}

// Claim adds value to the scope set. SADD is atomic, so only one of several
// concurrent claims of the same value reports true.
func (i *Index) Claim(ctx context.Context, scope, value string) (bool, error) {
	if value == "" {
		return false, ports.ErrEmptyValue
	}
	added, err := i.client.SAdd(ctx, i.key(scope), value).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim in redis index: %w", err)
	}
	return added == 1, nil
}

// Release removes value from the scope set.
func (i *Index) Release(ctx context.Context, scope, value string) error {
	if err := i.client.SRem(ctx, i.key(scope), value).Err(); err != nil {
		return fmt.Errorf("failed to release in redis index: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (i *Index) Close() error {
	return i.client.Close()
}
