package memory

import (
	"context"
	"sync"

	"github.com/aretw0/schemata/pkg/ports"
)

// Index implements ports.UniqueIndex in memory.
// Safe for concurrent use.
type Index struct {
	scopes map[string]map[string]struct{}
	mu     sync.RWMutex
}

// NewIndex creates an empty in-memory index. Values may be seeded per scope.
func NewIndex() *Index {
	return &Index{
		scopes: make(map[string]map[string]struct{}),
	}
}

// Exists reports whether value is taken in scope.
func (i *Index) Exists(ctx context.Context, scope, value string) (bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	_, ok := i.scopes[scope][value]
	return ok, nil
}

// Claim marks value as taken, returning false if it already was.
func (i *Index) Claim(ctx context.Context, scope, value string) (bool, error) {
	if value == "" {
		return false, ports.ErrEmptyValue
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	values, ok := i.scopes[scope]
	if !ok {
		values = make(map[string]struct{})
		i.scopes[scope] = values
	}
	if _, taken := values[value]; taken {
		return false, nil
	}
	values[value] = struct{}{}
	return true, nil
}

// Release frees value.
func (i *Index) Release(ctx context.Context, scope, value string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.scopes[scope], value)
	return nil
}

// Seed claims every value of values in scope, ignoring those already taken.
func (i *Index) Seed(scope string, values ...string) {
	for _, v := range values {
		_, _ = i.Claim(context.Background(), scope, v)
	}
}
