// Package tests holds reusable test suites for the ports interfaces.
package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/schemata/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunUniqueIndexContract runs a suite of tests to verify that a UniqueIndex
// implementation adheres to the interface contract.
func RunUniqueIndexContract(t *testing.T, index ports.UniqueIndex) {
	ctx := context.Background()
	scope := "Contract.email-" + time.Now().Format("20060102150405.000000000")

	t.Run("Claim and Exists", func(t *testing.T) {
		ok, err := index.Exists(ctx, scope, "a@example.com")
		require.NoError(t, err)
		assert.False(t, ok, "value should be free before Claim")

		claimed, err := index.Claim(ctx, scope, "a@example.com")
		require.NoError(t, err)
		assert.True(t, claimed)

		ok, err = index.Exists(ctx, scope, "a@example.com")
		require.NoError(t, err)
		assert.True(t, ok, "value should be taken after Claim")
	})

	t.Run("Claim Twice", func(t *testing.T) {
		_, err := index.Claim(ctx, scope, "twice")
		require.NoError(t, err)

		claimed, err := index.Claim(ctx, scope, "twice")
		require.NoError(t, err)
		assert.False(t, claimed, "second Claim must report the value as taken")
	})

	t.Run("Scopes Are Isolated", func(t *testing.T) {
		_, err := index.Claim(ctx, scope, "shared")
		require.NoError(t, err)

		ok, err := index.Exists(ctx, scope+"-other", "shared")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Release", func(t *testing.T) {
		_, err := index.Claim(ctx, scope, "gone")
		require.NoError(t, err)

		require.NoError(t, index.Release(ctx, scope, "gone"))
		ok, err := index.Exists(ctx, scope, "gone")
		require.NoError(t, err)
		assert.False(t, ok, "value should be free after Release")

		assert.NoError(t, index.Release(ctx, scope, "never-claimed"))
	})

	t.Run("Empty Value", func(t *testing.T) {
		_, err := index.Claim(ctx, scope, "")
		assert.ErrorIs(t, err, ports.ErrEmptyValue)
	})

	t.Run("Concurrent Claim", func(t *testing.T) {
		const workers = 8
		var wg sync.WaitGroup
		wins := make(chan bool, workers)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := index.Claim(ctx, scope, "race")
				assert.NoError(t, err)
				wins <- ok
			}()
		}
		wg.Wait()
		close(wins)

		won := 0
		for ok := range wins {
			if ok {
				won++
			}
		}
		assert.Equal(t, 1, won, "exactly one concurrent Claim must win")
	})
}
