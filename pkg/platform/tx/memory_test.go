package tx

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "resa/pkg/domain-errors"
)

func TestMemorySerializes(t *testing.T) {
	m := NewMemory()
	var (
		wg      sync.WaitGroup
		active  int
		maxSeen int
		mu      sync.Mutex
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.RunInTx(context.Background(), func(context.Context) error {
				mu.Lock()
				active++
				maxSeen = max(maxSeen, active)
				mu.Unlock()

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestMemoryNestedJoinsOuter(t *testing.T) {
	m := NewMemory()
	inner := false
	err := m.RunInTx(context.Background(), func(ctx context.Context) error {
		return m.RunInTx(ctx, func(context.Context) error {
			inner = true
			return nil
		})
	})
	require.NoError(t, err)
	assert.True(t, inner)
}

func TestMemoryPropagatesErrors(t *testing.T) {
	m := NewMemory()
	boom := errors.New("boom")
	assert.ErrorIs(t, m.RunInTx(context.Background(), func(context.Context) error { return boom }), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.RunInTx(ctx, func(context.Context) error { return nil })
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}
