package tx

import (
	"context"
	"sync"
	"time"

	dErrors "resa/pkg/domain-errors"
)

const defaultMemoryTxTimeout = 5 * time.Second

type memoryTxKey struct{}

// Memory serializes mutations for in-memory stores. It provides isolation
// but not rollback: writes made before fn fails stay applied. Nested calls
// on the same context join the outer run.
type Memory struct {
	mu      sync.Mutex
	timeout time.Duration
}

func NewMemory() *Memory {
	return &Memory{timeout: defaultMemoryTxTimeout}
}

func (m *Memory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if owner, _ := ctx.Value(memoryTxKey{}).(*Memory); owner == m {
		return fn(ctx)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(context.WithValue(ctx, memoryTxKey{}, m))
}
