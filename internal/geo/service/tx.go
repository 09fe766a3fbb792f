package service

import (
	"context"
)

// StoreTx provides a transactional boundary for province and city mutations.
// Implementations may wrap a database transaction or an in-memory lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
