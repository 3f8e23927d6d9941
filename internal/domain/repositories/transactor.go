package repositories

import (
	"context"
)

// Transactor runs fn inside a single database transaction. Repository calls
// made with the ctx passed to fn join that transaction; if fn returns an
// error the transaction rolls back, otherwise it commits. This is the atomic
// unit that keeps a booking and its outbox entry inseparable.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
