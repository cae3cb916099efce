package port

import (
	"context"

	"github.com/pkanok/matstock/internal/core/domain"
)

// LedgerStore is the append-only movement journal. Rows are inserted
// inside the caller's transaction and never touched again.
type LedgerStore interface {
	Append(ctx context.Context, tx DBTX, m domain.Movement) error

	// ListMovements returns the journal newest first.
	ListMovements(ctx context.Context, db DBTX) ([]domain.Movement, error)
}
