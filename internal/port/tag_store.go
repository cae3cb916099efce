package port

import (
	"context"
	"time"

	"github.com/pkanok/matstock/internal/core/domain"
)

// TagStore manages batch-level stock tags. Methods that feed a write
// lock the rows they read for the rest of the transaction.
type TagStore interface {
	// FindActiveTagForUpdate returns the oldest non-archived tag
	// matching the full item key, or nil if none.
	FindActiveTagForUpdate(ctx context.Context, tx DBTX, key domain.ItemKey) (*domain.StockTag, error)

	// ReceiveMerge adds qty to the tag matching key, reactivating it
	// if it was archived, or creates a new active tag when no match
	// exists.
	ReceiveMerge(ctx context.Context, tx DBTX, key domain.ItemKey, group domain.MaterialGroup, qty int, createdAt time.Time) error

	// ArchiveAndZero logically consumes the tag: quantity 0, archived.
	ArchiveAndZero(ctx context.Context, tx DBTX, id int64) error

	// Hide archives the tag without touching its quantity. The tag
	// disappears from listings and aggregation but its quantity is
	// retained for conservation bookkeeping.
	Hide(ctx context.Context, tx DBTX, id int64) error

	// SetQuantityWithSplit sets the tag to newQty. A reduction below
	// the current quantity splits the remainder into a new active tag
	// under splitKey; newQty <= 0 archives and zeroes instead. The two
	// resulting quantities always sum to the original.
	SetQuantityWithSplit(ctx context.Context, tx DBTX, id int64, newQty int, splitKey domain.ItemKey, group domain.MaterialGroup, splitAt time.Time) error

	// DeductQuantity removes qty conditional on qty remaining
	// non-negative; domain.ErrInsufficientStock otherwise.
	DeductQuantity(ctx context.Context, tx DBTX, id int64, qty int) error

	CurrentQuantity(ctx context.Context, tx DBTX, id int64) (int, error)

	// OldestActiveForUpdate resolves the deduction target for a
	// transfer: the earliest-created active tag for
	// (sapid, unit, location), or nil if none.
	OldestActiveForUpdate(ctx context.Context, tx DBTX, sapid, unit, location string) (*domain.StockTag, error)

	// ListTags returns every tag, archived included, newest first.
	ListTags(ctx context.Context, db DBTX) ([]domain.StockTag, error)

	// AggregateActive sums active tag quantities per
	// (sapid, unit, location, group).
	AggregateActive(ctx context.Context, db DBTX) ([]domain.StockSummary, error)

	Descriptions(ctx context.Context, db DBTX) ([]string, error)
}
