package port

import (
	"context"
	"time"

	"github.com/pkanok/matstock/internal/core/domain"
)

// SupplyStore manages the single running balance per consumable,
// keyed by (sapid, description, unit).
type SupplyStore interface {
	// ReceiveMerge adds qty to the matching row, overwriting its
	// location with the latest value, or inserts a new row with the
	// default reorder point.
	ReceiveMerge(ctx context.Context, tx DBTX, key domain.ItemKey, qty int, receivedAt time.Time) error

	// AdjustQuantity applies delta; domain.ErrInsufficientStock if the
	// result would be negative, domain.ErrNotFound for an unknown id.
	AdjustQuantity(ctx context.Context, tx DBTX, id int64, delta int) error

	// DeductByKey subtracts qty conditional on qty being available.
	// The refused case affects zero rows and is reported as
	// domain.ErrInsufficientStock; callers resolve the row first, so
	// existence has already been established.
	DeductByKey(ctx context.Context, tx DBTX, sapid, description, unit string, qty int) error

	FindByKeyForUpdate(ctx context.Context, tx DBTX, sapid, description, unit string) (*domain.SupplyItem, error)

	// FindByDescriptionForUpdate is the deliberately permissive lookup
	// used by request fulfillment; supply descriptions are unique, so
	// description alone resolves the canonical row.
	FindByDescriptionForUpdate(ctx context.Context, tx DBTX, description string) (*domain.SupplyItem, error)

	ListSupplies(ctx context.Context, db DBTX) ([]domain.SupplyItem, error)

	Descriptions(ctx context.Context, db DBTX) ([]string, error)
}
