package port

import (
	"context"

	"github.com/pkanok/matstock/internal/core/domain"
)

// RequestQueue holds material requests from submission until
// fulfillment.
type RequestQueue interface {
	Submit(ctx context.Context, tx DBTX, req domain.MaterialRequest) (int64, error)

	// LoadPendingForUpdate returns the request only while it is
	// pending, with its row locked. A processed or unknown id is
	// domain.ErrNotFound either way, which is what prevents double
	// fulfillment.
	LoadPendingForUpdate(ctx context.Context, tx DBTX, id int64) (*domain.MaterialRequest, error)

	// MarkProcessed finalizes the request with the quantity actually
	// issued.
	MarkProcessed(ctx context.Context, tx DBTX, id int64, fulfilledQty int) error

	// ListRequests returns every request, newest first.
	ListRequests(ctx context.Context, db DBTX) ([]domain.MaterialRequest, error)
}
