package port

import (
	"context"

	"github.com/pkanok/matstock/internal/core/domain"
)

// DashboardCache caches the two dashboard aggregations. It backs the
// read-only reporting endpoints only; mutations always read quantities
// from the store inside their transaction.
type DashboardCache interface {
	GetStockSummary(ctx context.Context) ([]domain.StockSummary, bool, error)
	SetStockSummary(ctx context.Context, rows []domain.StockSummary) error
	GetSupplySummary(ctx context.Context) ([]domain.SupplyItem, bool, error)
	SetSupplySummary(ctx context.Context, rows []domain.SupplyItem) error
	InvalidateStock(ctx context.Context) error
	InvalidateSupplies(ctx context.Context) error
}
