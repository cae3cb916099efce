package service

import (
	"context"
	"sort"

	"github.com/pkanok/matstock/internal/core/domain"
)

// Reporting reads. These run outside any transaction and may serve the
// dashboard aggregations from cache; they never feed a mutation.

func (s *StockService) StockDashboard(ctx context.Context) ([]domain.StockSummary, error) {
	rows, ok, err := s.cache.GetStockSummary(ctx)
	if err != nil {
		s.log.WithError(err).Warn("stock dashboard cache read failed")
	} else if ok {
		return rows, nil
	}

	rows, err = s.tags.AggregateActive(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetStockSummary(ctx, rows); err != nil {
		s.log.WithError(err).Warn("stock dashboard cache write failed")
	}
	return rows, nil
}

func (s *StockService) SuppliesDashboard(ctx context.Context) ([]domain.SupplyItem, error) {
	rows, ok, err := s.cache.GetSupplySummary(ctx)
	if err != nil {
		s.log.WithError(err).Warn("supply dashboard cache read failed")
	} else if ok {
		return rows, nil
	}

	rows, err = s.supplies.ListSupplies(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetSupplySummary(ctx, rows); err != nil {
		s.log.WithError(err).Warn("supply dashboard cache write failed")
	}
	return rows, nil
}

func (s *StockService) RawTags(ctx context.Context) ([]domain.StockTag, error) {
	return s.tags.ListTags(ctx, s.db)
}

func (s *StockService) Movements(ctx context.Context) ([]domain.Movement, error) {
	return s.ledger.ListMovements(ctx, s.db)
}

func (s *StockService) PendingRequests(ctx context.Context) ([]domain.MaterialRequest, error) {
	return s.requests.ListRequests(ctx, s.db)
}

// Descriptions returns every distinct description across tags and
// supplies, sorted, for datalist suggestions.
func (s *StockService) Descriptions(ctx context.Context) ([]string, error) {
	tagDescs, err := s.tags.Descriptions(ctx, s.db)
	if err != nil {
		return nil, err
	}
	supplyDescs, err := s.supplies.Descriptions(ctx, s.db)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(tagDescs)+len(supplyDescs))
	var out []string
	for _, d := range append(tagDescs, supplyDescs...) {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

// WarmDashboards refreshes both dashboard caches; used by the
// background warmer in cmd/server.
func (s *StockService) WarmDashboards(ctx context.Context) {
	if err := s.cache.InvalidateStock(ctx); err == nil {
		if _, err := s.StockDashboard(ctx); err != nil {
			s.log.WithError(err).Warn("stock dashboard warm failed")
		}
	}
	if err := s.cache.InvalidateSupplies(ctx); err == nil {
		if _, err := s.SuppliesDashboard(ctx); err != nil {
			s.log.WithError(err).Warn("supply dashboard warm failed")
		}
	}
}
