package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkanok/matstock/internal/core/domain"
)

const (
	stockSummaryKey  = "dashboard:stock"
	supplySummaryKey = "dashboard:supplies"
	dashboardTTL     = 5 * time.Minute
)

// RedisAdapter caches the dashboard aggregations. It is a read-model
// convenience only: every mutation reads quantities from MySQL inside
// its transaction, and writers invalidate these keys after commit.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) GetStockSummary(ctx context.Context) ([]domain.StockSummary, bool, error) {
	var rows []domain.StockSummary
	ok, err := r.get(ctx, stockSummaryKey, &rows)
	return rows, ok, err
}

func (r *RedisAdapter) SetStockSummary(ctx context.Context, rows []domain.StockSummary) error {
	return r.set(ctx, stockSummaryKey, rows)
}

func (r *RedisAdapter) GetSupplySummary(ctx context.Context) ([]domain.SupplyItem, bool, error) {
	var rows []domain.SupplyItem
	ok, err := r.get(ctx, supplySummaryKey, &rows)
	return rows, ok, err
}

func (r *RedisAdapter) SetSupplySummary(ctx context.Context, rows []domain.SupplyItem) error {
	return r.set(ctx, supplySummaryKey, rows)
}

func (r *RedisAdapter) InvalidateStock(ctx context.Context) error {
	return r.client.Del(ctx, stockSummaryKey).Err()
}

func (r *RedisAdapter) InvalidateSupplies(ctx context.Context) error {
	return r.client.Del(ctx, supplySummaryKey).Err()
}

func (r *RedisAdapter) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisAdapter) set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, raw, dashboardTTL).Err()
}
