package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pkanok/matstock/internal/core/domain"
	"github.com/pkanok/matstock/internal/port"
)

const tagColumns = `id, sapid, description, material_group, qty, unit, location, created_at, archived`

type MySQLTagStore struct{}

func NewMySQLTagStore() *MySQLTagStore {
	return &MySQLTagStore{}
}

func scanTag(row interface{ Scan(...any) error }) (*domain.StockTag, error) {
	var t domain.StockTag
	err := row.Scan(&t.ID, &t.Key.SAPID, &t.Key.Description, &t.Group,
		&t.Quantity, &t.Key.Unit, &t.Key.Location, &t.CreatedAt, &t.Archived)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MySQLTagStore) FindActiveTagForUpdate(ctx context.Context, tx port.DBTX, key domain.ItemKey) (*domain.StockTag, error) {
	tag, err := scanTag(tx.QueryRowContext(ctx, `
		SELECT `+tagColumns+`
		FROM stock_tags
		WHERE sapid = ? AND description = ? AND unit = ? AND location = ? AND archived = 0
		ORDER BY created_at ASC, id ASC
		LIMIT 1
		FOR UPDATE`,
		key.SAPID, key.Description, key.Unit, key.Location,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active tag: %w", err)
	}
	return tag, nil
}

// ReceiveMerge matches archived rows too: a receive against a
// previously consumed key reactivates that tag instead of creating a
// duplicate.
func (s *MySQLTagStore) ReceiveMerge(ctx context.Context, tx port.DBTX, key domain.ItemKey, group domain.MaterialGroup, qty int, createdAt time.Time) error {
	if qty <= 0 {
		return domain.NewValidationError("qty", "must be greater than zero")
	}

	var id int64
	err := tx.QueryRowContext(ctx, `
		SELECT id
		FROM stock_tags
		WHERE sapid = ? AND description = ? AND unit = ? AND location = ?
		ORDER BY id ASC
		LIMIT 1
		FOR UPDATE`,
		key.SAPID, key.Description, key.Unit, key.Location,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stock_tags (sapid, description, material_group, qty, unit, location, created_at, archived)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
			key.SAPID, key.Description, string(group), qty, key.Unit, key.Location, createdAt,
		)
		if err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("find tag for merge: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE stock_tags SET qty = qty + ?, archived = 0 WHERE id = ?`,
		qty, id,
	)
	if err != nil {
		return fmt.Errorf("merge tag: %w", err)
	}
	return nil
}

func (s *MySQLTagStore) ArchiveAndZero(ctx context.Context, tx port.DBTX, id int64) error {
	if _, err := s.lockQuantity(ctx, tx, id); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE stock_tags SET qty = 0, archived = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("archive tag: %w", err)
	}
	return nil
}

func (s *MySQLTagStore) Hide(ctx context.Context, tx port.DBTX, id int64) error {
	if _, err := s.lockQuantity(ctx, tx, id); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE stock_tags SET archived = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("hide tag: %w", err)
	}
	return nil
}

func (s *MySQLTagStore) SetQuantityWithSplit(ctx context.Context, tx port.DBTX, id int64, newQty int, splitKey domain.ItemKey, group domain.MaterialGroup, splitAt time.Time) error {
	current, err := s.lockQuantity(ctx, tx, id)
	if err != nil {
		return err
	}

	if newQty <= 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE stock_tags SET qty = 0, archived = 1 WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("archive tag: %w", err)
		}
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE stock_tags SET qty = ? WHERE id = ?`, newQty, id)
	if err != nil {
		return fmt.Errorf("set tag qty: %w", err)
	}

	if newQty < current {
		// Remainder becomes its own active tag; the two quantities sum
		// to the original.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stock_tags (sapid, description, material_group, qty, unit, location, created_at, archived)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
			splitKey.SAPID, splitKey.Description, string(group), current-newQty,
			splitKey.Unit, splitKey.Location, splitAt,
		)
		if err != nil {
			return fmt.Errorf("insert split tag: %w", err)
		}
	}
	return nil
}

func (s *MySQLTagStore) DeductQuantity(ctx context.Context, tx port.DBTX, id int64, qty int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE stock_tags SET qty = qty - ? WHERE id = ? AND qty >= ?`,
		qty, id, qty,
	)
	if err != nil {
		return fmt.Errorf("deduct tag qty: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (s *MySQLTagStore) CurrentQuantity(ctx context.Context, tx port.DBTX, id int64) (int, error) {
	var qty int
	err := tx.QueryRowContext(ctx, `
		SELECT qty FROM stock_tags WHERE id = ?`, id).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read tag qty: %w", err)
	}
	return qty, nil
}

func (s *MySQLTagStore) lockQuantity(ctx context.Context, tx port.DBTX, id int64) (int, error) {
	var qty int
	err := tx.QueryRowContext(ctx, `
		SELECT qty FROM stock_tags WHERE id = ? FOR UPDATE`, id).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock tag: %w", err)
	}
	return qty, nil
}

func (s *MySQLTagStore) OldestActiveForUpdate(ctx context.Context, tx port.DBTX, sapid, unit, location string) (*domain.StockTag, error) {
	tag, err := scanTag(tx.QueryRowContext(ctx, `
		SELECT `+tagColumns+`
		FROM stock_tags
		WHERE sapid = ? AND unit = ? AND location = ? AND archived = 0
		ORDER BY created_at ASC, id ASC
		LIMIT 1
		FOR UPDATE`,
		sapid, unit, location,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find oldest active tag: %w", err)
	}
	return tag, nil
}

func (s *MySQLTagStore) ListTags(ctx context.Context, db port.DBTX) ([]domain.StockTag, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+tagColumns+`
		FROM stock_tags
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.StockTag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

func (s *MySQLTagStore) AggregateActive(ctx context.Context, db port.DBTX) ([]domain.StockSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT sapid, MAX(description), unit, location, material_group, SUM(qty)
		FROM stock_tags
		WHERE archived = 0
		GROUP BY sapid, unit, location, material_group
		ORDER BY sapid, unit, location`)
	if err != nil {
		return nil, fmt.Errorf("aggregate tags: %w", err)
	}
	defer rows.Close()

	var out []domain.StockSummary
	for rows.Next() {
		var sum domain.StockSummary
		if err := rows.Scan(&sum.SAPID, &sum.Description, &sum.Unit,
			&sum.Location, &sum.Group, &sum.Quantity); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *MySQLTagStore) Descriptions(ctx context.Context, db port.DBTX) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT description FROM stock_tags`)
	if err != nil {
		return nil, fmt.Errorf("tag descriptions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan description: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
