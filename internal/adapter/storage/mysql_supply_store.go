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

const supplyColumns = `id, sapid, description, qty, unit, location, reorder_point, created_at`

type MySQLSupplyStore struct{}

func NewMySQLSupplyStore() *MySQLSupplyStore {
	return &MySQLSupplyStore{}
}

func scanSupply(row interface{ Scan(...any) error }) (*domain.SupplyItem, error) {
	var s domain.SupplyItem
	err := row.Scan(&s.ID, &s.SAPID, &s.Description, &s.Quantity,
		&s.Unit, &s.Location, &s.ReorderPoint, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *MySQLSupplyStore) ReceiveMerge(ctx context.Context, tx port.DBTX, key domain.ItemKey, qty int, receivedAt time.Time) error {
	if qty <= 0 {
		return domain.NewValidationError("qty", "must be greater than zero")
	}

	var id int64
	err := tx.QueryRowContext(ctx, `
		SELECT id
		FROM supplies
		WHERE sapid = ? AND description = ? AND unit = ?
		LIMIT 1
		FOR UPDATE`,
		key.SAPID, key.Description, key.Unit,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO supplies (sapid, description, qty, unit, location, reorder_point, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			key.SAPID, key.Description, qty, key.Unit, key.Location,
			domain.DefaultReorderPoint, receivedAt,
		)
		if err != nil {
			return fmt.Errorf("insert supply: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("find supply for merge: %w", err)
	}

	// Location is last-known only; each receive overwrites it.
	_, err = tx.ExecContext(ctx, `
		UPDATE supplies SET qty = qty + ?, location = ? WHERE id = ?`,
		qty, key.Location, id,
	)
	if err != nil {
		return fmt.Errorf("merge supply: %w", err)
	}
	return nil
}

func (s *MySQLSupplyStore) AdjustQuantity(ctx context.Context, tx port.DBTX, id int64, delta int) error {
	var current int
	err := tx.QueryRowContext(ctx, `
		SELECT qty FROM supplies WHERE id = ? FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock supply: %w", err)
	}

	if current+delta < 0 {
		return domain.ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE supplies SET qty = ? WHERE id = ?`, current+delta, id)
	if err != nil {
		return fmt.Errorf("adjust supply qty: %w", err)
	}
	return nil
}

func (s *MySQLSupplyStore) DeductByKey(ctx context.Context, tx port.DBTX, sapid, description, unit string, qty int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE supplies
		SET qty = qty - ?
		WHERE sapid = ? AND description = ? AND unit = ? AND qty >= ?`,
		qty, sapid, description, unit, qty,
	)
	if err != nil {
		return fmt.Errorf("deduct supply qty: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (s *MySQLSupplyStore) FindByKeyForUpdate(ctx context.Context, tx port.DBTX, sapid, description, unit string) (*domain.SupplyItem, error) {
	item, err := scanSupply(tx.QueryRowContext(ctx, `
		SELECT `+supplyColumns+`
		FROM supplies
		WHERE sapid = ? AND description = ? AND unit = ?
		LIMIT 1
		FOR UPDATE`,
		sapid, description, unit,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find supply: %w", err)
	}
	return item, nil
}

func (s *MySQLSupplyStore) FindByDescriptionForUpdate(ctx context.Context, tx port.DBTX, description string) (*domain.SupplyItem, error) {
	item, err := scanSupply(tx.QueryRowContext(ctx, `
		SELECT `+supplyColumns+`
		FROM supplies
		WHERE description = ?
		LIMIT 1
		FOR UPDATE`,
		description,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find supply by description: %w", err)
	}
	return item, nil
}

func (s *MySQLSupplyStore) ListSupplies(ctx context.Context, db port.DBTX) ([]domain.SupplyItem, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+supplyColumns+`
		FROM supplies
		ORDER BY sapid, unit`)
	if err != nil {
		return nil, fmt.Errorf("list supplies: %w", err)
	}
	defer rows.Close()

	var out []domain.SupplyItem
	for rows.Next() {
		item, err := scanSupply(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supply: %w", err)
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

func (s *MySQLSupplyStore) Descriptions(ctx context.Context, db port.DBTX) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT description FROM supplies`)
	if err != nil {
		return nil, fmt.Errorf("supply descriptions: %w", err)
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
