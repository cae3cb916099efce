package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkanok/matstock/internal/core/domain"
	"github.com/pkanok/matstock/internal/port"
)

type MySQLLedgerStore struct{}

func NewMySQLLedgerStore() *MySQLLedgerStore {
	return &MySQLLedgerStore{}
}

func (s *MySQLLedgerStore) Append(ctx context.Context, tx port.DBTX, m domain.Movement) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO movements (id, sapid, description, material_group, qty, unit, location, created_at, joborder, requester_name, department)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Key.SAPID, m.Key.Description, string(m.Group), m.Quantity,
		m.Key.Unit, m.Key.Location, m.CreatedAt,
		nullIfEmpty(m.JobOrder), nullIfEmpty(m.Requester), nullIfEmpty(m.Department),
	)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

func (s *MySQLLedgerStore) ListMovements(ctx context.Context, db port.DBTX) ([]domain.Movement, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, sapid, description, material_group, qty, unit, location, created_at, joborder, requester_name, department
		FROM movements
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []domain.Movement
	for rows.Next() {
		var m domain.Movement
		var joborder, requester, department sql.NullString
		if err := rows.Scan(&m.ID, &m.Key.SAPID, &m.Key.Description, &m.Group,
			&m.Quantity, &m.Key.Unit, &m.Key.Location, &m.CreatedAt,
			&joborder, &requester, &department); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.JobOrder = joborder.String
		m.Requester = requester.String
		m.Department = department.String
		out = append(out, m)
	}
	return out, rows.Err()
}
