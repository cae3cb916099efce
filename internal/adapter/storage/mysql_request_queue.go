package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pkanok/matstock/internal/core/domain"
	"github.com/pkanok/matstock/internal/port"
)

type MySQLRequestQueue struct{}

func NewMySQLRequestQueue() *MySQLRequestQueue {
	return &MySQLRequestQueue{}
}

func (q *MySQLRequestQueue) Submit(ctx context.Context, tx port.DBTX, req domain.MaterialRequest) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO material_requests (description, qty, unit, requester_name, department, request_date, sapid, location, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.Description, req.Quantity, req.Unit, req.Requester, req.Department,
		req.RequestDate, nullIfEmpty(req.SAPID), nullIfEmpty(req.Location),
		string(domain.RequestStatusPending),
	)
	if err != nil {
		return 0, fmt.Errorf("insert request: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("request id: %w", err)
	}
	return id, nil
}

func (q *MySQLRequestQueue) LoadPendingForUpdate(ctx context.Context, tx port.DBTX, id int64) (*domain.MaterialRequest, error) {
	var req domain.MaterialRequest
	var sapid, location sql.NullString
	err := tx.QueryRowContext(ctx, `
		SELECT id, description, qty, unit, requester_name, department, request_date, sapid, location, status
		FROM material_requests
		WHERE id = ? AND status = ?
		FOR UPDATE`,
		id, string(domain.RequestStatusPending),
	).Scan(&req.ID, &req.Description, &req.Quantity, &req.Unit, &req.Requester,
		&req.Department, &req.RequestDate, &sapid, &location, &req.Status)

	// An unknown id and an already-processed request look the same to
	// the caller; that is what blocks double fulfillment.
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load pending request: %w", err)
	}
	req.SAPID = sapid.String
	req.Location = location.String
	return &req, nil
}

func (q *MySQLRequestQueue) MarkProcessed(ctx context.Context, tx port.DBTX, id int64, fulfilledQty int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE material_requests SET status = ?, qty = ? WHERE id = ?`,
		string(domain.RequestStatusProcessed), fulfilledQty, id,
	)
	if err != nil {
		return fmt.Errorf("mark request processed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (q *MySQLRequestQueue) ListRequests(ctx context.Context, db port.DBTX) ([]domain.MaterialRequest, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, description, qty, unit, requester_name, department, request_date, sapid, location, status
		FROM material_requests
		ORDER BY request_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var out []domain.MaterialRequest
	for rows.Next() {
		var req domain.MaterialRequest
		var sapid, location sql.NullString
		if err := rows.Scan(&req.ID, &req.Description, &req.Quantity, &req.Unit,
			&req.Requester, &req.Department, &req.RequestDate,
			&sapid, &location, &req.Status); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		req.SAPID = sapid.String
		req.Location = location.String
		out = append(out, req)
	}
	return out, rows.Err()
}
