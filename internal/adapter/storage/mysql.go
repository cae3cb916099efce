package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkanok/matstock/internal/port"
)

// MySQLTxRunner begins one InnoDB transaction per atomic unit of work.
// Row locks taken inside fn are held until Commit, which is what
// serializes concurrent operations touching the same item key.
type MySQLTxRunner struct {
	db *sql.DB
}

func NewMySQLTxRunner(db *sql.DB) *MySQLTxRunner {
	return &MySQLTxRunner{db: db}
}

func (r *MySQLTxRunner) RunInTx(ctx context.Context, fn func(tx port.DBTX) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// nullIfEmpty maps optional text columns to NULL the way the upstream
// schema stored them.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
