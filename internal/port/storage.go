package port

import (
	"context"
	"database/sql"
)

// DBTX is the slice of database/sql shared by *sql.DB and *sql.Tx.
// Store methods take it explicitly so one atomic unit of work can span
// several stores without any of them owning the transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxRunner scopes one atomic unit of work: fn either commits as a
// whole or leaves no trace. Implementations must hold row locks taken
// inside fn (SELECT ... FOR UPDATE, conditional UPDATE) until commit;
// the coordinator's read-modify-write sequences rely on that to stay
// race-free under concurrent operations on the same item key.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx DBTX) error) error
}
