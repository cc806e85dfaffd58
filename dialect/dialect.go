package dialect

import (
	"context"
	"database/sql"
)

// Spanner is the dialect name used by the Spanner database/sql driver.
const Spanner = "spanner"

// ExecQuerier wraps the ExecContext method shared by *sql.DB, *sql.Conn
// and *sql.Tx.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
