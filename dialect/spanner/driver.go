package spanner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/syssam/velox-spanner/dialect"
)

// Batch statements understood by the Spanner database/sql driver.
const (
	StartBatchDDL = "START BATCH DDL"
	RunBatch      = "RUN BATCH"
	AbortBatch    = "ABORT BATCH"
)

// BatchError reports the statement of a DDL batch that failed.
type BatchError struct {
	Statement string
	Err       error
}

// Error returns the error string.
func (e *BatchError) Error() string {
	return fmt.Sprintf("dialect/spanner: batch: %s: %v", e.Statement, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *BatchError) Unwrap() error {
	return e.Err
}

// ExecBatch runs the DDL statements as one Spanner DDL batch on conn. If
// a statement fails, the batch is aborted; the failing step is reported
// in a *BatchError. An empty batch does not touch conn.
func ExecBatch(ctx context.Context, conn dialect.ExecQuerier, stmts []string) error {
	return (&Conn{ExecQuerier: conn, logger: discard}).ExecBatch(ctx, stmts)
}

var discard = slog.New(slog.DiscardHandler)

// Conn runs statements on a connection and logs them.
type Conn struct {
	dialect.ExecQuerier
	logger *slog.Logger
}

// ConnOption configures a Conn.
type ConnOption func(*Conn)

// WithLogger sets the logger statements are logged to at debug level.
func WithLogger(l *slog.Logger) ConnOption {
	return func(c *Conn) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewConn wraps an ExecQuerier such as *sql.DB or *sql.Conn.
func NewConn(ex dialect.ExecQuerier, opts ...ConnOption) *Conn {
	c := &Conn{ExecQuerier: ex, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the dialect name.
func (*Conn) Dialect() string { return dialect.Spanner }

// Exec executes a statement. v must be nil or a *sql.Result.
func (c *Conn) Exec(ctx context.Context, query string, args []any, v any) error {
	start := time.Now()
	res, err := c.ExecContext(ctx, query, args...)
	c.logger.DebugContext(ctx, "exec", "query", query, "duration", time.Since(start), "error", err)
	if err != nil {
		return fmt.Errorf("dialect/spanner: exec: %w", err)
	}
	switch v := v.(type) {
	case nil:
	case *sql.Result:
		*v = res
	default:
		return fmt.Errorf("dialect/spanner: invalid type %T. expect *sql.Result", v)
	}
	return nil
}

// ExecBatch runs stmts as one DDL batch. See the package-level ExecBatch.
func (c *Conn) ExecBatch(ctx context.Context, stmts []string) error {
	if len(stmts) == 0 {
		return nil
	}
	if err := c.exec(ctx, StartBatchDDL); err != nil {
		return &BatchError{Statement: StartBatchDDL, Err: err}
	}
	batch := make([]string, 0, len(stmts)+1)
	batch = append(append(batch, stmts...), RunBatch)
	for _, stmt := range batch {
		if err := c.exec(ctx, stmt); err != nil {
			// A failed RUN BATCH has already ended the batch. Otherwise
			// abort, even when ctx is done.
			if stmt != RunBatch {
				if aerr := c.exec(context.WithoutCancel(ctx), AbortBatch); aerr != nil {
					err = errors.Join(err, fmt.Errorf("abort: %w", aerr))
				}
			}
			return &BatchError{Statement: stmt, Err: err}
		}
	}
	c.logger.InfoContext(ctx, "ddl batch applied", "statements", len(stmts))
	return nil
}

func (c *Conn) exec(ctx context.Context, stmt string) error {
	start := time.Now()
	_, err := c.ExecContext(ctx, stmt)
	c.logger.DebugContext(ctx, "exec", "query", stmt, "duration", time.Since(start), "error", err)
	return err
}
