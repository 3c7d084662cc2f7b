package tsql

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

/*
Connection wrapper that logs every statement through `log/slog`: the SQL text,
the arguments and the duration at `slog.LevelDebug`, failures at
`slog.LevelError`, and statements slower than `SlowThreshold` at
`slog.LevelWarn`. Satisfies `Queryer` and `Execer`. Example:

	conn := tsql.LogQueryer{Conn: db, Logger: slog.Default()}
	person, err := tsql.QueryOne(ctx, conn, PersonRow, query)
*/
type LogQueryer struct {
	Conn   Queryer
	Logger *slog.Logger
	// Zero disables slow statement warnings.
	SlowThreshold time.Duration
}

var _ Conn = LogQueryer{}

// Implement `Queryer`.
func (self LogQueryer) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := self.Conn.QueryContext(ctx, query, args...)
	self.log(ctx, `query`, query, args, start, err)
	return rows, err
}

/*
Implement `Execer`. Returns `ErrInvalidInput` if the wrapped connection doesn't
implement `Execer`.
*/
func (self LogQueryer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	execer, ok := self.Conn.(Execer)
	if !ok {
		return nil, ErrInvalidInput.while(`executing statement`).because(errorf(
			`connection of type %T doesn't support executing statements`, self.Conn,
		))
	}

	start := time.Now()
	res, err := execer.ExecContext(ctx, query, args...)
	self.log(ctx, `exec`, query, args, start, err)
	return res, err
}

func (self LogQueryer) log(ctx context.Context, kind string, query string, args []any, start time.Time, err error) {
	logger := self.Logger
	if logger == nil {
		logger = slog.Default()
	}
	duration := time.Since(start)

	switch {
	case err != nil:
		logger.ErrorContext(ctx, `sql `+kind+` failed`, `query`, query, `args`, args, `duration`, duration, `error`, err)
	case self.SlowThreshold > 0 && duration > self.SlowThreshold:
		logger.WarnContext(ctx, `slow sql `+kind, `query`, query, `args`, args, `duration`, duration)
	default:
		logger.DebugContext(ctx, `sql `+kind, `query`, query, `args`, args, `duration`, duration)
	}
}
