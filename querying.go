package tsql

import (
	"context"
	"database/sql"
)

/*
Executes an SQL query and prepares a `Scanner` that decodes individual rows
through the descriptor. A `Scanner` is used similarly to `*sql.Rows`. Just like
`*sql.Rows`, this avoids buffering all results in memory, which is especially
useful for large sets.

The number of result columns must equal the width of the descriptor, otherwise
this returns `ErrColumnCount`. Columns are matched by position, not by name.

The returned scanner MUST be closed after finishing.

Example:

	scan, err := tsql.QueryScanner(ctx, conn, PersonRow, query)
	panic(err)
	defer scan.Close()

	for scan.Next() {
		person, err := scan.Scan()
		panic(err)
	}
	panic(scan.Err())
*/
func QueryScanner[R any](ctx context.Context, conn Queryer, desc Codec[R], query SqlQuery) (*Scanner[R], error) {
	rows, err := conn.QueryContext(ctx, query.Text, query.Args...)
	if err != nil {
		return nil, Err{While: `querying rows`, Cause: err}
	}

	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, Err{While: `getting columns`, Cause: err}
	}

	if len(cols) != desc.Width() {
		rows.Close()
		return nil, ErrColumnCount.while(`preparing scanner`).because(errorf(
			`query returned %d columns %v, descriptor %v expects %d`, len(cols), cols, desc.Names(), desc.Width(),
		))
	}

	scan := &Scanner[R]{
		rows:  rows,
		desc:  desc,
		cells: make([]any, len(cols)),
		ptrs:  make([]any, len(cols)),
	}
	for i := range scan.cells {
		scan.ptrs[i] = &scan.cells[i]
	}
	return scan, nil
}

/*
Shortcut for decoding exactly one row. Zero rows produce `ErrNoRows`, more than
one produce `ErrMultipleRows`. Example:

	person, err := tsql.QueryOne(ctx, conn, PersonRow, query)
*/
func QueryOne[R any](ctx context.Context, conn Queryer, desc Codec[R], query SqlQuery) (R, error) {
	var zero R

	scan, err := QueryScanner(ctx, conn, desc, query)
	if err != nil {
		return zero, err
	}
	defer scan.Close()

	if !scan.Next() {
		err := scan.Err()
		if err != nil {
			return zero, Err{While: `preparing row`, Cause: err}
		}
		return zero, ErrNoRows.while(`preparing row`)
	}

	out, err := scan.Scan()
	if err != nil {
		return zero, err
	}

	if scan.Next() {
		return zero, ErrMultipleRows.while(`verifying row count`)
	}
	err = scan.Err()
	if err != nil {
		return zero, Err{While: `verifying row count`, Cause: err}
	}
	return out, nil
}

/*
Shortcut for decoding every row into a slice. The query should use a small
`LIMIT`. When processing a large data set, prefer `QueryScanner()` to decode
rows one-by-one without buffering the result. Returns an empty non-nil slice
when there are no rows.
*/
func QueryAll[R any](ctx context.Context, conn Queryer, desc Codec[R], query SqlQuery) ([]R, error) {
	scan, err := QueryScanner(ctx, conn, desc, query)
	if err != nil {
		return nil, err
	}
	defer scan.Close()

	out := []R{}
	for scan.Next() {
		val, err := scan.Scan()
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}

	err = scan.Err()
	if err != nil {
		return nil, Err{While: `iterating rows`, Cause: err}
	}
	return out, nil
}

// Executes a statement that doesn't return rows.
func Exec(ctx context.Context, conn Execer, query SqlQuery) (sql.Result, error) {
	res, err := conn.ExecContext(ctx, query.Text, query.Args...)
	if err != nil {
		return nil, Err{While: `executing statement`, Cause: err}
	}
	return res, nil
}

/*
Row iterator returned by `QueryScanner`. Not safe for concurrent use. The cell
buffer is reused between rows; decoded values don't share it.
*/
type Scanner[R any] struct {
	rows  *sql.Rows
	desc  Codec[R]
	cells []any
	ptrs  []any
}

// Same as `(*sql.Rows).Next`.
func (self *Scanner[R]) Next() bool { return self.rows.Next() }

// Same as `(*sql.Rows).Err`.
func (self *Scanner[R]) Err() error { return self.rows.Err() }

// Same as `(*sql.Rows).Close`.
func (self *Scanner[R]) Close() error { return self.rows.Close() }

// Result column names, in order.
func (self *Scanner[R]) Columns() ([]string, error) { return self.rows.Columns() }

/*
Decodes the current row. Cells are read as raw driver values, so the
descriptor's codecs see exactly what the driver produced.
*/
func (self *Scanner[R]) Scan() (R, error) {
	clear(self.cells)

	err := self.rows.Scan(self.ptrs...)
	if err != nil {
		var zero R
		return zero, ErrScan.because(err)
	}
	return self.desc.Decode(self.cells)
}
