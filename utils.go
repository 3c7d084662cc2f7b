package tsql

import (
	"context"
	"database/sql"
	"regexp"
	"strconv"
	"unsafe"

	"github.com/mitranim/refut"
	"github.com/pkg/errors"
)

/*
Database connection passed to `QueryOne`, `QueryAll` and `QueryScanner`.
Satisfied by `*sql.DB`, `*sql.Tx`, `*sql.Conn`, may be satisfied by other types.
*/
type Queryer interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

/*
Database connection passed to `Exec`. Satisfied by `*sql.DB`, `*sql.Tx`,
`*sql.Conn`, may be satisfied by other types.
*/
type Execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

// Both `Queryer` and `Execer`. Satisfied by `*sql.DB` and `*sql.Tx`.
type Conn interface {
	Queryer
	Execer
}

func errorf(pattern string, args ...any) error { return errors.Errorf(pattern, args...) }

func isNil(val any) bool { return refut.IsNil(val) }

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

// Appends `count` comma-separated placeholders, numbered from `offset + 1`.
func appendPlaceholders(buf []byte, count int, offset int) []byte {
	for i := range count {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(offset+i+1), 10)
	}
	return buf
}

/*
Renumerates "$1" param placeholders by adding the given offset.

TODO: better parser that ignores $N inside string literals. The parser should be
used for this, `SqlQuery.AppendNamed` and `SqlQuery.Positional`.
*/
func sqlRenumerateOrdinalParams(query string, offset int) string {
	if offset == 0 {
		return query
	}
	return postgresPositionalParamRegexp.ReplaceAllStringFunc(query, func(match string) string {
		return "$" + strconv.Itoa(parsePlaceholder(match)+offset)
	})
}

func parsePlaceholder(match string) int {
	num, err := strconv.Atoi(match[1:])
	if err != nil {
		panic(err)
	}
	return num
}

var postgresPositionalParamRegexp = regexp.MustCompile(`\$\d+\b`)

var columnNameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
