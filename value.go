package tsql

import (
	"database/sql"
	"database/sql/driver"
	"sync/atomic"

	"github.com/mitranim/refut"
)

// Shortcut for a present optional value.
func Some[A any](val A) sql.Null[A] { return sql.Null[A]{V: val, Valid: true} }

// Shortcut for an absent optional value.
func None[A any]() sql.Null[A] { return sql.Null[A]{} }

/*
Converts an arbitrary Go value into a value accepted by every `database/sql`
driver. Unlike `driver.DefaultParameterConverter`, this also normalizes the
output of `driver.Valuer`, which matters for types like `sql.Null[int]` whose
`.Value` returns a non-driver type.
*/
func toDriverValue(val any) (driver.Value, error) {
	if refut.IsNil(val) {
		return nil, nil
	}
	valuer, ok := val.(driver.Valuer)
	if ok {
		out, err := valuer.Value()
		if err != nil {
			return nil, err
		}
		val = out
	}
	return driver.DefaultParameterConverter.ConvertValue(val)
}

/*
Decodes a raw cell into the given type, using the same conversion rules as
`(*sql.Rows).Scan`. The cell must be non-nil.
*/
func fromDriverValue[A any](cell any) (A, error) {
	var out sql.Null[A]
	err := out.Scan(cell)
	return out.V, err
}

/*
A type is nullable when its zero value is encoded as SQL NULL. This covers
pointers, `sql.Null[_]`, `sql.NullString` and friends, and any custom
`driver.Valuer` following the same convention.
*/
func isNullableType[A any]() bool {
	var zero A
	if refut.IsNil(zero) {
		return true
	}
	valuer, ok := any(zero).(driver.Valuer)
	if !ok {
		return false
	}
	val, err := valuer.Value()
	return err == nil && val == nil
}

// Comma-ok type assertion that tolerates nil interfaces.
func as[A any](val any) A {
	out, _ := val.(A)
	return out
}

var lastDescId atomic.Uint64

func nextDescId() uint64 { return lastDescId.Add(1) }
