package tsql

import (
	"database/sql"

	"github.com/pkg/errors"
)

/*
Single-column descriptor: a name, an optional table prefix, and a codec moving
one Go value to and from exactly one cell. Immutable; methods that "modify" a
column return a new one.

Example:

	var (
		PersonName = tsql.NewCol[string](`name`)
		PersonAge  = tsql.NewCol[int64](`age`)
		PersonNick = tsql.NewCol[*string](`nick`) // nullable
	)
*/
type Col[A any] struct {
	id       uint64
	rawName  string
	prefix   string
	nullable bool
	encode   func(A) (any, error)
	decode   func(any) (A, error)
}

/*
Declares a column whose values are converted with the standard `database/sql`
rules: `driver.Valuer` when encoding and `sql.Scanner` or `(*sql.Rows).Scan`
conversions when decoding. The column is nullable when the zero value of `A`
is encoded as NULL, for example `*string` or `sql.Null[string]`.
*/
func NewCol[A any](name string) *Col[A] {
	return CustomCol[A](name, isNullableType[A](), nil, nil)
}

/*
Declares a column with a custom codec. `decode` is called only for non-NULL
cells; NULL cells decode to the zero value for nullable columns and to
`ErrNull` otherwise. A nil `encode` or `decode` falls back on the defaults used
by `NewCol`. Panics on an empty name.
*/
func CustomCol[A any](name string, nullable bool, encode func(A) (any, error), decode func(any) (A, error)) *Col[A] {
	if name == "" {
		panic(ErrInvalidInput.while(`declaring column`).because(errorf(`column name must be non-empty`)))
	}
	if encode == nil {
		encode = func(val A) (any, error) { return val, nil }
	}
	if decode == nil {
		decode = fromDriverValue[A]
	}
	return &Col[A]{
		id:       nextDescId(),
		rawName:  name,
		nullable: nullable,
		encode:   encode,
		decode:   decode,
	}
}

/*
Wraps a non-nullable column into a nullable one, decoding NULL as an absent
`sql.Null[A]`. Panics with `ErrInvalidInput` if the column is already
nullable; Go generics can't rule out `Opt(Opt(col))` statically.
*/
func Opt[A any](col *Col[A]) *Col[sql.Null[A]] {
	if col.nullable {
		panic(ErrInvalidInput.while(`wrapping column into optional`).because(errorf(
			`column %q is already nullable`, col.Name(),
		)))
	}
	return &Col[sql.Null[A]]{
		id:       nextDescId(),
		rawName:  col.rawName,
		prefix:   col.prefix,
		nullable: true,
		encode: func(val sql.Null[A]) (any, error) {
			if !val.Valid {
				return nil, nil
			}
			return col.encode(val.V)
		},
		decode: func(cell any) (sql.Null[A], error) {
			val, err := col.decode(cell)
			if err != nil {
				return sql.Null[A]{}, err
			}
			return Some(val), nil
		},
	}
}

// Column name without the prefix.
func (self *Col[A]) RawName() string { return self.rawName }

// Table prefix, empty if the column is unqualified.
func (self *Col[A]) Prefix() string { return self.prefix }

// Rendered name: `prefix.name` when prefixed, otherwise just `name`.
func (self *Col[A]) Name() string {
	if self.prefix == "" {
		return self.rawName
	}
	return self.prefix + `.` + self.rawName
}

// Implement `Desc`.
func (self *Col[A]) Names() []string { return []string{self.Name()} }

// Implement `Desc`. Always 1.
func (self *Col[A]) Width() int { return 1 }

// Implement `Desc`.
func (self *Col[A]) IsNullable() bool { return self.nullable }

// Implement `fmt.Stringer` for debug purposes.
func (self *Col[A]) String() string { return self.Name() }

/*
Returns a copy qualified with the given prefix, usually a table alias. Replaces
any existing prefix instead of appending to it.
*/
func (self *Col[A]) Prefixed(prefix string) *Col[A] {
	out := *self
	out.id = nextDescId()
	out.prefix = prefix
	return &out
}

// Returns an unqualified copy.
func (self *Col[A]) Unprefixed() *Col[A] { return self.Prefixed(``) }

// Encodes a single value into a driver parameter.
func (self *Col[A]) EncodeOne(val A) (any, error) {
	out, err := self.encode(val)
	if err == nil {
		out, err = toDriverValue(out)
	}
	if err != nil {
		return nil, ErrEncode.while(`encoding column`).because(errors.Wrapf(err, `column %q`, self.Name()))
	}
	return out, nil
}

// Implement `Codec`. Always produces exactly one parameter.
func (self *Col[A]) Encode(val A) ([]any, error) {
	out, err := self.EncodeOne(val)
	if err != nil {
		return nil, err
	}
	return []any{out}, nil
}

// Decodes one raw cell. `pos` is used only for error messages.
func (self *Col[A]) DecodeOne(cell any, pos int) (A, error) {
	if cell == nil {
		var zero A
		if self.nullable {
			return zero, nil
		}
		return zero, ErrNull.while(`decoding column`).because(errors.Errorf(
			`column %q at position %d is not nullable, but the cell was null`, self.Name(), pos,
		))
	}

	out, err := self.decode(cell)
	if err != nil {
		return out, ErrDecode.while(`decoding column`).because(errors.Wrapf(
			err, `column %q at position %d`, self.Name(), pos,
		))
	}
	return out, nil
}

// Implement `Codec`. Requires exactly one cell.
func (self *Col[A]) Decode(cells []any) (A, error) {
	err := validateCellCount(self, cells)
	if err != nil {
		var zero A
		return zero, err
	}
	return self.DecodeOne(cells[0], 0)
}

func (self *Col[A]) descId() uint64 { return self.id }

func (self *Col[A]) appendNames(buf []string) []string { return append(buf, self.Name()) }

func (self *Col[A]) encodeAny(val any, buf []any) ([]any, error) {
	typed, ok := val.(A)
	if !ok && val != nil {
		panic(ErrArity.while(`encoding column`).because(errorf(
			`column %q expects a value of type %T, got %T`, self.Name(), typed, val,
		)))
	}
	if val == nil && !self.nullable {
		panic(ErrArity.while(`encoding column`).because(errorf(
			`column %q is not nullable, but unmap produced nil`, self.Name(),
		)))
	}
	out, err := self.EncodeOne(typed)
	if err != nil {
		return buf, err
	}
	return append(buf, out), nil
}

func (self *Col[A]) decodeAny(cells []any, pos int) (any, error) {
	return self.DecodeOne(cells[pos], pos)
}

func (self *Col[A]) decodeOpt(cells []any, pos int) (any, bool, error) {
	cell := cells[pos]
	if cell == nil && !self.nullable {
		return nil, false, nil
	}
	out, err := self.DecodeOne(cell, pos)
	return out, cell != nil, err
}

func (self *Col[A]) canBeNull() bool { return self.nullable }

func (self *Col[A]) prefixedDesc(prefix string) Desc { return self.Prefixed(prefix) }
