package tsql

import (
	"strconv"
	"strings"

	"github.com/lib/pq"
)

/*
Encodes a value through the descriptor, pairing every flattened column name with
its parameter. For a person composite over `(name, age)`:

	args, err := tsql.Args(PersonRow, Person{"Alice", 42})

	// Output:
	tsql.SqlArgs{{"name", "Alice"}, {"age", int64(42)}}
*/
func Args[R any](desc Codec[R], val R) (SqlArgs, error) {
	vals, err := desc.Encode(val)
	if err != nil {
		return nil, err
	}

	names := desc.Names()
	args := make(SqlArgs, len(names))
	for i, name := range names {
		args[i] = SqlArg{Name: name, Value: vals[i]}
	}
	return args, nil
}

/*
Sequence of named SQL arguments with utility methods for query building.
Usually obtained by calling `Args()`.
*/
type SqlArgs []SqlArg

/*
Returns the argument names.
*/
func (self SqlArgs) Names() []string {
	names := make([]string, 0, len(self))
	for _, arg := range self {
		names = append(names, arg.Name)
	}
	return names
}

/*
Returns the argument values.
*/
func (self SqlArgs) Values() []any {
	values := make([]any, 0, len(self))
	for _, arg := range self {
		values = append(values, arg.Value)
	}
	return values
}

/*
Returns a copy with every name quoted via `QuoteIdent`.
*/
func (self SqlArgs) Quoted() SqlArgs {
	out := make(SqlArgs, len(self))
	for i, arg := range self {
		out[i] = SqlArg{Name: QuoteIdent(arg.Name), Value: arg.Value}
	}
	return out
}

/*
Returns comma-separated argument names, suitable for a `select` clause. Example:

	args := tsql.SqlArgs{{"one", 10}, {"two", 20}}

	fmt.Sprintf(`SELECT %v`, args.NamesString())

	// Output:
	`SELECT one, two`
*/
func (self SqlArgs) NamesString() string {
	var buf []byte
	for i, arg := range self {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, arg.Name...)
	}
	return bytesToMutableString(buf)
}

/*
Returns parameter placeholders in the Postgres style `$N`, comma-separated,
suitable for a `values` clause. Example:

	args := tsql.SqlArgs{{"one", 10}, {"two", 20}}

	fmt.Sprintf(`VALUES (%v)`, args.ValuesString())

	// Output:
	`VALUES ($1, $2)`
*/
func (self SqlArgs) ValuesString() string {
	return bytesToMutableString(appendPlaceholders(nil, len(self), 0))
}

/*
Returns the string of names and values suitable for an `insert` clause. Example:

	args := tsql.SqlArgs{{"one", 10}, {"two", 20}}

	fmt.Sprintf(`INSERT INTO some_table %v`, args.NamesAndValuesString())

	// Output:
	`INSERT INTO some_table (one, two) VALUES ($1, $2)`
*/
func (self SqlArgs) NamesAndValuesString() string {
	if len(self) == 0 {
		return "DEFAULT VALUES"
	}
	return "(" + self.NamesString() + ") VALUES (" + self.ValuesString() + ")"
}

/*
Returns the string of assignments suitable for an `update set` clause. Example:

	args := tsql.SqlArgs{{"one", 10}, {"two", 20}}

	fmt.Sprintf(`UPDATE some_table SET %v`, args.AssignmentsString())

	// Output:
	`UPDATE some_table SET one = $1, two = $2`
*/
func (self SqlArgs) AssignmentsString() string {
	var buf []byte
	for i, arg := range self {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, arg.Name...)
		buf = append(buf, " = $"...)
		buf = strconv.AppendInt(buf, int64(i+1), 10)
	}
	return bytesToMutableString(buf)
}

/*
Returns the string of conditions suitable for a `where` or `join` clause.
Example:

	args := tsql.SqlArgs{{"one", 10}, {"two", 20}}

	fmt.Sprintf(`SELECT * FROM some_table WHERE %v`, args.ConditionsString())

	// Output:
	`SELECT * FROM some_table WHERE one IS NOT DISTINCT FROM $1 AND two IS NOT DISTINCT FROM $2`

The comparison is null-safe: a nil argument matches NULL. Supported by Postgres
and SQLite; for MySQL, use `SqlArgs.Conditions`, which renders nil arguments as
`IS NULL` without consuming a placeholder.
*/
func (self SqlArgs) ConditionsString() string {
	if len(self) == 0 {
		return "true"
	}

	var buf []byte
	for i, arg := range self {
		if i > 0 {
			buf = append(buf, " AND "...)
		}
		buf = append(buf, arg.Name...)
		buf = append(buf, " IS NOT DISTINCT FROM $"...)
		buf = strconv.AppendInt(buf, int64(i+1), 10)
	}
	return bytesToMutableString(buf)
}

/*
Same as `SqlArgs.NamesAndValuesString`, but returns a query that carries the
argument values.
*/
func (self SqlArgs) NamesAndValues() SqlQuery {
	return SqlQuery{Text: self.NamesAndValuesString(), Args: self.Values()}
}

/*
Same as `SqlArgs.AssignmentsString`, but returns a query that carries the
argument values.
*/
func (self SqlArgs) Assignments() SqlQuery {
	return SqlQuery{Text: self.AssignmentsString(), Args: self.Values()}
}

/*
Equality conditions joined by `AND`, with the argument values attached. Nil
arguments become `IS NULL` and don't consume a placeholder. Example:

	args := tsql.SqlArgs{{"one", 10}, {"two", nil}}
	args.Conditions()

	// Output:
	tsql.SqlQuery{Text: `one = $1 AND two IS NULL`, Args: []any{10}}
*/
func (self SqlArgs) Conditions() SqlQuery {
	if len(self) == 0 {
		return SqlQuery{Text: "true"}
	}

	var buf []byte
	var args []any

	for i, arg := range self {
		if i > 0 {
			buf = append(buf, " AND "...)
		}
		buf = append(buf, arg.Name...)
		if arg.IsNil() {
			buf = append(buf, " IS NULL"...)
			continue
		}
		args = append(args, arg.Value)
		buf = append(buf, " = $"...)
		buf = strconv.AppendInt(buf, int64(len(args)), 10)
	}

	return SqlQuery{Text: bytesToMutableString(buf), Args: args}
}

/*
Returns true if at least one argument satisfies the predicate function. Example:

	args.Some(SqlArg.IsNil)
*/
func (self SqlArgs) Some(fun func(SqlArg) bool) bool {
	for _, arg := range self {
		if fun != nil && fun(arg) {
			return true
		}
	}
	return false
}

/*
Returns true if every argument satisfies the predicate function. Example:

	args.Every(SqlArg.IsNil)
*/
func (self SqlArgs) Every(fun func(SqlArg) bool) bool {
	for _, arg := range self {
		if fun == nil || !fun(arg) {
			return false
		}
	}
	return true
}

// Same as `sql.NamedArg`, with additional methods. See `SqlArgs`.
type SqlArg struct {
	Name  string
	Value any
}

// True if the name looks like a plain or dot-qualified SQL identifier.
func (self SqlArg) IsValid() bool {
	return columnNameRegexp.MatchString(self.Name)
}

// True if the value is nil or a nil pointer.
func (self SqlArg) IsNil() bool {
	return isNil(self.Value)
}

/*
Quotes a possibly dot-qualified identifier, quoting each segment separately:

	tsql.QuoteIdent(`p.name`) == `"p"."name"`
*/
func QuoteIdent(name string) string {
	segments := strings.Split(name, `.`)
	for i, segment := range segments {
		segments[i] = pq.QuoteIdentifier(segment)
	}
	return strings.Join(segments, `.`)
}
