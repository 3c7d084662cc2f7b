package tsql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitranim/refut"
)

/*
SQL fragment with its arguments. Everything in this package that produces SQL
produces a `SqlQuery`: statement templates, predicates, column lists. Callers
keep appending plain SQL to it.

Positional placeholders of the form `$N` are local to each appended chunk: every
chunk numbers its parameters from `$1`, and appending offsets them by the count
of arguments already present. See `SqlQuery.Append()`. Named parameters are
supported via `SqlQuery.AppendNamed()`, sub-queries via `SqlQuery.AppendQuery()`
and `SqlQuery.QueryReplace()`.

Placeholders are always `$N` while building. Drivers that expect `?`, such as
SQLite and MySQL, take the finished query through `SqlQuery.Positional()`.
*/
type SqlQuery struct {
	Text string
	Args []any
}

/*
Appends a chunk of SQL, separated by a space unless either side already has
whitespace at the junction. The chunk's `$N` placeholders are shifted by the
current arg count, so every chunk can number its own parameters from `$1`:

	var query SqlQuery
	query.Append(`WHERE true`)
	query.Append(`AND one = $1`, 10)
	query.Append(`AND two = $1`, 20)

	// Resulting state:
	SqlQuery{
		Text: `WHERE true AND one = $1 AND two = $2`,
		Args: []any{10, 20},
	}
*/
func (self *SqlQuery) Append(chunk string, args ...any) {
	self.appendChunk(sqlRenumerateOrdinalParams(chunk, len(self.Args)), args)
}

func (self *SqlQuery) appendChunk(chunk string, args []any) {
	if self.Text != "" && chunk != "" && !isWhitespaceBetween(self.Text, chunk) {
		self.Text += " "
	}
	self.Text += chunk
	self.Args = append(self.Args, args...)
}

/*
Variant of `SqlQuery.Append` that only appends if the provided argument is not
nil or a nil pointer.
*/
func (self *SqlQuery) MaybeAppend(chunk string, arg any) {
	if !refut.IsNil(arg) {
		self.Append(chunk, arg)
	}
}

// Appends another query, renumerating its placeholders. See `SqlQuery.Append`.
func (self *SqlQuery) AppendQuery(other SqlQuery) {
	self.Append(other.Text, other.Args...)
}

/*
Similar to `SqlQuery.Append()`, but uses named rather than positional
parameters. Parameters must have the form `:identifier`. This function replaces
them with positional placeholders of the form `$N`, appending the corresponding
values to `SqlQuery.Args`. Postgres casts such as `::text` are left alone.

Panics on missing named parameters. Currently ignores unused parameters.

Example:

	var query SqlQuery
	query.AppendNamed(`SELECT :value`, map[string]any{"value": 10})

Resulting state:

	SqlQuery{Text: `SELECT $1`, Args: []any{10}}
*/
func (self *SqlQuery) AppendNamed(chunk string, namedArgs map[string]any) {
	var args []any
	offset := len(self.Args)

	chunk = namedParamRegexp.ReplaceAllStringFunc(chunk, func(match string) string {
		// Solution for the lack of negative lookbehind in the Go regexp
		// implementation.
		if match[:2] == "::" {
			return match
		}
		name := match[1:]

		arg, ok := namedArgs[name]
		if !ok {
			panic(Err{
				Code:  ErrCodeInvalidInput,
				While: `calling AppendNamed`,
				Cause: fmt.Errorf(`missing argument for the named parameter %q`, name),
			})
		}

		args = append(args, arg)
		return "$" + strconv.Itoa(offset+len(args))
	})

	self.appendChunk(chunk, args)
}

var namedParamRegexp = regexp.MustCompile(`:?:\w+\b`)

/*
Interpolates the other query inside itself, replacing every occurrence of the
given pattern. Renumerates positional parameters and appends the other query's
args to its own args.

Example:

	var outer SqlQuery
	outer.Append(`SELECT * FROM some_table WHERE col_one = $1 {{INNER}}`, 10)

	var inner SqlQuery
	inner.Append(`AND col_two = $1`, 20)

	outer.QueryReplace(`{{INNER}}`, inner)

Resulting state of `outer`:

	SqlQuery{
		Text: `SELECT * FROM some_table WHERE col_one = $1 AND col_two = $2`,
		Args: []any{10, 20},
	}
*/
func (self *SqlQuery) QueryReplace(pattern string, other SqlQuery) {
	chunk := sqlRenumerateOrdinalParams(other.Text, len(self.Args))
	self.Text = strings.ReplaceAll(self.Text, pattern, chunk)
	self.Args = append(self.Args, other.Args...)
}

/*
Replaces the given string pattern inside the query.

Example:

	var query SqlQuery
	query.Append(`SELECT {{COLS}} FROM some_table`)
	query.StringReplace(`{{COLS}}`, tsql.ColsString(PersonRow))

Resulting state:

	SqlQuery{Text: `SELECT name, age FROM some_table`}
*/
func (self *SqlQuery) StringReplace(pattern string, chunk string) {
	self.Text = strings.ReplaceAll(self.Text, pattern, chunk)
}

/*
Wraps the query to select only the specified columns. Example:

	var query SqlQuery
	query.Append(`SELECT * FROM some_table`)
	query.WrapSelect(`one, two`)

Resulting state is roughly equivalent to:

	SqlQuery{Text: `SELECT one, two FROM some_table`}
*/
func (self *SqlQuery) WrapSelect(columns string) {
	self.Text = fmt.Sprintf(`WITH _ AS (%v) SELECT %v FROM _`, self.Text, columns)
}

/*
Wraps the query to select the columns of the descriptor. The descriptor must be
unprefixed, since the inner query is only visible under the `_` alias.

Also see `ColsString()`.
*/
func (self *SqlQuery) WrapSelectCols(desc Desc) {
	self.WrapSelect(ColsString(desc))
}

/*
Makes a copy that doesn't share any mutable state with the original. Useful when
you want to "fork" a query and modify both versions.
*/
func (self SqlQuery) Copy() SqlQuery {
	args := self.Args
	if args != nil {
		self.Args = make([]any, len(args), cap(args))
		copy(self.Args, args)
	}
	return self
}

/*
Converts Postgres-style `$N` placeholders into `?` placeholders used by SQLite
and MySQL. Since `?` placeholders are ordered by occurrence, the arguments are
reordered (and duplicated, for repeated placeholders) to match. Panics with
`ErrInvalidInput` on a placeholder without a corresponding argument. Example:

	SqlQuery{Text: `a = $2 OR b = $1 OR c = $2`, Args: []any{10, 20}}.Positional()

	// Output:
	SqlQuery{Text: `a = ? OR b = ? OR c = ?`, Args: []any{20, 10, 20}}
*/
func (self SqlQuery) Positional() SqlQuery {
	var args []any

	text := postgresPositionalParamRegexp.ReplaceAllStringFunc(self.Text, func(match string) string {
		num := parsePlaceholder(match)
		if num < 1 || num > len(self.Args) {
			panic(ErrInvalidInput.while(`converting placeholders`).because(errorf(
				`placeholder %v has no corresponding argument; the query has %d arguments`, match, len(self.Args),
			)))
		}
		args = append(args, self.Args[num-1])
		return `?`
	})

	return SqlQuery{Text: text, Args: args}
}

// Implement `fmt.Stringer` for debug purposes.
func (self SqlQuery) String() string { return self.Text }

// Shorter way to call `Exec()`.
func (self SqlQuery) Exec(ctx context.Context, conn Execer) (sql.Result, error) {
	return Exec(ctx, conn, self)
}

func isWhitespaceBetween(left string, right string) bool {
	return endWhitespaceRegexp.MatchString(left) || startWhitespaceRegexp.MatchString(right)
}

var startWhitespaceRegexp = regexp.MustCompile(`^[\n\s]`)
var endWhitespaceRegexp = regexp.MustCompile(`[\n\s]$`)
