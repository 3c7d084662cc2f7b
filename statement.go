package tsql

/*
Renders an insert of one value through the descriptor. The descriptor should be
unprefixed. Example:

	query, err := tsql.Insert(`person`, PersonRow, Person{"Alice", 42})

	// Output:
	tsql.SqlQuery{
		Text: `INSERT INTO person (name, age) VALUES ($1, $2)`,
		Args: []any{"Alice", int64(42)},
	}

Append `RETURNING` and other clauses via `SqlQuery.Append`.
*/
func Insert[R any](table string, desc Codec[R], val R) (SqlQuery, error) {
	args, err := Args(desc, val)
	if err != nil {
		return SqlQuery{}, err
	}

	var query SqlQuery
	query.Append(`INSERT INTO ` + table)
	query.AppendQuery(args.NamesAndValues())
	return query, nil
}

/*
Renders a multi-row insert. Each value contributes one parenthesized row of
placeholders, in the order of the descriptor's columns. Returns `ErrInvalidInput`
when there are no values.
*/
func InsertMany[R any](table string, desc Codec[R], vals ...R) (SqlQuery, error) {
	if len(vals) == 0 {
		return SqlQuery{}, ErrInvalidInput.while(`rendering insert`).because(errorf(
			`inserting into %q requires at least one row`, table,
		))
	}

	width := desc.Width()
	buf := make([]byte, 0, 64)
	buf = append(buf, `INSERT INTO `...)
	buf = append(buf, table...)
	buf = append(buf, ` (`...)
	buf = append(buf, ColsString(desc)...)
	buf = append(buf, `) VALUES `...)

	args := make([]any, 0, width*len(vals))
	for i, val := range vals {
		row, err := desc.Encode(val)
		if err != nil {
			return SqlQuery{}, err
		}
		if i > 0 {
			buf = append(buf, `, `...)
		}
		buf = append(buf, '(')
		buf = appendPlaceholders(buf, width, len(args))
		buf = append(buf, ')')
		args = append(args, row...)
	}

	return SqlQuery{Text: string(buf), Args: args}, nil
}

/*
Renders an update assigning every column of the descriptor. The descriptor should
be unprefixed. Callers append the `WHERE` clause:

	query, err := tsql.Update(`person`, PersonRow, Person{"Alice", 43})
	err = query.Where(tsql.EQ(PersonId, 1))

	// Output:
	tsql.SqlQuery{
		Text: `UPDATE person SET name = $1, age = $2 WHERE id = $3`,
		Args: []any{"Alice", int64(43), int64(1)},
	}
*/
func Update[R any](table string, desc Codec[R], val R) (SqlQuery, error) {
	args, err := Args(desc, val)
	if err != nil {
		return SqlQuery{}, err
	}
	if len(args) == 0 {
		return SqlQuery{}, ErrInvalidInput.while(`rendering update`).because(errorf(
			`updating %q requires at least one column`, table,
		))
	}

	var query SqlQuery
	query.Append(`UPDATE ` + table + ` SET`)
	query.AppendQuery(args.Assignments())
	return query, nil
}

/*
Renders a select of the descriptor's columns. `from` is a table name or the
output of `Alias.From`. Example:

	tsql.Select(Of(p, PersonRow), p.From())

	// Output:
	tsql.SqlQuery{Text: `SELECT p.name, p.age FROM person AS p`}
*/
func Select(desc Desc, from string) SqlQuery {
	return SqlQuery{Text: `SELECT ` + ColsString(desc) + ` FROM ` + from}
}

// Renders `DELETE FROM <table>`. Callers append the `WHERE` clause.
func Delete(table string) SqlQuery {
	return SqlQuery{Text: `DELETE FROM ` + table}
}
