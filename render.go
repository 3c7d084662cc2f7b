package tsql

import "strings"

/*
Comma-separated flattened column names of the descriptor, suitable for a
`select` list:

	tsql.ColsString(PersonRow) == `name, age`
*/
func ColsString(desc Desc) string {
	return strings.Join(desc.Names(), `, `)
}

/*
Comma-separated placeholders, one per column of the descriptor, in the same
order as `ColsString`:

	tsql.Placeholders(PersonRow) == `$1, $2`
*/
func Placeholders(desc Desc) string {
	return bytesToMutableString(appendPlaceholders(nil, desc.Width(), 0))
}

/*
Select list of the descriptor as a query, ready for `SqlQuery.AppendQuery` or
`SqlQuery.QueryReplace`. Has no arguments.
*/
func Cols(desc Desc) SqlQuery {
	return SqlQuery{Text: ColsString(desc)}
}
