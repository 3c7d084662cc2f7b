package main

import (
	"time"

	"github.com/mitranim/tsql"
)

// One decoded row of a declared table, one value per column.
type Row []any

// Table declared in the schema file, with its row descriptor.
type Table struct {
	*tsql.Table[*tsql.Composite[Row]]
	Alias *tsql.Alias[*tsql.Composite[Row]]
}

// Unprefixed row descriptor.
func (t Table) Row() *tsql.Composite[Row] { return t.Cols() }

// Row descriptor qualified with the table alias.
func (t Table) AliasedRow() *tsql.Composite[Row] { return tsql.Of(t.Alias, t.Cols()) }

func buildTables(cfg *Config) []Table {
	out := make([]Table, 0, len(cfg.Tables))
	for _, tc := range cfg.Tables {
		children := make([]tsql.Desc, 0, len(tc.Columns))
		for _, cc := range tc.Columns {
			children = append(children, columnTypes[cc.Type](cc.Name, cc.Nullable))
		}

		row := tsql.Compose(
			children,
			func(vals []any) (Row, error) { return Row(vals), nil },
			func(row Row) []any { return row },
		)

		alias := tc.Alias
		if alias == "" {
			alias = tc.Name
		}

		table := tsql.NewTable(tc.Name, row)
		out = append(out, Table{Table: table, Alias: table.As(alias)})
	}
	return out
}

// Column constructors by the `type` field of the schema file.
var columnTypes = map[string]func(name string, nullable bool) tsql.Desc{
	"text":    scalar[string],
	"int":     scalar[int64],
	"float":   scalar[float64],
	"bool":    scalar[bool],
	"bytes":   bytesColumn,
	"time":    scalar[time.Time],
	"uuid":    func(name string, nullable bool) tsql.Desc { return optional(tsql.UUIDCol(name), nullable) },
	"decimal": func(name string, nullable bool) tsql.Desc { return optional(tsql.DecimalCol(name), nullable) },
	"msgpack": func(name string, nullable bool) tsql.Desc { return tsql.MsgpackCol[map[string]any](name) },
}

func scalar[A any](name string, nullable bool) tsql.Desc {
	return optional(tsql.NewCol[A](name), nullable)
}

// `[]byte` is nilable, so the plain column is already nullable.
func bytesColumn(name string, _ bool) tsql.Desc { return tsql.NewCol[[]byte](name) }

func optional[A any](col *tsql.Col[A], nullable bool) tsql.Desc {
	if nullable {
		return tsql.Opt(col)
	}
	return col
}
