/*
Typesafe SQL, a thin layer over "database/sql" for declaring columns once and
composing SQL fragments whose column types, nullability and row shapes are
checked by the Go compiler. NOT AN ORM, and should be used instead of an ORM.
Expressly designed to help you WRITE PLAIN SQL.

Key Features

• Typed column descriptors. See `Col`, `NewCol`, `CustomCol`.

• Composites: several columns decoded into one Go value, nested arbitrarily.
See `Compose2` and `Compose`.

• Optional composites for outer joins: a joined row whose columns are all null
decodes as absent, without confusing it with a present row whose nullable
columns happen to be null. See `OptOf`.

• Table aliases with stable prefixed descriptors. See `Table.As` and `Sel`.

• Statement templates and predicates producing parameterized SQL. See
`Insert`, `Update`, `Eq`, `On`, `And`.

• Query builder oriented towards plain SQL. (No DSL in Go.) See `SqlQuery`.

• Typed execution. See `QueryOne`, `QueryAll`, `QueryScanner`.

Declaring Columns And Composites

	type Person struct {
		Name string
		Age  int64
	}

	var (
		PersonName = tsql.NewCol[string](`name`)
		PersonAge  = tsql.NewCol[int64](`age`)

		PersonRow = tsql.Compose2(
			PersonName, PersonAge,
			func(name string, age int64) Person { return Person{name, age} },
			func(val Person) (string, int64) { return val.Name, val.Age },
		)
	)

	tsql.ColsString(PersonRow)   == `name, age`
	tsql.Placeholders(PersonRow) == `$1, $2`

The flattened column list of a composite is the depth-first concatenation of
its children. Encoding and decoding follow exactly that order, so a value
encoded by a composite decodes back to an equal value.

Nullability

A column is nullable when the zero value of its type is stored as NULL:
pointers, `sql.Null[T]`, `sql.NullString` and friends. `Opt` turns a
non-nullable column into a nullable `sql.Null[A]` column. Decoding a NULL cell
into a non-nullable column produces `ErrNull`.

Outer Joins

Wrapping a composite with `OptOf` makes every one of its columns accept NULL
and decodes `sql.Null[R]`:

	PetOpt := tsql.OptOf(PetRow)

	-- Query:
	select p.name, p.age, e.name, e.nick
	from person as p left join pet as e on e.owner_id = p.id

For each row, the columns of the optional composite are inspected left to
right. A NULL in a column that is not nullable on its own proves the pet is
absent. A non-NULL anywhere proves it's present. NULLs in columns that are
nullable on their own (`e.nick` above) prove nothing, until one of the other
cases shows up; if every column is NULL, the pet is absent. Rows where the
proofs disagree can't come from a well-formed outer join and produce
`*InconsistentOuterJoinError`.

Placeholders

Generated SQL uses Postgres-style placeholders `$1`, `$2`. For SQLite and MySQL,
convert a finished query with `SqlQuery.Positional`.

Non-Goals

tsql doesn't parse SQL, plan queries, pool connections, manage transactions or
migrate schemas. Those belong to "database/sql", its drivers and your own SQL.
Anything satisfying `Queryer` or `Execer` works, including `*sql.DB`, `*sql.Tx`
and `*sql.Conn`.
*/
package tsql
