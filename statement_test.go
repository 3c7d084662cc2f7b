package tsql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsert(t *testing.T) {
	query, err := Insert(`person`, personRow, Person{`Alice`, 42})
	try(t, err)

	eq(t, SqlQuery{
		Text: `INSERT INTO person (name, age) VALUES ($1, $2)`,
		Args: []any{`Alice`, int64(42)},
	}, query)
}

func TestInsert_returning(t *testing.T) {
	query, err := Insert(`person`, personRow, Person{`Alice`, 42})
	try(t, err)
	query.Append(`RETURNING ` + ColsString(personId))

	eq(t, `INSERT INTO person (name, age) VALUES ($1, $2) RETURNING id`, query.Text)
}

func TestInsertMany(t *testing.T) {
	query, err := InsertMany(`person`, personRow, Person{`Alice`, 42}, Person{`Bob`, 30})
	try(t, err)

	eq(t, SqlQuery{
		Text: `INSERT INTO person (name, age) VALUES ($1, $2), ($3, $4)`,
		Args: []any{`Alice`, int64(42), `Bob`, int64(30)},
	}, query)

	_, err = InsertMany[Person](`person`, personRow)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate(t *testing.T) {
	query, err := Update(`person`, personRow, Person{`Alice`, 43})
	try(t, err)
	try(t, query.Where(EQ(personId, 1)))

	eq(t, SqlQuery{
		Text: `UPDATE person SET name = $1, age = $2 WHERE id = $3`,
		Args: []any{`Alice`, int64(43), int64(1)},
	}, query)
}

func TestSelect(t *testing.T) {
	p := people.As(`p`)

	query := Select(Of(p, personRow), p.From())
	eq(t, SqlQuery{Text: `SELECT p.name, p.age FROM person AS p`}, query)

	try(t, query.Where(EQ(Of(p, personName), `Alice`)))
	eq(t, SqlQuery{
		Text: `SELECT p.name, p.age FROM person AS p WHERE p.name = $1`,
		Args: []any{`Alice`},
	}, query)
}

func TestDelete(t *testing.T) {
	query := Delete(`person`)
	try(t, query.Where(In(personId, 1, 2)))

	eq(t, SqlQuery{
		Text: `DELETE FROM person WHERE id IN ($1, $2)`,
		Args: []any{int64(1), int64(2)},
	}, query)
}
