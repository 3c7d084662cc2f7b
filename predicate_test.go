package tsql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func render(t testing.TB, pred Pred) SqlQuery {
	t.Helper()
	out, err := Render(pred)
	try(t, err)
	return out
}

func TestComparisons(t *testing.T) {
	eq(t, SqlQuery{Text: `age = $1`, Args: []any{int64(10)}}, render(t, EQ(personAge, 10)))
	eq(t, SqlQuery{Text: `age <> $1`, Args: []any{int64(10)}}, render(t, NEQ(personAge, 10)))
	eq(t, SqlQuery{Text: `age < $1`, Args: []any{int64(10)}}, render(t, LT(personAge, 10)))
	eq(t, SqlQuery{Text: `age <= $1`, Args: []any{int64(10)}}, render(t, LTE(personAge, 10)))
	eq(t, SqlQuery{Text: `age > $1`, Args: []any{int64(10)}}, render(t, GT(personAge, 10)))
	eq(t, SqlQuery{Text: `age >= $1`, Args: []any{int64(10)}}, render(t, GTE(personAge, 10)))
}

func TestComparisons_null(t *testing.T) {
	eq(t, SqlQuery{Text: `nick IS NULL`}, render(t, EQ(personNick, nil)))
	eq(t, SqlQuery{Text: `nick IS NOT NULL`}, render(t, NEQ(personNick, nil)))
	eq(t, SqlQuery{Text: `nick = $1`, Args: []any{`Al`}}, render(t, EQ(personNick, strPtr(`Al`))))
}

func TestIsNull_NotNull(t *testing.T) {
	eq(t, SqlQuery{Text: `nick IS NULL`}, render(t, IsNull(personNick)))
	eq(t, SqlQuery{Text: `name IS NOT NULL AND age IS NOT NULL`}, render(t, NotNull(personRow)))
}

func TestIn(t *testing.T) {
	eq(t, SqlQuery{Text: `age IN ($1, $2, $3)`, Args: []any{int64(1), int64(2), int64(3)}}, render(t, In(personAge, 1, 2, 3)))
	eq(t, SqlQuery{Text: `false`}, render(t, In(personAge)))
}

func TestEq(t *testing.T) {
	eq(t,
		SqlQuery{Text: `name = $1 AND age = $2`, Args: []any{`Alice`, int64(42)}},
		render(t, Eq(personRow, Person{`Alice`, 42})),
	)

	eq(t,
		SqlQuery{Text: `one = $1 AND two IS NULL AND three = $2`, Args: []any{`one`, int64(3)}},
		render(t, Eq(tripleRow, Triple{`one`, nil, 3})),
	)

	eq(t,
		SqlQuery{Text: `p.name = $1`, Args: []any{`Alice`}},
		render(t, Eq(personName.Prefixed(`p`), `Alice`)),
	)
}

func TestOn(t *testing.T) {
	p, e := people.As(`p`), pets.As(`e`)

	eq(t,
		SqlQuery{Text: `p.name = e.name`},
		render(t, On[string](Of(p, personName), Of(e, petsOwner))),
	)

	eq(t,
		SqlQuery{Text: `a.pet1 = b.pet1 AND a.pet2 = b.pet2`},
		render(t, On[Pets](petsRow.Prefixed(`a`), petsRow.Prefixed(`b`))),
	)
}

func TestOn_width_mismatch(t *testing.T) {
	wide := Imap(personRow, func(val Person) string { return val.Name }, func(val string) Person { return Person{Name: val} })

	err, _ := panics(t, func() { On[string](personName, wide) }).(error)
	require.ErrorIs(t, err, ErrArity)
}

func TestAnd_Or(t *testing.T) {
	eq(t, SqlQuery{Text: `true`}, render(t, And()))
	eq(t, SqlQuery{Text: `false`}, render(t, Or()))
	eq(t, SqlQuery{Text: `true`}, render(t, And(nil, nil)))
	eq(t, SqlQuery{Text: `age = $1`, Args: []any{int64(1)}}, render(t, And(nil, EQ(personAge, 1))))

	eq(t,
		SqlQuery{
			Text: `(age > $1) AND ((name = $2) OR (nick IS NULL))`,
			Args: []any{int64(18), `Alice`},
		},
		render(t, And(GT(personAge, 18), Or(EQ(personName, `Alice`), IsNull(personNick)))),
	)

	eq(t,
		SqlQuery{
			Text: `((age > $1) AND (age < $2)) OR (name IN ($3, $4))`,
			Args: []any{int64(18), int64(65), `Alice`, `Bob`},
		},
		render(t, Or(And(GT(personAge, 18), LT(personAge, 65)), In(personName, `Alice`, `Bob`))),
	)
}

func TestNot_Raw(t *testing.T) {
	eq(t,
		SqlQuery{Text: `NOT (age BETWEEN $1 AND $2)`, Args: []any{18, 65}},
		render(t, Not(Raw(`age BETWEEN $1 AND $2`, 18, 65))),
	)
}

func TestPred_encode_failure(t *testing.T) {
	col := CustomCol(`one`, false, func(string) (any, error) { return nil, errors.New(`boom`) }, nil)

	_, err := Render(And(EQ(personAge, 1), EQ(col, `blah`)))
	require.ErrorIs(t, err, ErrEncode)

	var query SqlQuery
	require.ErrorIs(t, query.Where(In(col, `blah`)), ErrEncode)
	eq(t, SqlQuery{}, query)
}

func TestSqlQuery_Where_renumbers(t *testing.T) {
	query := SqlQuery{Text: `SELECT name FROM person AS p`, Args: nil}
	query.Append(`JOIN pets AS e ON e.name = p.name AND e.pet1 = $1`, `Fido`)
	try(t, query.Where(And(EQ(personAge, 1), EQ(personName, `Alice`))))

	eq(t, SqlQuery{
		Text: `SELECT name FROM person AS p JOIN pets AS e ON e.name = p.name AND e.pet1 = $1 WHERE (age = $2) AND (name = $3)`,
		Args: []any{`Fido`, int64(1), `Alice`},
	}, query)
}

func TestNot_nil(t *testing.T) {
	_, err := Render(Not(nil))
	require.ErrorIs(t, err, ErrInvalidInput)

	var query SqlQuery
	require.ErrorIs(t, query.Where(And(EQ(personAge, 1), Not(nil))), ErrInvalidInput)
	eq(t, SqlQuery{}, query)

	eq(t, SqlQuery{}, render(t, nil))
}
