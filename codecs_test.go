package tsql

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Prefs struct {
	Theme string
	Tags  []string
}

func TestMsgpackCol(t *testing.T) {
	col := MsgpackCol[*Prefs](`prefs`)
	eq(t, true, col.IsNullable())
	eq(t, false, MsgpackCol[Prefs](`prefs`).IsNullable())

	cell, err := col.EncodeOne(nil)
	try(t, err)
	eq(t, nil, cell)

	val := &Prefs{Theme: `dark`, Tags: []string{`one`, `two`}}
	cell, err = col.EncodeOne(val)
	try(t, err)
	require.IsType(t, []byte(nil), cell)

	out, err := col.DecodeOne(cell, 0)
	try(t, err)
	eq(t, val, out)

	out, err = col.DecodeOne(nil, 0)
	try(t, err)
	eq(t, (*Prefs)(nil), out)

	_, err = col.DecodeOne(int64(10), 0)
	require.ErrorIs(t, err, ErrDecode)
}

func TestUUIDCol(t *testing.T) {
	col := UUIDCol(`id`)
	id := uuid.MustParse(`6ba7b810-9dad-11d1-80b4-00c04fd430c8`)

	cell, err := col.EncodeOne(id)
	try(t, err)
	eq(t, `6ba7b810-9dad-11d1-80b4-00c04fd430c8`, cell)

	for _, cell := range []any{id.String(), id[:], []byte(id.String())} {
		out, err := col.DecodeOne(cell, 0)
		try(t, err)
		eq(t, id, out)
	}

	_, err = col.DecodeOne(`nope`, 0)
	require.ErrorIs(t, err, ErrDecode)

	_, err = col.DecodeOne(nil, 0)
	require.ErrorIs(t, err, ErrNull)
}

func TestDecimalCol(t *testing.T) {
	col := DecimalCol(`balance`)
	val := decimal.RequireFromString(`12.5`)

	cell, err := col.EncodeOne(val)
	try(t, err)
	eq(t, `12.5`, cell)

	for _, cell := range []any{`12.5`, []byte(`12.5`), float64(12.5)} {
		out, err := col.DecodeOne(cell, 0)
		try(t, err)
		assert.True(t, val.Equal(out), `expected %v, got %v`, val, out)
	}

	_, err = col.DecodeOne(`twelve`, 0)
	require.ErrorIs(t, err, ErrDecode)
}

type Account struct {
	Id      uuid.UUID
	Balance decimal.Decimal
	Prefs   *Prefs
}

var (
	accountId      = UUIDCol(`id`)
	accountBalance = DecimalCol(`balance`)
	accountPrefs   = MsgpackCol[*Prefs](`prefs`)

	accountRow = Compose3(
		accountId, accountBalance, accountPrefs,
		func(id uuid.UUID, balance decimal.Decimal, prefs *Prefs) Account {
			return Account{id, balance, prefs}
		},
		func(val Account) (uuid.UUID, decimal.Decimal, *Prefs) {
			return val.Id, val.Balance, val.Prefs
		},
	)
)

func TestCodecs_sqlite(t *testing.T) {
	ctx, conn := testInit(t)

	_, err := Exec(ctx, conn, SqlQuery{
		Text: `create temp table accounts (id text not null, balance text not null, prefs blob)`,
	})
	try(t, err)

	inputs := []Account{
		{uuid.New(), decimal.RequireFromString(`100.25`), &Prefs{Theme: `light`}},
		{uuid.New(), decimal.RequireFromString(`-3`), nil},
	}

	query, err := InsertMany(`accounts`, accountRow, inputs...)
	try(t, err)
	_, err = Exec(ctx, conn, query.Positional())
	try(t, err)

	query = Select(accountRow, `accounts`)
	query.Append(`ORDER BY balance DESC`)
	out, err := QueryAll(ctx, conn, accountRow, query.Positional())
	try(t, err)
	require.Len(t, out, 2)

	for i, val := range out {
		eq(t, inputs[i].Id, val.Id)
		eq(t, inputs[i].Prefs, val.Prefs)
		assert.True(t, inputs[i].Balance.Equal(val.Balance))
	}
}
