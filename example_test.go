package tsql_test

import (
	"database/sql"
	"fmt"

	"github.com/mitranim/tsql"
)

type Person struct {
	Name string
	Age  int64
}

var (
	PersonId   = tsql.NewCol[int64](`id`)
	PersonName = tsql.NewCol[string](`name`)
	PersonAge  = tsql.NewCol[int64](`age`)

	PersonRow = tsql.Compose2(
		PersonName, PersonAge,
		func(name string, age int64) Person { return Person{name, age} },
		func(val Person) (string, int64) { return val.Name, val.Age },
	)
)

type PersonCols struct {
	Id   *tsql.Col[int64]
	Name *tsql.Col[string]
	Row  *tsql.Composite[Person]
}

var People = tsql.NewTable(`person`, PersonCols{PersonId, PersonName, PersonRow})

type Pet struct {
	Owner string
	Name  string
}

var (
	PetOwner = tsql.NewCol[string](`owner`)
	PetName  = tsql.NewCol[string](`name`)

	PetRow = tsql.Compose2(
		PetOwner, PetName,
		func(owner, name string) Pet { return Pet{owner, name} },
		func(val Pet) (string, string) { return val.Owner, val.Name },
	)
)

type PetCols struct {
	Owner *tsql.Col[string]
	Row   *tsql.Composite[Pet]
}

var Pets = tsql.NewTable(`pets`, PetCols{PetOwner, PetRow})

func Example() {
	query := tsql.Select(PersonRow, `person`)
	err := query.Where(tsql.And(tsql.GT(PersonAge, 18), tsql.In(PersonName, `Alice`, `Bob`)))
	if err != nil {
		panic(err)
	}

	fmt.Println(query.Text)
	fmt.Println(query.Args)
	// Output:
	// SELECT name, age FROM person WHERE (age > $1) AND (name IN ($2, $3))
	// [18 Alice Bob]
}

func ExampleInsert() {
	query, err := tsql.Insert(`person`, PersonRow, Person{`Alice`, 42})
	if err != nil {
		panic(err)
	}
	query.Append(`RETURNING ` + tsql.ColsString(PersonId))

	fmt.Println(query.Text)
	fmt.Println(query.Args)
	fmt.Println(query.Positional().Text)
	// Output:
	// INSERT INTO person (name, age) VALUES ($1, $2) RETURNING id
	// [Alice 42]
	// INSERT INTO person (name, age) VALUES (?, ?) RETURNING id
}

func ExampleOptOf() {
	row := tsql.Compose2(
		PersonName, tsql.OptOf(PetName),
		func(person string, pet sql.Null[string]) [2]any { return [2]any{person, pet} },
		func(val [2]any) (string, sql.Null[string]) {
			return val[0].(string), val[1].(sql.Null[string])
		},
	)

	for _, cells := range [][]any{
		{`Alice`, `Fido`},
		{`Bob`, nil},
	} {
		val, err := row.Decode(cells)
		if err != nil {
			panic(err)
		}
		fmt.Println(val[0], val[1].(sql.Null[string]).Valid)
	}
	// Output:
	// Alice true
	// Bob false
}

func ExampleSel() {
	p, e := People.As(`p`), Pets.As(`e`)

	row := tsql.Compose2(
		tsql.Sel(p, func(c PersonCols) *tsql.Composite[Person] { return c.Row }),
		tsql.OptOf(tsql.Sel(e, func(c PetCols) *tsql.Composite[Pet] { return c.Row })),
		func(person Person, pet sql.Null[Pet]) Person { return person },
		func(person Person) (Person, sql.Null[Pet]) { return person, tsql.None[Pet]() },
	)

	query := tsql.Select(row, p.From())
	query.Append(`LEFT JOIN ` + e.From() + ` ON`)
	err := query.AppendPred(tsql.On[string](tsql.Of(p, PersonName), tsql.Of(e, PetOwner)))
	if err != nil {
		panic(err)
	}

	fmt.Println(query.Text)
	// Output:
	// SELECT p.name, p.age, e.owner, e.name FROM person AS p LEFT JOIN pets AS e ON p.name = e.owner
}
