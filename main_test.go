package tsql

import (
	"context"
	"database/sql"
	"os"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	_ "modernc.org/sqlite"
)

var testDb *sql.DB

func TestMain(m *testing.M) {
	os.Exit(runTestMain(m))
}

// This is a separate function to allow `defer` before `os.Exit`.
func runTestMain(m *testing.M) int {
	db, err := sql.Open(`sqlite`, `:memory:`)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	/**
	Every connection to `:memory:` is a separate database. Keeping exactly one
	connection makes the schema visible to every test.
	*/
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	_, err = db.Exec(testSchema)
	if err != nil {
		panic(err)
	}

	testDb = db
	return m.Run()
}

const testSchema = `
create table person (
	id   integer primary key,
	name text    not null,
	age  integer not null,
	nick text
);

create table pets (
	name text not null,
	pet1 text not null,
	pet2 text
);
`

/*
Each test runs in its own transaction, rolled back at the end, so tests don't
see each other's rows.
*/
func testInit(t *testing.T) (context.Context, *sql.Tx) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	conn, err := testDb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("failed to start DB transaction: %+v", err)
	}
	t.Cleanup(func() { _ = conn.Rollback() })

	return ctx, conn
}

func try(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("%+v", err)
	}
}

func eq(t testing.TB, exp, act any) {
	t.Helper()
	if !reflect.DeepEqual(exp, act) {
		t.Fatalf("expected:\n%v\nactual:\n%v", spew.Sdump(exp), spew.Sdump(act))
	}
}

func panics(t testing.TB, fun func()) (val any) {
	t.Helper()
	defer func() { val = recover() }()
	fun()
	t.Fatalf(`expected a panic`)
	return
}

func strPtr(str string) *string { return &str }

type Person struct {
	Name string
	Age  int64
}

var (
	personId   = NewCol[int64](`id`)
	personName = NewCol[string](`name`)
	personAge  = NewCol[int64](`age`)
	personNick = NewCol[*string](`nick`)

	personRow = Compose2(
		personName, personAge,
		func(name string, age int64) Person { return Person{name, age} },
		func(val Person) (string, int64) { return val.Name, val.Age },
	)
)

type PersonCols struct {
	Id   *Col[int64]
	Name *Col[string]
	Age  *Col[int64]
	Nick *Col[*string]
	Row  *Composite[Person]
}

var people = NewTable(`person`, PersonCols{
	Id:   personId,
	Name: personName,
	Age:  personAge,
	Nick: personNick,
	Row:  personRow,
})

type Pets struct {
	Pet1 string
	Pet2 *string
}

var (
	petsOwner = NewCol[string](`name`)
	petsPet1  = NewCol[string](`pet1`)
	petsPet2  = NewCol[*string](`pet2`)

	petsRow = Compose2(
		petsPet1, petsPet2,
		func(pet1 string, pet2 *string) Pets { return Pets{pet1, pet2} },
		func(val Pets) (string, *string) { return val.Pet1, val.Pet2 },
	)
)

type PetsCols struct {
	Owner *Col[string]
	Row   *Composite[Pets]
}

var pets = NewTable(`pets`, PetsCols{Owner: petsOwner, Row: petsRow})
