package tsql

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

/*
Table declaration: a base name plus a user-defined set of descriptors, usually a
struct of columns and composites. Example:

	type PersonCols struct {
		Id   *tsql.Col[int64]
		Name *tsql.Col[string]
		Age  *tsql.Col[int64]
	}

	var People = tsql.NewTable(`person`, PersonCols{
		Id:   tsql.NewCol[int64](`id`),
		Name: tsql.NewCol[string](`name`),
		Age:  tsql.NewCol[int64](`age`),
	})

Descriptors in the set should be unprefixed. Use `Table.As` to qualify them with
an alias.
*/
type Table[T any] struct {
	name string
	cols T
}

// Declares a table. Panics with `ErrInvalidInput` on an empty name.
func NewTable[T any](name string, cols T) *Table[T] {
	if name == "" {
		panic(ErrInvalidInput.while(`declaring table`).because(errorf(`table name must be non-empty`)))
	}
	return &Table[T]{name: name, cols: cols}
}

// Base table name.
func (self *Table[T]) Name() string { return self.name }

// Unprefixed descriptor set, as declared.
func (self *Table[T]) Cols() T { return self.cols }

// Table name for a `FROM` clause.
func (self *Table[T]) From() string { return self.name }

// Implement `fmt.Stringer` for debug purposes.
func (self *Table[T]) String() string { return self.name }

/*
Creates an alias context for the table. Every call returns a new context with
its own memo, even for the same alias name. Panics with `ErrInvalidInput` on an
empty alias.
*/
func (self *Table[T]) As(alias string) *Alias[T] {
	if alias == "" {
		panic(ErrInvalidInput.while(`aliasing table`).because(errorf(`alias of table %q must be non-empty`, self.name)))
	}
	return &Alias[T]{table: self, name: alias}
}

/*
Table under an alias. Hands out descriptors of the table qualified with the
alias, via `Sel` and `Of`. The same source descriptor always maps to the same
prefixed descriptor for the lifetime of the alias. Safe for concurrent use.
*/
type Alias[T any] struct {
	table *Table[T]
	name  string
	memo  sync.Map
	group singleflight.Group
}

// Alias name, used as the column prefix.
func (self *Alias[T]) Name() string { return self.name }

// Aliased table.
func (self *Alias[T]) Table() *Table[T] { return self.table }

/*
Table name with the alias, for a `FROM` or `JOIN` clause:

	People.As(`p`).From() == `person AS p`
*/
func (self *Alias[T]) From() string { return self.table.name + ` AS ` + self.name }

// Implement `fmt.Stringer` for debug purposes.
func (self *Alias[T]) String() string { return self.From() }

func (self *Alias[T]) prefixed(desc Desc) Desc {
	id := desc.descId()

	val, ok := self.memo.Load(id)
	if ok {
		return val.(Desc)
	}

	val, _, _ = self.group.Do(strconv.FormatUint(id, 10), func() (any, error) {
		val, ok := self.memo.Load(id)
		if ok {
			return val, nil
		}
		val, _ = self.memo.LoadOrStore(id, desc.prefixedDesc(self.name))
		return val, nil
	})
	return val.(Desc)
}

/*
Selects a descriptor from the table's set and returns its counterpart qualified
with the alias. Repeated calls return the same object. Example:

	p := People.As(`p`)
	name := tsql.Sel(p, func(c PersonCols) *tsql.Col[string] { return c.Name })

	name.Name() == `p.name`
*/
func Sel[T any, D Desc](alias *Alias[T], fun func(T) D) D {
	return Of(alias, fun(alias.table.cols))
}

/*
Same as `Sel`, but takes the descriptor directly. The descriptor doesn't have to
belong to the table's set. Example:

	tsql.Of(p, People.Cols().Name).Name() == `p.name`
*/
func Of[T any, D Desc](alias *Alias[T], desc D) D {
	return alias.prefixed(desc).(D)
}
