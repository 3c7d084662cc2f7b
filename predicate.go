package tsql

/*
Boolean SQL expression that appends itself to a query, adding its arguments and
using positional placeholders relative to the query's existing arguments.
Created by `EQ`, `LT`, `In`, `And`, `On` and friends. Custom predicates may
implement this interface; `Raw` adapts arbitrary SQL.
*/
type Pred interface {
	AppendPred(*SqlQuery) error
}

/*
Appends the predicate to the query. Shortcut for `pred.AppendPred(query)`.
*/
func (self *SqlQuery) AppendPred(pred Pred) error {
	if pred == nil {
		return nil
	}
	return pred.AppendPred(self)
}

/*
Appends `WHERE` followed by the predicate. A nil predicate appends nothing.
*/
func (self *SqlQuery) Where(pred Pred) error {
	if pred == nil {
		return nil
	}
	sub, err := Render(pred)
	if err != nil {
		return err
	}
	self.Append(`WHERE `+sub.Text, sub.Args...)
	return nil
}

/*
Renders the predicate into a standalone query numbered from `$1`. A nil
predicate renders an empty query.
*/
func Render(pred Pred) (SqlQuery, error) {
	var out SqlQuery
	err := out.AppendPred(pred)
	return out, err
}

/*
Arbitrary SQL used as a predicate. Placeholders are numbered from `$1` and are
renumerated when appended. Example:

	tsql.Raw(`age BETWEEN $1 AND $2`, 18, 65)
*/
func Raw(text string, args ...any) Pred { return rawPred{Text: text, Args: args} }

type rawPred SqlQuery

func (self rawPred) AppendPred(query *SqlQuery) error {
	query.Append(self.Text, self.Args...)
	return nil
}

// `col = $1`, or `col IS NULL` when the value encodes to NULL.
func EQ[A any](col *Col[A], val A) Pred { return cmpPred[A]{col, `=`, val} }

// `col <> $1`, or `col IS NOT NULL` when the value encodes to NULL.
func NEQ[A any](col *Col[A], val A) Pred { return cmpPred[A]{col, `<>`, val} }

// `col < $1`.
func LT[A any](col *Col[A], val A) Pred { return cmpPred[A]{col, `<`, val} }

// `col <= $1`.
func LTE[A any](col *Col[A], val A) Pred { return cmpPred[A]{col, `<=`, val} }

// `col > $1`.
func GT[A any](col *Col[A], val A) Pred { return cmpPred[A]{col, `>`, val} }

// `col >= $1`.
func GTE[A any](col *Col[A], val A) Pred { return cmpPred[A]{col, `>=`, val} }

type cmpPred[A any] struct {
	col *Col[A]
	op  string
	val A
}

func (self cmpPred[A]) AppendPred(query *SqlQuery) error {
	val, err := self.col.EncodeOne(self.val)
	if err != nil {
		return err
	}

	if val == nil {
		switch self.op {
		case `=`:
			query.Append(self.col.Name() + ` IS NULL`)
			return nil
		case `<>`:
			query.Append(self.col.Name() + ` IS NOT NULL`)
			return nil
		}
	}

	query.Append(self.col.Name()+` `+self.op+` $1`, val)
	return nil
}

// `col IS NULL`. Works for any descriptor; composites test every column.
func IsNull(desc Desc) Pred { return nullPred{desc, false} }

// `col IS NOT NULL`. Works for any descriptor; composites test every column.
func NotNull(desc Desc) Pred { return nullPred{desc, true} }

type nullPred struct {
	desc Desc
	not  bool
}

func (self nullPred) AppendPred(query *SqlQuery) error {
	suffix := ` IS NULL`
	if self.not {
		suffix = ` IS NOT NULL`
	}

	var buf []byte
	for i, name := range self.desc.Names() {
		if i > 0 {
			buf = append(buf, ` AND `...)
		}
		buf = append(buf, name...)
		buf = append(buf, suffix...)
	}
	query.Append(string(buf))
	return nil
}

/*
`col IN ($1, $2, …)`. An empty list renders `false`, which is valid in Postgres,
SQLite and MySQL, unlike an empty `IN ()`.
*/
func In[A any](col *Col[A], vals ...A) Pred { return inPred[A]{col, vals} }

type inPred[A any] struct {
	col  *Col[A]
	vals []A
}

func (self inPred[A]) AppendPred(query *SqlQuery) error {
	if len(self.vals) == 0 {
		query.Append(`false`)
		return nil
	}

	args := make([]any, len(self.vals))
	for i, val := range self.vals {
		out, err := self.col.EncodeOne(val)
		if err != nil {
			return err
		}
		args[i] = out
	}

	buf := make([]byte, 0, len(self.col.Name())+len(args)*4+8)
	buf = append(buf, self.col.Name()...)
	buf = append(buf, ` IN (`...)
	buf = appendPlaceholders(buf, len(args), 0)
	buf = append(buf, ')')
	query.Append(string(buf), args...)
	return nil
}

/*
Equality of every column of the descriptor with the encoded value, joined by
`AND`, in column order. Columns whose parameter is NULL render `IS NULL`. Works
for single columns and composites alike. Example:

	tsql.Eq(PersonRow, Person{"Alice", 42})

	// Renders:
	tsql.SqlQuery{Text: `name = $1 AND age = $2`, Args: []any{"Alice", int64(42)}}
*/
func Eq[R any](desc Codec[R], val R) Pred { return eqPred[R]{desc, val} }

type eqPred[R any] struct {
	desc Codec[R]
	val  R
}

func (self eqPred[R]) AppendPred(query *SqlQuery) error {
	args, err := Args(self.desc, self.val)
	if err != nil {
		return err
	}
	query.AppendQuery(args.Conditions())
	return nil
}

/*
Join condition between two descriptors of the same shape, typically the same
descriptor under two aliases or a foreign key and the key it references. Pairs
the flattened columns positionally: `l1 = r1 AND l2 = r2`. Panics with
`ErrArity` if the widths differ. Example:

	p, e := People.As(`p`), Pets.As(`e`)
	tsql.On(tsql.Of(p, PersonId), tsql.Of(e, PetOwner))

	// Renders:
	`p.id = e.owner_id`
*/
func On[A any](left, right Codec[A]) Pred {
	if left.Width() != right.Width() {
		panic(ErrArity.while(`rendering join condition`).because(errorf(
			`descriptors %v and %v have different widths`, left.Names(), right.Names(),
		)))
	}
	return onPred{left, right}
}

type onPred struct{ left, right Desc }

func (self onPred) AppendPred(query *SqlQuery) error {
	right := self.right.Names()

	var buf []byte
	for i, name := range self.left.Names() {
		if i > 0 {
			buf = append(buf, ` AND `...)
		}
		buf = append(buf, name...)
		buf = append(buf, ` = `...)
		buf = append(buf, right[i]...)
	}
	query.Append(string(buf))
	return nil
}

/*
Conjunction. Nil predicates are skipped. Renders `true` when empty; a single
predicate renders as-is; otherwise each is parenthesized.
*/
func And(preds ...Pred) Pred { return junction{`AND`, `true`, preds} }

/*
Disjunction. Nil predicates are skipped. Renders `false` when empty; a single
predicate renders as-is; otherwise each is parenthesized.
*/
func Or(preds ...Pred) Pred { return junction{`OR`, `false`, preds} }

/*
Negation of the predicate: `NOT (…)`. Unlike `And` and `Or`, there's nothing
to negate when the predicate is nil, so appending it fails with
`ErrInvalidInput`.
*/
func Not(pred Pred) Pred { return notPred{pred} }

type notPred struct{ pred Pred }

func (self notPred) AppendPred(query *SqlQuery) error {
	if self.pred == nil {
		return ErrInvalidInput.while(`rendering NOT`).because(errorf(`missing predicate to negate`))
	}
	sub, err := Render(self.pred)
	if err != nil {
		return err
	}
	query.Append(`NOT (`+sub.Text+`)`, sub.Args...)
	return nil
}

type junction struct {
	op    string
	empty string
	preds []Pred
}

func (self junction) AppendPred(query *SqlQuery) error {
	preds := make([]Pred, 0, len(self.preds))
	for _, pred := range self.preds {
		if pred != nil {
			preds = append(preds, pred)
		}
	}

	switch len(preds) {
	case 0:
		query.Append(self.empty)
		return nil
	case 1:
		return preds[0].AppendPred(query)
	}

	var out SqlQuery
	for i, pred := range preds {
		sub, err := Render(pred)
		if err != nil {
			return err
		}
		if i > 0 {
			out.Append(self.op)
		}
		out.Append(`(`+sub.Text+`)`, sub.Args...)
	}
	query.AppendQuery(out)
	return nil
}
