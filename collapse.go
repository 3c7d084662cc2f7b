package tsql

import (
	"database/sql"

	"github.com/pkg/errors"
)

/*
Turns a descriptor into its optional form for outer-joined data: every column
may be NULL, and the whole group decodes to an absent `sql.Null[R]` only when
the joined row doesn't exist.

The absent/present decision is made per row by scanning the children left to
right. A NULL in a child that isn't independently nullable proves the group is
absent; a non-NULL anywhere proves it's present. NULLs in independently nullable
children are ambiguous until one of those proofs shows up. A row where the proofs
disagree can't come from a well-formed outer join and produces
`*InconsistentOuterJoinError`.

Encoding an absent value produces NULL for every column.

Panics with `ErrInvalidInput` if the descriptor is already optional.
*/
func OptOf[R any](desc Codec[R]) *Composite[sql.Null[R]] {
	if desc.IsNullable() {
		panic(ErrInvalidInput.while(`wrapping descriptor into optional`).because(errorf(
			`descriptor %v is already nullable`, desc.Names(),
		)))
	}

	switch desc := desc.(type) {
	case *Composite[R]:
		mapf := desc.mapf
		unmapf := desc.unmapf
		return newComposite(
			desc.children,
			true,
			sql.Null[R]{},
			func(vals []any) (sql.Null[R], error) {
				out, err := mapf(vals)
				if err != nil {
					return sql.Null[R]{}, err
				}
				return Some(out), nil
			},
			func(val sql.Null[R]) []any {
				if !val.Valid {
					return nil
				}
				return unmapf(val.V)
			},
		)

	default:
		return newComposite(
			[]Desc{desc},
			true,
			sql.Null[R]{},
			func(vals []any) (sql.Null[R], error) { return Some(as[R](vals[0])), nil },
			func(val sql.Null[R]) []any {
				if !val.Valid {
					return nil
				}
				return []any{val.V}
			},
		)
	}
}

type collapseKind byte

const (
	collapseInitial collapseKind = iota
	collapseAllAbsent
	collapseUndecided
	collapsePresent
	collapseExpectedAbsentSawPresent
	collapseExpectedPresentSawAbsent
)

/*
State of the outer-join decision while scanning children. `members` holds the
member value of every child seen so far while the group may still be present;
in the undecided state, these are the provisionally empty members of
independently nullable children, backfilled once a value shows up.
*/
type collapseState struct {
	kind    collapseKind
	members []any
	bad     []int
}

func (self *collapseState) next(index int, member any, present, nullable bool) {
	switch self.kind {
	case collapseInitial:
		if present {
			self.kind = collapsePresent
			self.members = append(self.members, member)
		} else if nullable {
			self.kind = collapseUndecided
			self.members = append(self.members, member)
		} else {
			self.kind = collapseAllAbsent
		}

	case collapseAllAbsent:
		if present {
			self.kind = collapseExpectedAbsentSawPresent
			self.bad = append(self.bad, index)
		}

	case collapseUndecided:
		if present {
			self.kind = collapsePresent
			self.members = append(self.members, member)
		} else if nullable {
			self.members = append(self.members, member)
		} else {
			/**
			Every column so far was empty, which is exactly what a left join
			without a match produces. Absent, not a contradiction: only a later
			non-empty child can contradict it.
			*/
			self.kind = collapseAllAbsent
			self.members = nil
		}

	case collapsePresent:
		if present || nullable {
			self.members = append(self.members, member)
		} else {
			self.kind = collapseExpectedPresentSawAbsent
			self.bad = append(self.bad, index)
		}

	case collapseExpectedAbsentSawPresent:
		if present {
			self.bad = append(self.bad, index)
		}

	case collapseExpectedPresentSawAbsent:
		if !present && !nullable {
			self.bad = append(self.bad, index)
		}
	}
}

func (self *collapseState) contradiction() bool {
	return self.kind == collapseExpectedAbsentSawPresent || self.kind == collapseExpectedPresentSawAbsent
}

/*
Decodes the children of an optional group starting at `pos`. Returns one member
per child when the group is present; returns `present = false` when it's absent.
*/
func collapse(label string, children []Desc, offsets []int, cells []any, pos int) ([]any, bool, error) {
	state := collapseState{members: make([]any, 0, len(children))}

	for i, child := range children {
		member, present, err := child.decodeOpt(cells, pos+offsets[i])
		if err != nil {
			return nil, false, errors.Wrapf(err, `optional composite %v`, label)
		}
		state.next(i, member, present, child.canBeNull())
	}

	if state.contradiction() {
		err := &InconsistentOuterJoinError{
			Label:          label,
			ExpectedAbsent: state.kind == collapseExpectedAbsentSawPresent,
			Indexes:        state.bad,
			Cells:          make([][]any, len(state.bad)),
		}
		for i, index := range state.bad {
			err.Cells[i] = cells[pos+offsets[index] : pos+offsets[index+1]]
		}
		return nil, false, err
	}

	if state.kind != collapsePresent {
		return nil, false, nil
	}
	return state.members, true, nil
}
