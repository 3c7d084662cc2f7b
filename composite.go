package tsql

import (
	"strings"

	"github.com/pkg/errors"
)

/*
Multi-column descriptor built from an ordered, non-empty sequence of children
(columns or other composites) and a pair of mapping functions between the
children's values and a structured value `R`. See `Compose` and the typed
shortcuts `Compose2` … `Compose6`.

The flattened column list is the concatenation of the children's column lists.
The values produced by `unmap` and consumed by `map` follow the same order, one
value per child. Composites are immutable and may share children.
*/
type Composite[R any] struct {
	id       uint64
	label    string
	children []Desc
	offsets  []int
	isOption bool
	none     R
	mapf     func([]any) (R, error)
	unmapf   func(R) []any
}

/*
Builds a composite from arbitrary children. `mapf` receives one decoded value per
child, in order; `unmapf` must return one value per child, in the same order,
each of the type expected by that child. The two functions must be inverses over
one row's worth of values; this isn't verified.

Panics with `ErrInvalidInput` if there are no children or a function is nil.
Prefer the typed shortcuts such as `Compose2` when the arity is known.
*/
func Compose[R any](children []Desc, mapf func([]any) (R, error), unmapf func(R) []any) *Composite[R] {
	if len(children) == 0 {
		panic(ErrInvalidInput.while(`composing descriptors`).because(errorf(`composite requires at least one child`)))
	}
	if mapf == nil || unmapf == nil {
		panic(ErrInvalidInput.while(`composing descriptors`).because(errorf(`composite requires both mapping functions`)))
	}
	for i, child := range children {
		if child == nil {
			panic(ErrInvalidInput.while(`composing descriptors`).because(errorf(`child %d is nil`, i)))
		}
	}
	return newComposite(children, false, *new(R), mapf, unmapf)
}

func newComposite[R any](
	children []Desc, isOption bool, none R, mapf func([]any) (R, error), unmapf func(R) []any,
) *Composite[R] {
	children = append([]Desc(nil), children...)

	offsets := make([]int, len(children)+1)
	for i, child := range children {
		offsets[i+1] = offsets[i] + child.Width()
	}

	return &Composite[R]{
		id:       nextDescId(),
		label:    compositeLabel(children),
		children: children,
		offsets:  offsets,
		isOption: isOption,
		none:     none,
		mapf:     mapf,
		unmapf:   unmapf,
	}
}

/*
Wraps the mapping functions without touching the column structure. `f` and `g`
must be inverses. `f` is only called on decoded values, plus once on the absent
value when the composite is optional.
*/
func Imap[R, B any](desc *Composite[R], f func(R) B, g func(B) R) *Composite[B] {
	mapf := desc.mapf
	unmapf := desc.unmapf

	var none B
	if desc.isOption {
		none = f(desc.none)
	}

	return newComposite(
		desc.children,
		desc.isOption,
		none,
		func(vals []any) (B, error) {
			out, err := mapf(vals)
			if err != nil {
				var zero B
				return zero, err
			}
			return f(out), nil
		},
		func(val B) []any { return unmapf(g(val)) },
	)
}

// Implement `Desc`.
func (self *Composite[R]) Names() []string {
	return self.appendNames(make([]string, 0, self.Width()))
}

// Implement `Desc`. Sum of the children's widths.
func (self *Composite[R]) Width() int { return self.offsets[len(self.offsets)-1] }

// Implement `Desc`. True only for composites produced by `OptOf`.
func (self *Composite[R]) IsNullable() bool { return self.isOption }

// Direct children, in order. The slice must not be modified.
func (self *Composite[R]) Children() []Desc { return self.children }

// Human-readable name used in error messages, such as `(name, age)`.
func (self *Composite[R]) Label() string { return self.label }

// Implement `fmt.Stringer` for debug purposes.
func (self *Composite[R]) String() string { return self.label }

/*
Rebuilds the composite with every child prefixed, recursively, preserving the
mapping functions. Replaces any existing prefix.
*/
func (self *Composite[R]) Prefixed(prefix string) *Composite[R] {
	children := make([]Desc, len(self.children))
	for i, child := range self.children {
		children[i] = child.prefixedDesc(prefix)
	}
	return newComposite(children, self.isOption, self.none, self.mapf, self.unmapf)
}

// Returns an unqualified copy.
func (self *Composite[R]) Unprefixed() *Composite[R] { return self.Prefixed(``) }

/*
Implement `Codec`. Unmaps the value and concatenates the encodings of each
child. Panics with `ErrArity` if `unmap` returns the wrong number of values.
*/
func (self *Composite[R]) Encode(val R) ([]any, error) {
	return self.encodeAny(val, make([]any, 0, self.Width()))
}

// Implement `Codec`. Requires exactly `.Width()` cells.
func (self *Composite[R]) Decode(cells []any) (R, error) {
	err := validateCellCount(self, cells)
	if err != nil {
		var zero R
		return zero, err
	}
	return self.decodeAt(cells, 0)
}

func (self *Composite[R]) descId() uint64 { return self.id }

func (self *Composite[R]) appendNames(buf []string) []string {
	for _, child := range self.children {
		buf = child.appendNames(buf)
	}
	return buf
}

func (self *Composite[R]) encodeAny(val any, buf []any) ([]any, error) {
	typed, ok := val.(R)
	if !ok && val != nil {
		panic(ErrArity.while(`encoding composite`).because(errorf(
			`composite %v expects a value of type %T, got %T`, self.label, typed, val,
		)))
	}

	vals := self.unmapf(typed)

	if self.isOption && vals == nil {
		for range self.Width() {
			buf = append(buf, nil)
		}
		return buf, nil
	}

	if len(vals) != len(self.children) {
		panic(ErrArity.while(`encoding composite`).because(errorf(
			`composite %v has %d children, but unmap produced %d values`,
			self.label, len(self.children), len(vals),
		)))
	}

	for i, child := range self.children {
		var err error
		buf, err = child.encodeAny(vals[i], buf)
		if err != nil {
			return buf, errors.Wrapf(err, `composite %v`, self.label)
		}
	}
	return buf, nil
}

func (self *Composite[R]) decodeAny(cells []any, pos int) (any, error) {
	return self.decodeAt(cells, pos)
}

func (self *Composite[R]) decodeAt(cells []any, pos int) (R, error) {
	if self.isOption {
		out, _, err := self.decodeCollapsed(cells, pos)
		return out, err
	}

	vals := make([]any, len(self.children))
	for i, child := range self.children {
		val, err := child.decodeAny(cells, pos+self.offsets[i])
		if err != nil {
			var zero R
			return zero, errors.Wrapf(err, `composite %v`, self.label)
		}
		vals[i] = val
	}
	return self.mapValues(vals)
}

func (self *Composite[R]) decodeOpt(cells []any, pos int) (any, bool, error) {
	out, present, err := self.decodeCollapsed(cells, pos)
	if err != nil || present || self.isOption {
		return out, present, err
	}

	/**
	An absent non-optional composite may still be a legitimate member of an
	enclosing present group, if all of its columns are nullable.
	*/
	if self.canBeNull() {
		out, err := self.decodeAt(cells, pos)
		return out, false, err
	}
	return nil, false, nil
}

func (self *Composite[R]) decodeCollapsed(cells []any, pos int) (R, bool, error) {
	vals, present, err := collapse(self.label, self.children, self.offsets, cells, pos)
	if err != nil || !present {
		return self.none, false, err
	}
	out, err := self.mapValues(vals)
	return out, err == nil, err
}

func (self *Composite[R]) mapValues(vals []any) (R, error) {
	out, err := self.mapf(vals)
	if err != nil {
		return out, ErrDecode.while(`mapping composite`).because(errors.Wrapf(err, `composite %v`, self.label))
	}
	return out, nil
}

func (self *Composite[R]) canBeNull() bool {
	if self.isOption {
		return true
	}
	for _, child := range self.children {
		if !child.canBeNull() {
			return false
		}
	}
	return true
}

func (self *Composite[R]) prefixedDesc(prefix string) Desc { return self.Prefixed(prefix) }

func compositeLabel(children []Desc) string {
	var buf strings.Builder
	buf.WriteString(`(`)
	for i, name := range appendDescNames(nil, children) {
		if i > 0 {
			buf.WriteString(`, `)
		}
		buf.WriteString(name)
	}
	buf.WriteString(`)`)
	return buf.String()
}

func appendDescNames(buf []string, descs []Desc) []string {
	for _, desc := range descs {
		buf = desc.appendNames(buf)
	}
	return buf
}
