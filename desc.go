package tsql

/*
Common surface of every descriptor: single columns (`Col`) and composites
(`Composite`). A descriptor knows its flattened column list and how to move
values between Go and a flat sequence of cells or parameters.

The interface has unexported methods; descriptors are created only by this
package's constructors. Custom per-type codecs are supported via `CustomCol`.
*/
type Desc interface {
	// Flattened column names, depth-first, in positional order.
	Names() []string
	// Length of `.Names()`, precomputed.
	Width() int
	/**
	True if the descriptor may legitimately decode from NULL cells without
	being absent: a nullable column, or a composite produced by `OptOf`.
	*/
	IsNullable() bool

	descId() uint64
	appendNames([]string) []string
	encodeAny(any, []any) ([]any, error)
	decodeAny([]any, int) (any, error)
	decodeOpt([]any, int) (any, bool, error)
	canBeNull() bool
	prefixedDesc(string) Desc
}

/*
Typed descriptor. Implemented by `*Col[A]` and `*Composite[A]`. `Encode` always
produces exactly `.Width()` parameters; `Decode` requires exactly `.Width()`
cells, in the order of `.Names()`.
*/
type Codec[A any] interface {
	Desc
	Encode(A) ([]any, error)
	Decode([]any) (A, error)
}

// Flattened column names of the descriptor. Same as `desc.Names()`.
func Names(desc Desc) []string { return desc.Names() }

func validateCellCount(desc Desc, cells []any) error {
	if len(cells) != desc.Width() {
		return ErrColumnCount.while(`decoding cells`).because(errorf(
			`expected %d cells for %v, got %d`, desc.Width(), desc.Names(), len(cells),
		))
	}
	return nil
}
