package tsql

/*
Typed shortcuts for `Compose`. Each takes the children as typed descriptors and
a pair of functions between their values and `R`, for example:

	type Person struct {
		Name string
		Age  int64
	}

	var PersonRow = tsql.Compose2(
		PersonName, PersonAge,
		func(name string, age int64) Person { return Person{name, age} },
		func(val Person) (string, int64) { return val.Name, val.Age },
	)

Code below is mechanical; keep the arities in sync.
*/

// Single-child composite. Useful for mapping a column to a named type.
func Compose1[A, R any](
	a Codec[A],
	mapf func(A) R,
	unmapf func(R) A,
) *Composite[R] {
	return Compose(
		[]Desc{a},
		func(vals []any) (R, error) { return mapf(as[A](vals[0])), nil },
		func(val R) []any {
			v0 := unmapf(val)
			return []any{v0}
		},
	)
}

// Composite of 2 children. See `Compose`.
func Compose2[A, B, R any](
	a Codec[A], b Codec[B],
	mapf func(A, B) R,
	unmapf func(R) (A, B),
) *Composite[R] {
	return Compose(
		[]Desc{a, b},
		func(vals []any) (R, error) { return mapf(as[A](vals[0]), as[B](vals[1])), nil },
		func(val R) []any {
			v0, v1 := unmapf(val)
			return []any{v0, v1}
		},
	)
}

// Composite of 3 children. See `Compose`.
func Compose3[A, B, C, R any](
	a Codec[A], b Codec[B], c Codec[C],
	mapf func(A, B, C) R,
	unmapf func(R) (A, B, C),
) *Composite[R] {
	return Compose(
		[]Desc{a, b, c},
		func(vals []any) (R, error) { return mapf(as[A](vals[0]), as[B](vals[1]), as[C](vals[2])), nil },
		func(val R) []any {
			v0, v1, v2 := unmapf(val)
			return []any{v0, v1, v2}
		},
	)
}

// Composite of 4 children. See `Compose`.
func Compose4[A, B, C, D, R any](
	a Codec[A], b Codec[B], c Codec[C], d Codec[D],
	mapf func(A, B, C, D) R,
	unmapf func(R) (A, B, C, D),
) *Composite[R] {
	return Compose(
		[]Desc{a, b, c, d},
		func(vals []any) (R, error) { return mapf(as[A](vals[0]), as[B](vals[1]), as[C](vals[2]), as[D](vals[3])), nil },
		func(val R) []any {
			v0, v1, v2, v3 := unmapf(val)
			return []any{v0, v1, v2, v3}
		},
	)
}

// Composite of 5 children. See `Compose`.
func Compose5[A, B, C, D, E, R any](
	a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E],
	mapf func(A, B, C, D, E) R,
	unmapf func(R) (A, B, C, D, E),
) *Composite[R] {
	return Compose(
		[]Desc{a, b, c, d, e},
		func(vals []any) (R, error) { return mapf(as[A](vals[0]), as[B](vals[1]), as[C](vals[2]), as[D](vals[3]), as[E](vals[4])), nil },
		func(val R) []any {
			v0, v1, v2, v3, v4 := unmapf(val)
			return []any{v0, v1, v2, v3, v4}
		},
	)
}

// Composite of 6 children. See `Compose`.
func Compose6[A, B, C, D, E, F, R any](
	a Codec[A], b Codec[B], c Codec[C], d Codec[D], e Codec[E], f Codec[F],
	mapf func(A, B, C, D, E, F) R,
	unmapf func(R) (A, B, C, D, E, F),
) *Composite[R] {
	return Compose(
		[]Desc{a, b, c, d, e, f},
		func(vals []any) (R, error) { return mapf(as[A](vals[0]), as[B](vals[1]), as[C](vals[2]), as[D](vals[3]), as[E](vals[4]), as[F](vals[5])), nil },
		func(val R) []any {
			v0, v1, v2, v3, v4, v5 := unmapf(val)
			return []any{v0, v1, v2, v3, v4, v5}
		},
	)
}
