// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import "fmt"

// MaxArity is the largest number of elements a [Values] list may hold.
// Filters whose combined success values would exceed it cannot be
// composed.
const MaxArity = 12

// Values is an ordered heterogeneous list of values flowing between
// filters. A filter's declared input and success arities refer to the
// length of these lists.
//
// A nil Values is the empty (unit) list.
type Values []any

// One returns a single-element list holding v.
func One(v any) Values {
	return Values{v}
}

// Single returns the element of a one-element list.
//
// It panics if the list does not have exactly one element.
func (vs Values) Single() any {
	if len(vs) != 1 {
		panic(fmt.Sprintf("myth: Single called on Values of arity %d", len(vs)))
	}
	return vs[0]
}

// Append concatenates two lists, preserving order. [Split] is its exact
// inverse.
//
// It panics if the combined arity exceeds [MaxArity].
func Append(a, b Values) Values {
	if len(a)+len(b) > MaxArity {
		panic(fmt.Sprintf("myth: appending Values of arities %d and %d exceeds MaxArity", len(a), len(b)))
	}
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	vs := make(Values, 0, len(a)+len(b))
	vs = append(vs, a...)
	return append(vs, b...)
}

// Split separates a list into its first n elements and the rest, undoing
// [Append].
//
// It panics if the list holds fewer than n elements.
func Split(vs Values, n int) (Values, Values) {
	if n < 0 || n > len(vs) {
		panic(fmt.Sprintf("myth: cannot split Values of arity %d at %d", len(vs), n))
	}
	if n == 0 {
		return nil, vs
	}
	if n == len(vs) {
		return vs, nil
	}
	return vs[:n:n], vs[n:]
}

// element asserts the type of vs[i], with an arity-aware panic message
// for handler adapters.
func element[T any](vs Values, i int) T {
	v, ok := vs[i].(T)
	if !ok {
		panic(fmt.Sprintf("myth: value %d has type %T, not the handler's declared type %T", i, vs[i], v))
	}
	return v
}
