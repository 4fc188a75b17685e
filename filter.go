// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"context"
	"fmt"
)

// Filter is the building block of request handling. A filter consumes an
// input [Values] list of its declared input arity and resolves to an
// [Outcome]: success values of its declared success arity, a terminal
// error, or a forward carrying the untouched input.
//
// Execute may block on the operations of its children (body reads,
// handler functions); composition itself adds no suspension. The State is
// mutated in place and is always in a consistent state when Execute
// returns, whatever the outcome.
type Filter interface {
	Execute(ctx context.Context, req *Request, state *State, input Values) Outcome

	// InputArity is the declared length of the input Values list.
	InputArity() int

	// SuccessArity is the declared length of the success Values list.
	SuccessArity() int
}

// FilterFunc adapts a function into a [Filter] with the given declared
// arities. It is the extension point for leaf filters; the path, body and
// header packages are built on it.
func FilterFunc(inputArity, successArity int, fn func(ctx context.Context, req *Request, state *State, input Values) Outcome) Filter {
	if inputArity < 0 || inputArity > MaxArity {
		panic(fmt.Sprintf("myth: FilterFunc input arity %d out of range", inputArity))
	}
	if successArity < 0 || successArity > MaxArity {
		panic(fmt.Sprintf("myth: FilterFunc success arity %d out of range", successArity))
	}
	return funcFilter{in: inputArity, out: successArity, fn: fn}
}

type funcFilter struct {
	in, out int
	fn      func(context.Context, *Request, *State, Values) Outcome
}

func (f funcFilter) Execute(ctx context.Context, req *Request, state *State, input Values) Outcome {
	return f.fn(ctx, req, state, input)
}

func (f funcFilter) InputArity() int   { return f.in }
func (f funcFilter) SuccessArity() int { return f.out }

// requireUnitInput panics unless f declares an empty input, for
// combinators whose first filter must not consume input.
func requireUnitInput(op string, f Filter) {
	if f.InputArity() != 0 {
		panic(fmt.Sprintf("myth: %s requires a first filter with unit input, got input arity %d", op, f.InputArity()))
	}
}
