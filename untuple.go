// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"context"
	"fmt"
)

type untupleFilter struct {
	filter Filter
	arity  int
}

// Untuple flattens one nesting level: where a filter's single success
// element is itself a [Values] list, the composite's success is that
// inner list. Handlers that produce several values (or none) return a
// Values and are unwrapped this way.
//
// arity declares the inner list's length, fixing the composite's success
// arity; a mismatch at execution time panics. Untuple panics at
// construction if the filter's success arity is not 1.
func Untuple(f Filter, arity int) Filter {
	requireSuccessArity("Untuple", f, 1)
	if arity < 0 || arity > MaxArity {
		panic(fmt.Sprintf("myth: Untuple arity %d out of range", arity))
	}
	return untupleFilter{filter: f, arity: arity}
}

func (f untupleFilter) Execute(ctx context.Context, req *Request, state *State, input Values) Outcome {
	return f.filter.Execute(ctx, req, state, input).mapSuccess(func(vs Values) Values {
		inner, ok := vs.Single().(Values)
		if !ok {
			panic(fmt.Sprintf("myth: Untuple success element has type %T, not Values", vs.Single()))
		}
		if len(inner) != f.arity {
			panic(fmt.Sprintf("myth: Untuple declared arity %d but inner list has arity %d", f.arity, len(inner)))
		}
		return inner
	})
}

func (f untupleFilter) InputArity() int   { return f.filter.InputArity() }
func (f untupleFilter) SuccessArity() int { return f.arity }
