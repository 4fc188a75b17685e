// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"context"
	"fmt"
)

type thenFilter struct {
	first  Filter
	second Filter

	// prependArity is the composite's declared input arity R: the part of
	// second's input that does not come from first's success.
	prependArity int
}

// Then sequences two filters like [And], except that the composite's
// declared input is prepended to first's success rather than appended
// after it: first runs with unit input, then second runs with
// input ++ first's success. The composite's success is second's success.
// If first forwards, the input is returned untouched.
//
// The composite's input arity is second's input arity minus first's
// success arity. Then panics if first declares a non-unit input or
// second's input is too small to contain first's success.
func Then(first, second Filter) Filter {
	requireUnitInput("Then", first)
	r := second.InputArity() - first.SuccessArity()
	if r < 0 {
		panic(fmt.Sprintf("myth: Then second filter input arity %d cannot contain first filter success arity %d", second.InputArity(), first.SuccessArity()))
	}
	return thenFilter{first: first, second: second, prependArity: r}
}

func (f thenFilter) Execute(ctx context.Context, req *Request, state *State, input Values) Outcome {
	out := f.first.Execute(ctx, req, state, nil)
	switch {
	case out.Succeeded():
		combined := Append(input, out.SuccessValues())
		return f.second.Execute(ctx, req, state, combined).mapInput(func(forwarded Values) Values {
			prefix, _ := Split(forwarded, f.prependArity)
			return prefix
		})
	case out.Forwarded():
		return Forward(input, out.Reason())
	default:
		return out
	}
}

func (f thenFilter) InputArity() int   { return f.prependArity }
func (f thenFilter) SuccessArity() int { return f.second.SuccessArity() }
