// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"context"
	"fmt"
)

type andFilter struct {
	first  Filter
	second Filter
}

// And sequences two filters, requiring both to succeed and joining their
// success values with first's as the prefix.
//
// first runs with unit input and must declare one. On its success, second
// runs with the composite's original input. If first fails the error
// propagates immediately; if first forwards, the forward carries the
// untouched original input and second never runs.
//
// And panics if first declares a non-unit input or the combined success
// arity exceeds [MaxArity].
func And(first, second Filter) Filter {
	requireUnitInput("And", first)
	if first.SuccessArity()+second.SuccessArity() > MaxArity {
		panic(fmt.Sprintf("myth: And success arity %d exceeds MaxArity", first.SuccessArity()+second.SuccessArity()))
	}
	return andFilter{first: first, second: second}
}

func (f andFilter) Execute(ctx context.Context, req *Request, state *State, input Values) Outcome {
	out := f.first.Execute(ctx, req, state, nil)
	switch {
	case out.Succeeded():
		firstSuccess := out.SuccessValues()
		return f.second.Execute(ctx, req, state, input).mapSuccess(func(secondSuccess Values) Values {
			return Append(firstSuccess, secondSuccess)
		})
	case out.Forwarded():
		return Forward(input, out.Reason())
	default:
		return out
	}
}

func (f andFilter) InputArity() int { return f.second.InputArity() }

func (f andFilter) SuccessArity() int {
	return f.first.SuccessArity() + f.second.SuccessArity()
}
