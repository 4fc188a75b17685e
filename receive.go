// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"context"
	"fmt"
)

type receiveFilter struct {
	filter Filter
	arity  int
}

// Receive injects a caller-supplied prefix of the given arity into a
// filter chain: the composite splits the prefix off its combined input
// before running the inner filter, then re-prepends it onto both the
// resulting success values and any forwarded input. Downstream steps can
// this way consume a previously computed value (say, a response under
// construction) without the inner filter's declared arities widening.
//
// Receive panics if arity is negative or the combined arities exceed
// [MaxArity].
func Receive(f Filter, arity int) Filter {
	if arity < 0 {
		panic(fmt.Sprintf("myth: Receive arity %d is negative", arity))
	}
	if arity+f.InputArity() > MaxArity || arity+f.SuccessArity() > MaxArity {
		panic("myth: Receive combined arity exceeds MaxArity")
	}
	return receiveFilter{filter: f, arity: arity}
}

func (f receiveFilter) Execute(ctx context.Context, req *Request, state *State, input Values) Outcome {
	prefix, rest := Split(input, f.arity)
	out := f.filter.Execute(ctx, req, state, rest)
	switch {
	case out.Succeeded():
		return Success(Append(prefix, out.SuccessValues()))
	case out.Forwarded():
		return Forward(Append(prefix, out.ForwardedInput()), out.Reason())
	default:
		return out
	}
}

func (f receiveFilter) InputArity() int   { return f.arity + f.filter.InputArity() }
func (f receiveFilter) SuccessArity() int { return f.arity + f.filter.SuccessArity() }
