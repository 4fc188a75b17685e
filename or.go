// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"context"
	"fmt"
)

type orFilter struct {
	first  Filter
	second Filter
}

// Or tries first and falls back to second if first forwards.
//
// Success and error outcomes of first pass through unchanged. On a
// forward, the path cursor is reset to its value at Or's entry,
// discarding any path speculatively consumed by the failed branch, and
// second runs with the forwarded input. If second also forwards, the
// cursor is reset again and the two forwarding reasons combine via
// [Forwarding.Combine].
//
// Or panics unless both filters declare the same input and success
// arities.
func Or(first, second Filter) Filter {
	if first.InputArity() != second.InputArity() {
		panic(fmt.Sprintf("myth: Or alternatives declare different input arities (%d and %d)", first.InputArity(), second.InputArity()))
	}
	if first.SuccessArity() != second.SuccessArity() {
		panic(fmt.Sprintf("myth: Or alternatives declare different success arities (%d and %d)", first.SuccessArity(), second.SuccessArity()))
	}
	return orFilter{first: first, second: second}
}

func (f orFilter) Execute(ctx context.Context, req *Request, state *State, input Values) Outcome {
	entry := state.PathOffset()

	out := f.first.Execute(ctx, req, state, input)
	if !out.Forwarded() {
		return out
	}
	firstReason := out.Reason()
	state.RestorePathOffset(entry)

	out = f.second.Execute(ctx, req, state, out.ForwardedInput())
	if !out.Forwarded() {
		return out
	}
	state.RestorePathOffset(entry)
	return Forward(out.ForwardedInput(), firstReason.Combine(out.Reason()))
}

func (f orFilter) InputArity() int   { return f.first.InputArity() }
func (f orFilter) SuccessArity() int { return f.first.SuccessArity() }
