// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import "context"

// DynamicFilter erases a concrete filter chain behind a small, cheaply
// copyable handle. Behaviorally it is identical to the wrapped chain; it
// exists so deeply composed chains can be stored, shared and passed
// around under one type.
type DynamicFilter struct {
	inner        Filter
	inputArity   int
	successArity int
}

// Dynamic wraps f in a [DynamicFilter].
func Dynamic(f Filter) DynamicFilter {
	return DynamicFilter{
		inner:        f,
		inputArity:   f.InputArity(),
		successArity: f.SuccessArity(),
	}
}

// Execute implements the [Filter] interface by delegating to the wrapped
// chain.
func (f DynamicFilter) Execute(ctx context.Context, req *Request, state *State, input Values) Outcome {
	return f.inner.Execute(ctx, req, state, input)
}

func (f DynamicFilter) InputArity() int   { return f.inputArity }
func (f DynamicFilter) SuccessArity() int { return f.successArity }
