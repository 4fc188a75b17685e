// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"context"
	"fmt"
)

// HandlerFunc is a bound function invoked with a filter's success values.
// A non-nil error becomes an error outcome; otherwise the returned value
// becomes a one-element success.
type HandlerFunc func(ctx context.Context, vs Values) (any, error)

type handleFilter struct {
	filter Filter
	fn     HandlerFunc
}

// Handle binds a function to a filter's success. When the filter
// succeeds, fn is called with the success values and its result becomes a
// one-element success outcome. Error and forward outcomes of the filter
// propagate unmodified; fn never runs for them.
//
// Prefer the typed variants [Handle0], [Handle1], [Handle2] and [Handle3]
// where the filter's success arity is fixed.
func Handle(f Filter, fn HandlerFunc) Filter {
	return handleFilter{filter: f, fn: fn}
}

func (f handleFilter) Execute(ctx context.Context, req *Request, state *State, input Values) Outcome {
	out := f.filter.Execute(ctx, req, state, input)
	if !out.Succeeded() {
		return out
	}
	v, err := f.fn(ctx, out.SuccessValues())
	if err != nil {
		return Fail(err)
	}
	return Success(One(v))
}

func (f handleFilter) InputArity() int   { return f.filter.InputArity() }
func (f handleFilter) SuccessArity() int { return 1 }

func requireSuccessArity(op string, f Filter, arity int) {
	if f.SuccessArity() != arity {
		panic(fmt.Sprintf("myth: %s requires a filter with success arity %d, got %d", op, arity, f.SuccessArity()))
	}
}

// Handle0 binds a no-argument function to a filter with an empty success.
func Handle0[T any](f Filter, fn func(ctx context.Context) (T, error)) Filter {
	requireSuccessArity("Handle0", f, 0)
	return Handle(f, func(ctx context.Context, _ Values) (any, error) {
		return fn(ctx)
	})
}

// Handle1 binds a one-argument function to a filter with success arity 1.
func Handle1[A, T any](f Filter, fn func(ctx context.Context, a A) (T, error)) Filter {
	requireSuccessArity("Handle1", f, 1)
	return Handle(f, func(ctx context.Context, vs Values) (any, error) {
		return fn(ctx, element[A](vs, 0))
	})
}

// Handle2 binds a two-argument function to a filter with success arity 2.
func Handle2[A, B, T any](f Filter, fn func(ctx context.Context, a A, b B) (T, error)) Filter {
	requireSuccessArity("Handle2", f, 2)
	return Handle(f, func(ctx context.Context, vs Values) (any, error) {
		return fn(ctx, element[A](vs, 0), element[B](vs, 1))
	})
}

// Handle3 binds a three-argument function to a filter with success arity 3.
func Handle3[A, B, C, T any](f Filter, fn func(ctx context.Context, a A, b B, c C) (T, error)) Filter {
	requireSuccessArity("Handle3", f, 3)
	return Handle(f, func(ctx context.Context, vs Values) (any, error) {
		return fn(ctx, element[A](vs, 0), element[B](vs, 1), element[C](vs, 2))
	})
}
