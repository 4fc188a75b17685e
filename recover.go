// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import "context"

type recoverFilter struct {
	filter Filter
	match  func(error) (Values, error, bool)
}

// Recover intercepts error outcomes of f whose dynamic type is exactly E
// and converts them back into values. The filter must declare success
// arity 1; on a matched error the recovery function's result replaces the
// success value.
//
// Matching is by dynamic type identity, not by [errors.As] unwrapping: a
// Recover for a concrete E intercepts only errors created from that exact
// type, so nested recoveries can each claim their own error. Declaring E
// as the error interface itself is the supported catch-all: it matches
// every error and is intended as top-level fallback wiring.
//
// On success, the filter's own or a recovered one, the path cursor is
// restored to its value at entry, undoing partial consumption accrued
// along a failing sub-path. If the recovery function itself errors, that
// error propagates. Forward outcomes pass through untouched, as do errors
// whose type is not E, letting an outer Recover try them.
func Recover[E any](f Filter, fn func(ctx context.Context, err E) (any, error)) Filter {
	requireSuccessArity("Recover", f, 1)
	return recoverWith(f, func(ctx context.Context, boxed error) (Outcome, bool) {
		typed, ok := any(boxed).(E)
		if !ok {
			return Outcome{}, false
		}
		v, err := fn(ctx, typed)
		if err != nil {
			return Fail(err), true
		}
		return Success(One(v)), true
	})
}

type typedRecovery func(ctx context.Context, boxed error) (Outcome, bool)

func recoverWith(f Filter, rec typedRecovery) Filter {
	return recoverExec{filter: f, rec: rec}
}

type recoverExec struct {
	filter Filter
	rec    typedRecovery
}

func (f recoverExec) Execute(ctx context.Context, req *Request, state *State, input Values) Outcome {
	entry := state.PathOffset()

	out := f.filter.Execute(ctx, req, state, input)
	switch {
	case out.Succeeded():
		state.RestorePathOffset(entry)
		return out
	case out.Failed():
		recovered, ok := f.rec(ctx, out.Err())
		if !ok {
			return out
		}
		if recovered.Succeeded() {
			state.RestorePathOffset(entry)
		}
		return recovered
	default:
		return out
	}
}

func (f recoverExec) InputArity() int   { return f.filter.InputArity() }
func (f recoverExec) SuccessArity() int { return f.filter.SuccessArity() }

type recoverForwardFilter struct {
	filter Filter
	rec    typedRecovery
}

// RecoverForward intercepts error outcomes of f whose dynamic type is
// exactly E, under the same matching rules as [Recover], but converts the
// recovered error into a forwarding reason instead of a value, letting
// recovered failures rejoin [Or]-style fallback. The filter must declare
// unit input; a recovered error becomes a forward of that unit input.
//
// Success and forward outcomes pass through untouched, as do errors of
// other types.
func RecoverForward[E any](f Filter, fn func(ctx context.Context, err E) (Forwarding, error)) Filter {
	requireUnitInput("RecoverForward", f)
	return recoverForwardFilter{filter: f, rec: func(ctx context.Context, boxed error) (Outcome, bool) {
		typed, ok := any(boxed).(E)
		if !ok {
			return Outcome{}, false
		}
		reason, err := fn(ctx, typed)
		if err != nil {
			return Fail(err), true
		}
		return Forward(nil, reason), true
	}}
}

func (f recoverForwardFilter) Execute(ctx context.Context, req *Request, state *State, input Values) Outcome {
	out := f.filter.Execute(ctx, req, state, nil)
	if !out.Failed() {
		return out
	}
	recovered, ok := f.rec(ctx, out.Err())
	if !ok {
		return out
	}
	return recovered
}

func (f recoverForwardFilter) InputArity() int   { return 0 }
func (f recoverForwardFilter) SuccessArity() int { return f.filter.SuccessArity() }
