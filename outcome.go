// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"net/http"
	"strings"
)

// AttemptedMethods is a set of HTTP methods that were tried against a
// resource. Sets combine with the | operator.
type AttemptedMethods uint16

const (
	AttemptedGet AttemptedMethods = 1 << iota
	AttemptedPost
	AttemptedPut
	AttemptedDelete
	AttemptedHead
	AttemptedOptions
	AttemptedConnect
	AttemptedPatch
	AttemptedTrace
)

var attemptedMethodNames = []struct {
	method AttemptedMethods
	name   string
}{
	{AttemptedGet, http.MethodGet},
	{AttemptedPost, http.MethodPost},
	{AttemptedPut, http.MethodPut},
	{AttemptedDelete, http.MethodDelete},
	{AttemptedHead, http.MethodHead},
	{AttemptedOptions, http.MethodOptions},
	{AttemptedConnect, http.MethodConnect},
	{AttemptedPatch, http.MethodPatch},
	{AttemptedTrace, http.MethodTrace},
}

// String renders the set in Allow header form, e.g. "GET, HEAD".
func (a AttemptedMethods) String() string {
	var sb strings.Builder
	for _, m := range attemptedMethodNames {
		if a&m.method == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.name)
	}
	return sb.String()
}

// Forwarding classifies a forwarded (non-matching) outcome.
//
// The zero Forwarding means the resource was not found and maps to a 404
// response by default. A Forwarding carrying attempted methods means the
// resource exists but was accessed with a method that is not allowed,
// mapping to a 405 response with an Allow header.
type Forwarding struct {
	attempted AttemptedMethods
}

// NotFound returns the not-found Forwarding, the identity for [Forwarding.Combine].
func NotFound() Forwarding {
	return Forwarding{}
}

// MethodNotAllowed returns a Forwarding recording the methods that were
// attempted. A zero method set is indistinguishable from [NotFound].
func MethodNotAllowed(attempted AttemptedMethods) Forwarding {
	return Forwarding{attempted: attempted}
}

// IsNotFound reports whether f carries no attempted methods.
func (f Forwarding) IsNotFound() bool {
	return f.attempted == 0
}

// Attempted returns the attempted method set.
func (f Forwarding) Attempted() AttemptedMethods {
	return f.attempted
}

// Combine merges the reasons of two forwarded alternatives. It is
// commutative and associative, and [NotFound] is its identity: two
// method-not-allowed reasons union their method sets, and not-found
// yields to any method-not-allowed.
func (f Forwarding) Combine(other Forwarding) Forwarding {
	return Forwarding{attempted: f.attempted | other.attempted}
}

// Respond implements the [Responder] interface, producing the default
// response for an unresolved forwarding.
func (f Forwarding) Respond() Response {
	if f.IsNotFound() {
		return StatusResponse(http.StatusNotFound)
	}
	return StatusResponse(http.StatusMethodNotAllowed).
		WithHeader("Allow", f.attempted.String())
}

type outcomeKind uint8

const (
	kindSuccess outcomeKind = iota
	kindError
	kindForward
)

// Outcome is the tri-state result of executing a [Filter]: success with
// output values, a terminal error, or a forward carrying the filter's
// untouched input so that an alternative may retry it.
type Outcome struct {
	kind    outcomeKind
	success Values
	err     error
	input   Values
	reason  Forwarding
}

// Success returns a successful Outcome carrying vs.
func Success(vs Values) Outcome {
	return Outcome{kind: kindSuccess, success: vs}
}

// Fail returns an error Outcome. Errors are terminal for the current
// alternative: [Or] does not retry them, only a [Recover] whose declared
// type matches err's dynamic type may intercept them.
func Fail(err error) Outcome {
	return Outcome{kind: kindError, err: err}
}

// Forward returns a forwarded Outcome. input must be exactly the input
// the filter received, so an alternative can safely retry it.
func Forward(input Values, reason Forwarding) Outcome {
	return Outcome{kind: kindForward, input: input, reason: reason}
}

// Succeeded reports whether the outcome is a success.
func (o Outcome) Succeeded() bool { return o.kind == kindSuccess }

// Failed reports whether the outcome is an error.
func (o Outcome) Failed() bool { return o.kind == kindError }

// Forwarded reports whether the outcome is a forward.
func (o Outcome) Forwarded() bool { return o.kind == kindForward }

// SuccessValues returns the success values. It is nil unless
// [Outcome.Succeeded].
func (o Outcome) SuccessValues() Values { return o.success }

// Err returns the terminal error. It is nil unless [Outcome.Failed].
func (o Outcome) Err() error { return o.err }

// ForwardedInput returns the input carried by a forward.
func (o Outcome) ForwardedInput() Values { return o.input }

// Reason returns the forwarding reason.
func (o Outcome) Reason() Forwarding { return o.reason }

// mapSuccess transforms the success values, leaving error and forward
// outcomes untouched.
func (o Outcome) mapSuccess(fn func(Values) Values) Outcome {
	if o.kind != kindSuccess {
		return o
	}
	return Success(fn(o.success))
}

// mapInput transforms the forwarded input, leaving success and error
// outcomes untouched.
func (o Outcome) mapInput(fn func(Values) Values) Outcome {
	if o.kind != kindForward {
		return o
	}
	return Forward(fn(o.input), o.reason)
}
