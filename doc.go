// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package myth resolves HTTP requests by running them through composable
// chains of small matching and handling steps called filters.
//
// A [Filter] optionally consumes some input values and produces one of
// three outcomes: it succeeds with output values, fails with an error, or
// forwards, meaning "this request does not match here, try something
// else".
//
// A minimal filter chain looks like this:
//
//	filter := myth.Handle0(myth.Any(), func(ctx context.Context) (myth.Text, error) {
//		return "Hello World!", nil
//	})
//
// Filters compose: [And] sequences two filters, [Or] tries an alternative
// when the first forwards, [Recover] intercepts typed errors. Route
// matching lives in the path package, request bodies in the body package,
// and the net/http bridge in the server package.
//
// The input and output of a filter are a [Values] list, an ordered
// heterogeneous sequence with a declared arity that is fixed when the
// filter is constructed. Composition mistakes (sequencing a filter that
// demands input, exceeding [MaxArity], mismatched alternative shapes)
// panic at construction time rather than surfacing per request.
package myth
