// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"context"
	"net/http"
)

func methodFilter(method string, attempted AttemptedMethods) Filter {
	return FilterFunc(0, 0, func(_ context.Context, req *Request, _ *State, _ Values) Outcome {
		if req.Method() == method {
			return Success(nil)
		}
		return Forward(nil, MethodNotAllowed(attempted))
	})
}

// Get returns a filter that succeeds if the request method is GET and
// forwards with a method-not-allowed reason otherwise.
func Get() Filter { return methodFilter(http.MethodGet, AttemptedGet) }

// Post returns a filter matching the POST method.
func Post() Filter { return methodFilter(http.MethodPost, AttemptedPost) }

// Put returns a filter matching the PUT method.
func Put() Filter { return methodFilter(http.MethodPut, AttemptedPut) }

// Delete returns a filter matching the DELETE method.
func Delete() Filter { return methodFilter(http.MethodDelete, AttemptedDelete) }

// Head returns a filter matching the HEAD method.
func Head() Filter { return methodFilter(http.MethodHead, AttemptedHead) }

// Options returns a filter matching the OPTIONS method.
func Options() Filter { return methodFilter(http.MethodOptions, AttemptedOptions) }

// Connect returns a filter matching the CONNECT method.
func Connect() Filter { return methodFilter(http.MethodConnect, AttemptedConnect) }

// Patch returns a filter matching the PATCH method.
func Patch() Filter { return methodFilter(http.MethodPatch, AttemptedPatch) }

// Trace returns a filter matching the TRACE method.
func Trace() Filter { return methodFilter(http.MethodTrace, AttemptedTrace) }
