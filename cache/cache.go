// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cache provides filters for conditional request handling.
package cache

import (
	"context"
	"net/http"
	"time"

	"github.com/patrick-gu/myth"
)

// InvalidIfModifiedSinceError is the error outcome of
// [IfUnmodifiedSince] when the If-Modified-Since header does not parse
// as an HTTP date.
type InvalidIfModifiedSinceError struct {
	Value string
}

func (e InvalidIfModifiedSinceError) Error() string {
	return "invalid If-Modified-Since header: " + e.Value
}

// Respond implements [myth.Responder] with a plain 400.
func (e InvalidIfModifiedSinceError) Respond() myth.Response {
	return myth.StatusResponse(http.StatusBadRequest)
}

// IfUnmodifiedSince returns a filter serving 304 Not Modified to
// revalidation requests. Its input is the resource's last modification
// time; when a GET or HEAD request carries an If-Modified-Since header
// newer than that time, the filter succeeds with an empty 304 response.
// Everything else forwards with not-found, carrying the modification
// time along, so a following [myth.Or] branch can produce the resource.
//
// Compose it in front of the real handler:
//
//	cached := myth.Then(myth.Provide(modTime), cache.IfUnmodifiedSince())
//	filter := myth.Or(cached, handler)
func IfUnmodifiedSince() myth.Filter {
	return myth.FilterFunc(1, 1, func(_ context.Context, req *myth.Request, _ *myth.State, input myth.Values) myth.Outcome {
		modified := input[0].(time.Time)

		if req.Method() != http.MethodGet && req.Method() != http.MethodHead {
			return myth.Forward(input, myth.NotFound())
		}
		value := req.HeaderValue("If-Modified-Since")
		if value == nil {
			return myth.Forward(input, myth.NotFound())
		}
		cached, err := http.ParseTime(*value)
		if err != nil {
			return myth.Fail(InvalidIfModifiedSinceError{Value: *value})
		}
		if cached.After(modified) {
			return myth.Success(myth.One(myth.NewResponse().WithStatus(http.StatusNotModified)))
		}
		return myth.Forward(input, myth.NotFound())
	})
}
