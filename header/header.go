// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package header provides filters that extract request header values.
package header

import (
	"context"
	"mime"

	"github.com/patrick-gu/myth"
)

// All returns a filter extracting the full request header map. It always
// succeeds.
func All() myth.Filter {
	return myth.FilterFunc(0, 1, func(_ context.Context, req *myth.Request, _ *myth.State, _ myth.Values) myth.Outcome {
		return myth.Success(myth.One(req.Header()))
	})
}

// Optional returns a filter extracting the first value of the named
// header, or nil when the header is absent. It always succeeds.
func Optional(name string) myth.Filter {
	return myth.FilterFunc(0, 1, func(_ context.Context, req *myth.Request, _ *myth.State, _ myth.Values) myth.Outcome {
		return myth.Success(myth.One(req.HeaderValue(name)))
	})
}

// missingError marks an absent required header inside [Value].
type missingError struct {
	name string
}

func (e missingError) Error() string {
	return "missing required header " + e.name
}

// Value returns a filter extracting the first value of the named header.
// An absent header forwards with not-found.
func Value(name string) myth.Filter {
	required := myth.Handle1[*string, string](Optional(name), func(_ context.Context, v *string) (string, error) {
		if v == nil {
			return "", missingError{name: name}
		}
		return *v, nil
	})
	return myth.RecoverForward[missingError](required, func(_ context.Context, _ missingError) (myth.Forwarding, error) {
		return myth.NotFound(), nil
	})
}

// ContentType returns a filter extracting the request's media type. It
// always succeeds with two values: the parsed media type, normalized to
// lowercase with parameters stripped, and the raw Content-Type header
// value, nil when the header is absent. An unparseable header leaves the
// media type empty while keeping the raw value.
func ContentType() myth.Filter {
	return myth.FilterFunc(0, 2, func(_ context.Context, req *myth.Request, _ *myth.State, _ myth.Values) myth.Outcome {
		raw := req.HeaderValue("Content-Type")
		var mediaType string
		if raw != nil {
			if mt, _, err := mime.ParseMediaType(*raw); err == nil {
				mediaType = mt
			}
		}
		return myth.Success(myth.Values{mediaType, raw})
	})
}
