// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package query provides filters that extract the request query string.
package query

import (
	"context"
	"net/http"
	"net/url"

	"github.com/patrick-gu/myth"
	"github.com/patrick-gu/myth/internal/urlform"
)

// Optional returns a filter extracting the raw query string, or nil when
// the request has none. It always succeeds.
func Optional() myth.Filter {
	return myth.Handle1[*url.URL, *string](myth.URI(), func(_ context.Context, u *url.URL) (*string, error) {
		if u.RawQuery == "" && !u.ForceQuery {
			return nil, nil
		}
		q := u.RawQuery
		return &q, nil
	})
}

// DecodeError is the error outcome of [Decode].
type DecodeError struct {
	// Cause is the underlying parse or decode error. It is nil when the
	// request had no query string at all.
	Cause error
}

func (e DecodeError) Error() string {
	if e.Cause == nil {
		return "no query was present"
	}
	return "failed to decode query: " + e.Cause.Error()
}

func (e DecodeError) Unwrap() error {
	return e.Cause
}

// Respond implements [myth.Responder] with a plain 400.
func (e DecodeError) Respond() myth.Response {
	return myth.StatusResponse(http.StatusBadRequest)
}

// Decode returns a filter decoding the query string into T. Struct
// fields are matched by their mapstructure tags, and scalar fields
// accept weakly typed conversion from the query's string values. An
// absent or undecodable query fails with [DecodeError].
func Decode[T any]() myth.Filter {
	return myth.Handle1[*string, T](Optional(), func(_ context.Context, raw *string) (T, error) {
		var out T
		if raw == nil {
			return out, DecodeError{}
		}
		values, err := url.ParseQuery(*raw)
		if err != nil {
			return out, DecodeError{Cause: err}
		}
		if err := urlform.Decode(values, &out); err != nil {
			return out, DecodeError{Cause: err}
		}
		return out, nil
	})
}
