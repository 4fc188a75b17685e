// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package json provides JSON request and response bodies.
package json

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/patrick-gu/myth"
	"github.com/patrick-gu/myth/body"
	"github.com/patrick-gu/myth/header"
)

// ErrorKind discriminates the failure modes of [Request].
type ErrorKind int

const (
	// NoContentType means the Content-Type header was absent.
	NoContentType ErrorKind = iota

	// WrongContentType means the Content-Type header was not
	// application/json.
	WrongContentType

	// Reading means the request body could not be read.
	Reading

	// Deserializing means the request body was not valid JSON for the
	// target type.
	Deserializing
)

// Error is the error outcome of [Request].
type Error struct {
	Kind ErrorKind

	// ContentType is the raw Content-Type header for [WrongContentType].
	ContentType string

	// Cause is the underlying error for [Reading] and [Deserializing].
	Cause error
}

func (e Error) Error() string {
	switch e.Kind {
	case NoContentType:
		return "missing application/json content type"
	case WrongContentType:
		return "expected application/json content type, instead got " + e.ContentType
	case Reading:
		return "error while reading body as JSON: " + e.Cause.Error()
	default:
		return "error while deserializing body as JSON: " + e.Cause.Error()
	}
}

func (e Error) Unwrap() error {
	return e.Cause
}

// Respond implements [myth.Responder]: 415 for content type mismatches,
// 400 for read and deserialization failures.
func (e Error) Respond() myth.Response {
	switch e.Kind {
	case NoContentType, WrongContentType:
		return myth.StatusResponse(http.StatusUnsupportedMediaType)
	default:
		return myth.StatusResponse(http.StatusBadRequest)
	}
}

// contentTypeGate succeeds with no values for application/json requests
// and fails with [Error] otherwise.
func contentTypeGate() myth.Filter {
	checked := myth.Handle2[string, *string, myth.Values](header.ContentType(), func(_ context.Context, mediaType string, raw *string) (myth.Values, error) {
		if mediaType == "application/json" {
			return nil, nil
		}
		if raw == nil {
			return nil, Error{Kind: NoContentType}
		}
		return nil, Error{Kind: WrongContentType, ContentType: *raw}
	})
	return myth.Untuple(checked, 0)
}

// Request returns a filter decoding the request body as JSON into T.
// Requests without an application/json Content-Type fail with an [Error]
// of kind [NoContentType] or [WrongContentType]; body read failures are
// rewrapped as kind [Reading].
func Request[T any]() myth.Filter {
	raw := myth.Recover[body.ReadError](body.All(), func(_ context.Context, err body.ReadError) (any, error) {
		return nil, Error{Kind: Reading, Cause: err}
	})
	return myth.Handle1[*body.Buffer, T](myth.And(contentTypeGate(), raw), func(_ context.Context, buf *body.Buffer) (T, error) {
		var out T
		if err := json.NewDecoder(buf).Decode(&out); err != nil {
			return out, Error{Kind: Deserializing, Cause: err}
		}
		return out, nil
	})
}

// Response serializes v as a JSON response body with an
// application/json content type.
func Response(v any) (myth.Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return myth.Response{}, err
	}
	return myth.Binary(b).Respond().WithHeader("Content-Type", "application/json"), nil
}
