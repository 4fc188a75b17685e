// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package form provides filters that decode form request bodies, both
// application/x-www-form-urlencoded and multipart/form-data.
package form

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/patrick-gu/myth"
	"github.com/patrick-gu/myth/body"
	"github.com/patrick-gu/myth/header"
	"github.com/patrick-gu/myth/internal/urlform"
)

// ErrorKind discriminates the failure modes of [Urlencoded] and
// [Multipart].
type ErrorKind int

const (
	// NoContentType means the Content-Type header was absent.
	NoContentType ErrorKind = iota

	// WrongContentType means the Content-Type header did not name the
	// expected form media type. For multipart this includes a missing
	// boundary parameter.
	WrongContentType

	// Reading means the request body could not be read.
	Reading

	// Decoding means the request body was not valid form data for the
	// target type.
	Decoding
)

// Error is the error outcome of [Urlencoded] and [Multipart].
type Error struct {
	Kind ErrorKind

	// ContentType is the raw Content-Type header for [WrongContentType].
	ContentType string

	// Cause is the underlying error for [Reading] and [Decoding].
	Cause error
}

func (e Error) Error() string {
	switch e.Kind {
	case NoContentType:
		return "missing form content type"
	case WrongContentType:
		return "expected a form content type, instead got " + e.ContentType
	case Reading:
		return "error while reading body as form data: " + e.Cause.Error()
	default:
		return "error while decoding body as form data: " + e.Cause.Error()
	}
}

func (e Error) Unwrap() error {
	return e.Cause
}

// Respond implements [myth.Responder]: 415 for content type mismatches,
// 400 for read and decode failures.
func (e Error) Respond() myth.Response {
	switch e.Kind {
	case NoContentType, WrongContentType:
		return myth.StatusResponse(http.StatusUnsupportedMediaType)
	default:
		return myth.StatusResponse(http.StatusBadRequest)
	}
}

func recoveredBody() myth.Filter {
	return myth.Recover[body.ReadError](body.All(), func(_ context.Context, err body.ReadError) (any, error) {
		return nil, Error{Kind: Reading, Cause: err}
	})
}

// Urlencoded returns a filter decoding an
// application/x-www-form-urlencoded request body into T. Struct fields
// are matched by their mapstructure tags, and scalar fields accept
// weakly typed conversion from the form's string values.
func Urlencoded[T any]() myth.Filter {
	checked := myth.Handle2[string, *string, myth.Values](header.ContentType(), func(_ context.Context, mediaType string, raw *string) (myth.Values, error) {
		if mediaType == "application/x-www-form-urlencoded" {
			return nil, nil
		}
		if raw == nil {
			return nil, Error{Kind: NoContentType}
		}
		return nil, Error{Kind: WrongContentType, ContentType: *raw}
	})
	gate := myth.Untuple(checked, 0)

	return myth.Handle1[*body.Buffer, T](myth.And(gate, recoveredBody()), func(_ context.Context, buf *body.Buffer) (T, error) {
		var out T
		raw, err := io.ReadAll(buf)
		if err != nil {
			return out, Error{Kind: Reading, Cause: err}
		}
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return out, Error{Kind: Decoding, Cause: err}
		}
		if err := urlform.Decode(values, &out); err != nil {
			return out, Error{Kind: Decoding, Cause: err}
		}
		return out, nil
	})
}

// Multipart returns a filter matching multipart/form-data requests and
// extracting a [multipart.Reader] over the request body. A missing or
// boundary-less Content-Type fails with an [Error].
func Multipart() myth.Filter {
	boundary := myth.Handle2[string, *string, string](header.ContentType(), func(_ context.Context, mediaType string, raw *string) (string, error) {
		if mediaType == "multipart/form-data" && raw != nil {
			if _, params, err := mime.ParseMediaType(*raw); err == nil {
				if b := params["boundary"]; b != "" {
					return b, nil
				}
			}
		}
		if raw == nil {
			return "", Error{Kind: NoContentType}
		}
		return "", Error{Kind: WrongContentType, ContentType: *raw}
	})

	return myth.Handle2[string, *body.Buffer, *multipart.Reader](myth.And(boundary, recoveredBody()), func(_ context.Context, boundary string, buf *body.Buffer) (*multipart.Reader, error) {
		return multipart.NewReader(buf, boundary), nil
	})
}
