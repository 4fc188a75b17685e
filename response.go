// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import "net/http"

// Response is what the resolution engine hands back to the transport for
// serialization: a status code, a header multimap and a body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewResponse returns an empty 200 response.
func NewResponse() Response {
	return Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
	}
}

// StatusResponse returns a response for the given status code whose body
// is the status text, e.g. "Not Found" for 404.
func StatusResponse(code int) Response {
	return Text(http.StatusText(code)).Respond().WithStatus(code)
}

// WithStatus sets the status code.
func (r Response) WithStatus(code int) Response {
	r.StatusCode = code
	return r
}

// WithHeader sets a header, replacing any existing values for the name.
func (r Response) WithHeader(name, value string) Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(name, value)
	return r
}

// AddHeader appends a header value in addition to any existing values for
// the name.
func (r Response) AddHeader(name, value string) Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Add(name, value)
	return r
}

// Respond implements the [Responder] interface.
func (r Response) Respond() Response {
	return r
}

// Responder is implemented by values that can be converted into a
// [Response]. Handlers typically return a Responder; error types may also
// implement it to control their default response.
type Responder interface {
	Respond() Response
}

// Text is a plain-text response body with a
// "text/plain; charset=utf-8" content type.
type Text string

// Respond implements the [Responder] interface.
func (t Text) Respond() Response {
	return Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
		Body:       []byte(t),
	}
}

// Binary is a raw response body with an "application/octet-stream"
// content type.
type Binary []byte

// Respond implements the [Responder] interface.
func (b Binary) Respond() Response {
	return Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"application/octet-stream"}},
		Body:       b,
	}
}

// HTML wraps a responder's body with a "text/html; charset=utf-8" content
// type.
func HTML(r Responder) Response {
	return r.Respond().WithHeader("Content-Type", "text/html; charset=utf-8")
}

// Respond converts a success value to a Response. Plain strings and byte
// slices are accepted as shorthand for [Text] and [Binary]; any other
// value that is not a [Responder] becomes a plain 500.
func Respond(v any) Response {
	switch v := v.(type) {
	case Responder:
		return v.Respond()
	case string:
		return Text(v).Respond()
	case []byte:
		return Binary(v).Respond()
	default:
		return StatusResponse(http.StatusInternalServerError)
	}
}
