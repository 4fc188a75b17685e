// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package mythtest provides utilities to test filters without a server.
package mythtest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/netip"
	"net/url"
	"testing"

	"github.com/patrick-gu/myth"
	"github.com/stretchr/testify/require"
)

// RequestBuilder assembles a synthetic request and runs filters against
// it. The zero configuration is GET / over HTTP/1.1 with no headers and
// an empty body.
type RequestBuilder struct {
	method     string
	url        *url.URL
	proto      string
	header     http.Header
	remoteAddr netip.AddrPort
	body       [][]byte
	input      myth.Values
}

// New returns a builder for GET / HTTP/1.1.
func New() *RequestBuilder {
	return &RequestBuilder{
		method: http.MethodGet,
		url:    &url.URL{Path: "/"},
		proto:  "HTTP/1.1",
		header: make(http.Header),
	}
}

// Get returns a builder for a GET request.
func Get() *RequestBuilder { return New() }

// Post returns a builder for a POST request.
func Post() *RequestBuilder { return New().Method(http.MethodPost) }

// Put returns a builder for a PUT request.
func Put() *RequestBuilder { return New().Method(http.MethodPut) }

// Delete returns a builder for a DELETE request.
func Delete() *RequestBuilder { return New().Method(http.MethodDelete) }

// Patch returns a builder for a PATCH request.
func Patch() *RequestBuilder { return New().Method(http.MethodPatch) }

// Head returns a builder for a HEAD request.
func Head() *RequestBuilder { return New().Method(http.MethodHead) }

// Options returns a builder for an OPTIONS request.
func Options() *RequestBuilder { return New().Method(http.MethodOptions) }

// Method sets the request method.
func (b *RequestBuilder) Method(method string) *RequestBuilder {
	b.method = method
	return b
}

// URI sets the request URI. It panics if the URI does not parse.
func (b *RequestBuilder) URI(uri string) *RequestBuilder {
	u, err := url.Parse(uri)
	if err != nil {
		panic("mythtest: invalid request URI: " + err.Error())
	}
	b.url = u
	return b
}

// Version sets the protocol version, e.g. "HTTP/1.0".
func (b *RequestBuilder) Version(proto string) *RequestBuilder {
	b.proto = proto
	return b
}

// Header appends a request header. It does not replace existing values
// for the same name.
func (b *RequestBuilder) Header(name, value string) *RequestBuilder {
	b.header.Add(name, value)
	return b
}

// RemoteAddr sets the request's origin remote address.
func (b *RequestBuilder) RemoteAddr(addr netip.AddrPort) *RequestBuilder {
	b.remoteAddr = addr
	return b
}

// Body sets the request body to a single chunk.
func (b *RequestBuilder) Body(body []byte) *RequestBuilder {
	b.body = [][]byte{body}
	return b
}

// BodyString sets the request body to a single string chunk.
func (b *RequestBuilder) BodyString(body string) *RequestBuilder {
	return b.Body([]byte(body))
}

// BodyChunks sets the request body to arrive in the given chunks, each
// delivered by its own transport read.
func (b *RequestBuilder) BodyChunks(chunks ...[]byte) *RequestBuilder {
	b.body = chunks
	return b
}

// JSON sets the request body to the JSON serialization of v and the
// Content-Type to application/json. It panics if v does not serialize.
func (b *RequestBuilder) JSON(v any) *RequestBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		panic("mythtest: failed to serialize JSON request body: " + err.Error())
	}
	return b.Body(data).Header("Content-Type", "application/json")
}

// Input sets the values the filter will consume.
func (b *RequestBuilder) Input(vs ...any) *RequestBuilder {
	b.input = myth.Values(vs)
	return b
}

// Run executes the filter against the built request and returns the raw
// outcome.
func (b *RequestBuilder) Run(f myth.Filter) myth.Outcome {
	req, state := b.build()
	return f.Execute(context.Background(), req, state, b.input)
}

// Response executes the filter and converts its outcome into the
// response a server would send, including the 404 and 405 of forwards
// and the default responses of unhandled errors.
func (b *RequestBuilder) Response(f myth.Filter) myth.Response {
	return myth.ResponseOf(b.Run(f), nil)
}

// Succeed executes the filter, requires a success outcome, and returns
// its values.
func (b *RequestBuilder) Succeed(t *testing.T, f myth.Filter) myth.Values {
	t.Helper()

	out := b.Run(f)
	switch {
	case out.Failed():
		require.Fail(t, "expected success, instead got error", "%v", out.Err())
	case out.Forwarded():
		require.Fail(t, "expected success, instead got forwarding", "%v", out.Reason())
	}
	return out.SuccessValues()
}

// Fail executes the filter, requires an error outcome, and returns the
// error.
func (b *RequestBuilder) Fail(t *testing.T, f myth.Filter) error {
	t.Helper()

	out := b.Run(f)
	switch {
	case out.Succeeded():
		require.Fail(t, "expected error, instead got success", "%v", out.SuccessValues())
	case out.Forwarded():
		require.Fail(t, "expected error, instead got forwarding", "%v", out.Reason())
	}
	return out.Err()
}

// Forwards executes the filter, requires a forward outcome, and returns
// its reason.
func (b *RequestBuilder) Forwards(t *testing.T, f myth.Filter) myth.Forwarding {
	t.Helper()

	out := b.Run(f)
	switch {
	case out.Succeeded():
		require.Fail(t, "expected forwarding, instead got success", "%v", out.SuccessValues())
	case out.Failed():
		require.Fail(t, "expected forwarding, instead got error", "%v", out.Err())
	}
	return out.Reason()
}

// NotFound executes the filter and requires a not-found forward.
func (b *RequestBuilder) NotFound(t *testing.T, f myth.Filter) {
	t.Helper()

	reason := b.Forwards(t, f)
	require.True(t, reason.IsNotFound(), "expected not-found forwarding, instead got %v", reason)
}

func (b *RequestBuilder) build() (*myth.Request, *myth.State) {
	req := myth.NewRequest(b.method, b.url, b.proto, b.header, b.remoteAddr)
	var src io.Reader
	if len(b.body) > 0 {
		src = &chunkReader{chunks: b.body}
	}
	return req, myth.NewState(src)
}

// chunkReader delivers at most one configured chunk per Read call,
// preserving chunk boundaries through the state's body reads.
type chunkReader struct {
	chunks [][]byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}
