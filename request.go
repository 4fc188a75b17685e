// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
)

// Request holds the immutable facts of an inbound request: everything the
// transport parsed from the request head. One Request is created per
// inbound request and shared by reference for the lifetime of its
// resolution; it is never mutated.
type Request struct {
	method     string
	url        *url.URL
	proto      string
	header     http.Header
	remoteAddr netip.AddrPort

	// path is the raw (still percent-encoded) request path. Cursor
	// offsets in State index into it.
	path string
}

// NewRequest assembles a Request from a parsed request head.
func NewRequest(method string, u *url.URL, proto string, header http.Header, remoteAddr netip.AddrPort) *Request {
	if header == nil {
		header = make(http.Header)
	}
	return &Request{
		method:     method,
		url:        u,
		proto:      proto,
		header:     header,
		remoteAddr: remoteAddr,
		path:       u.EscapedPath(),
	}
}

// Method returns the HTTP request method.
func (r *Request) Method() string { return r.method }

// URL returns the request URL.
func (r *Request) URL() *url.URL { return r.url }

// Proto returns the protocol version, e.g. "HTTP/1.1".
func (r *Request) Proto() string { return r.proto }

// Header returns the request header multimap. Callers must not modify
// it.
func (r *Request) Header() http.Header { return r.header }

// HeaderValue returns the first value of the named header, or nil if the
// header is absent.
func (r *Request) HeaderValue(name string) *string {
	vs := r.header.Values(name)
	if len(vs) == 0 {
		return nil
	}
	return &vs[0]
}

// RemoteAddr returns the address of the connecting client.
func (r *Request) RemoteAddr() netip.AddrPort { return r.remoteAddr }

// Path returns the full raw request path.
func (r *Request) Path() string { return r.path }

// Upgrade is the pending-upgrade handle of a request, letting a handler
// take over the underlying connection (e.g. for WebSockets). It mirrors
// [http.Hijacker].
type Upgrade interface {
	Hijack() (net.Conn, *bufio.ReadWriter, error)
}

// bodyReadChunk is the unit in which pending request bodies are pulled
// from the transport.
const bodyReadChunk = 8 * 1024

// State is the mutable per-request state threaded through a filter
// chain: the path cursor, body read progress and the pending-upgrade
// handle. Exactly one State exists per in-flight request and exactly one
// goroutine owns it at any time; it is handed from step to step, never
// shared.
type State struct {
	pathOffset int

	bodySrc    io.Reader
	bodyChunks [][]byte
	bodyLen    int
	bodyDone   bool
	bodyErr    error

	upgrade Upgrade
}

// NewState returns the state for a fresh request whose body will be read
// from src. A nil src is an empty body.
func NewState(src io.Reader) *State {
	return &State{bodySrc: src}
}

// PathOffset returns the byte offset of the cursor into the full request
// path. Everything before it has been consumed by path matching.
func (s *State) PathOffset() int { return s.pathOffset }

// RestorePathOffset rewinds (or advances) the cursor to a previously
// recorded offset. Alternatives use this to discard path speculatively
// consumed by a failed branch.
func (s *State) RestorePathOffset(offset int) { s.pathOffset = offset }

// Advance moves the cursor forward n bytes.
func (s *State) Advance(n int) { s.pathOffset += n }

// AdvanceToEnd moves the cursor past the whole path of r.
func (s *State) AdvanceToEnd(r *Request) { s.pathOffset = len(r.Path()) }

// CurrentPath returns the not-yet-consumed part of r's path.
func (s *State) CurrentPath(r *Request) string {
	return r.Path()[s.pathOffset:]
}

// PreviousPath returns the already-consumed part of r's path.
func (s *State) PreviousPath(r *Request) string {
	return r.Path()[:s.pathOffset]
}

// SetUpgrade attaches the pending-upgrade handle.
func (s *State) SetUpgrade(u Upgrade) { s.upgrade = u }

// TakeUpgrade removes and returns the pending-upgrade handle. It returns
// nil after the first call.
func (s *State) TakeUpgrade() Upgrade {
	u := s.upgrade
	s.upgrade = nil
	return u
}

// BodyChunks reads the request body to completion, returning its chunks
// in delivery order and their total length. The first call performs the
// transport reads, suspending the calling goroutine as the transport
// paces them; later calls return the buffered result. A read failure
// poisons the body: every subsequent call reports the same error.
func (s *State) BodyChunks(ctx context.Context) ([][]byte, int, error) {
	if s.bodyErr != nil {
		return nil, 0, s.bodyErr
	}
	if s.bodyDone {
		return s.bodyChunks, s.bodyLen, nil
	}
	for s.bodySrc != nil {
		if err := ctx.Err(); err != nil {
			// Cancellation abandons the read without poisoning: a
			// retry under a live context may still drain the body.
			return nil, 0, err
		}
		chunk := make([]byte, bodyReadChunk)
		n, err := s.bodySrc.Read(chunk)
		if n > 0 {
			s.bodyChunks = append(s.bodyChunks, chunk[:n:n])
			s.bodyLen += n
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			s.bodyErr = err
			s.bodyChunks = nil
			s.bodyLen = 0
			return nil, 0, err
		}
	}
	s.bodyDone = true
	s.bodySrc = nil
	return s.bodyChunks, s.bodyLen, nil
}
