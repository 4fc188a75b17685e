// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package body provides filters that extract the body of a request.
//
// The raw body is exposed as a [Buffer] of the chunks read off the
// connection. Higher level decoders live in the json and form packages.
package body

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/patrick-gu/myth"
	"github.com/patrick-gu/myth/header"
)

// Buffer is a non-contiguous byte buffer over the chunks of a request
// body. It implements [io.Reader] and supports chunk-at-a-time access
// without copying.
type Buffer struct {
	chunks [][]byte
	len    int
}

func newBuffer(chunks [][]byte, total int) *Buffer {
	buf := &Buffer{len: total}
	for _, chunk := range chunks {
		if len(chunk) > 0 {
			buf.chunks = append(buf.chunks, chunk)
		}
	}
	return buf
}

// Remaining reports the number of unread bytes left in the buffer.
func (b *Buffer) Remaining() int {
	return b.len
}

// Chunk returns the current unread chunk without consuming it. It
// returns an empty slice once the buffer is exhausted.
func (b *Buffer) Chunk() []byte {
	if len(b.chunks) == 0 {
		return nil
	}
	return b.chunks[0]
}

// Advance consumes n bytes from the front of the buffer. It panics if n
// exceeds [Buffer.Remaining].
func (b *Buffer) Advance(n int) {
	if n > b.len {
		panic("body: cannot advance past end of buffer")
	}
	b.len -= n
	for len(b.chunks) > 0 {
		front := b.chunks[0]
		if n < len(front) {
			b.chunks[0] = front[n:]
			break
		}
		n -= len(front)
		b.chunks = b.chunks[1:]
	}
}

// Read implements [io.Reader], copying across chunk boundaries. It
// returns [io.EOF] once the buffer is exhausted.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.len == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	var n int
	for n < len(p) && b.len > 0 {
		copied := copy(p[n:], b.Chunk())
		b.Advance(copied)
		n += copied
	}
	return n, nil
}

// ReadError is the error outcome of [All] when reading the request body
// off the connection fails, or failed on an earlier extraction.
type ReadError struct {
	// Cause is the underlying read error. It is nil when the body was
	// already poisoned by a previous extraction.
	Cause error
}

func (e ReadError) Error() string {
	if e.Cause == nil {
		return "error occurred previously while reading request body"
	}
	return "error while reading request body: " + e.Cause.Error()
}

func (e ReadError) Unwrap() error {
	return e.Cause
}

// Respond implements [myth.Responder] with a plain 500.
func (e ReadError) Respond() myth.Response {
	return myth.StatusResponse(http.StatusInternalServerError)
}

// All returns a filter extracting the entire raw request body as a
// [Buffer]. The body is read once and cached on the request state, so
// repeated extractions see the same bytes; each extraction gets an
// independent read position.
func All() myth.Filter {
	return myth.FilterFunc(0, 1, func(ctx context.Context, _ *myth.Request, state *myth.State, _ myth.Values) myth.Outcome {
		chunks, total, err := state.BodyChunks(ctx)
		if err != nil {
			return myth.Fail(ReadError{Cause: err})
		}
		return myth.Success(myth.One(newBuffer(chunks, total)))
	})
}

// ContentLengthError is the error outcome of [ContentLengthLimit] when
// the declared Content-Length exceeds the limit.
type ContentLengthError struct {
	Length int64
}

func (e ContentLengthError) Error() string {
	return "content-length " + strconv.FormatInt(e.Length, 10) + " is too large"
}

// Respond implements [myth.Responder] with a plain 413.
func (e ContentLengthError) Respond() myth.Response {
	return myth.StatusResponse(http.StatusRequestEntityTooLarge)
}

// ContentLengthLimit returns a filter that fails with
// [ContentLengthError] when the request declares a Content-Length above
// limit. Requests without a Content-Length header pass through.
func ContentLengthLimit(limit int64) myth.Filter {
	checked := myth.Handle2[*string, int64, myth.Values](
		myth.And(header.Optional("Content-Length"), myth.Provide(limit)),
		func(_ context.Context, value *string, limit int64) (myth.Values, error) {
			if value == nil {
				return nil, nil
			}
			length, err := strconv.ParseInt(*value, 10, 64)
			if err != nil {
				// The server already rejects malformed framing headers.
				return nil, nil
			}
			if length > limit {
				return nil, ContentLengthError{Length: length}
			}
			return nil, nil
		},
	)
	return myth.Untuple(checked, 0)
}
