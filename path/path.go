// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package path provides filters that match and extract segments of the
// request path.
//
// Matching is driven by the path cursor in [myth.State]: each filter
// inspects the not-yet-consumed remainder of the raw request path and
// advances the cursor only according to its own rules, so alternatives
// can backtrack to exactly where they started.
package path

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/patrick-gu/myth"
)

// segment splits the next path segment off the not-yet-consumed path.
// It returns the raw segment and the cursor advance that consumes it,
// including a leading separator if present. There is no segment when the
// remaining path is empty or exactly root.
func segment(req *myth.Request, state *myth.State) (string, int, bool) {
	current := state.CurrentPath(req)
	switch {
	case current == "" || current == "/":
		return "", 0, false
	case current[0] == '/':
		rest := current[1:]
		i := strings.IndexByte(rest, '/')
		if i < 0 {
			i = len(rest)
		}
		return rest[:i], i + 1, true
	default:
		i := strings.IndexByte(current, '/')
		if i < 0 {
			i = len(current)
		}
		return current[:i], i, true
	}
}

// decodeSegment percent-decodes a raw segment leniently: invalid escape
// sequences stay literal and invalid UTF-8 is replaced.
func decodeSegment(s string) string {
	decoded := percentDecode(s)
	return strings.ToValidUTF8(decoded, "�")
}

func percentDecode(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// matchSegment runs fn against the next decoded segment, advancing the
// cursor only when fn matches. No segment, or no match, forwards with
// not-found.
func matchSegment(req *myth.Request, state *myth.State, fn func(decoded string) (myth.Values, bool)) myth.Outcome {
	seg, advance, ok := segment(req, state)
	if ok {
		if vs, matched := fn(decodeSegment(seg)); matched {
			state.Advance(advance)
			return myth.Success(vs)
		}
	}
	return myth.Forward(nil, myth.NotFound())
}

// Literal returns a filter matching one path segment exactly. The
// comparison is against the percent-decoded segment and is
// case-sensitive; the cursor advances only on a match.
//
// Literal panics if value is empty or contains a slash.
func Literal(value string) myth.Filter {
	if value == "" {
		panic("path: literal segments cannot be empty")
	}
	if strings.ContainsRune(value, '/') {
		panic("path: literal segments cannot contain a slash")
	}
	return myth.FilterFunc(0, 0, func(_ context.Context, req *myth.Request, state *myth.State, _ myth.Values) myth.Outcome {
		return matchSegment(req, state, func(decoded string) (myth.Values, bool) {
			if decoded != value {
				return nil, false
			}
			return nil, true
		})
	})
}

// ParamString returns a filter extracting the next path segment as a
// percent-decoded string. It matches any non-empty segment,
// unconditionally advancing the cursor.
func ParamString() myth.Filter {
	return myth.FilterFunc(0, 1, func(_ context.Context, req *myth.Request, state *myth.State, _ myth.Values) myth.Outcome {
		return matchSegment(req, state, func(decoded string) (myth.Values, bool) {
			return myth.One(decoded), true
		})
	})
}

// paramError marks a parse failure inside [Param] so the surrounding
// recovery can turn it into a forward.
type paramError struct{}

func (paramError) Error() string { return "path parameter failed to parse" }

// Param returns a filter extracting the next path segment and parsing it
// with the given function. A parse failure becomes a not-found forward,
// never an error, so mismatched typed routes fall through to the next
// alternative.
func Param[T any](parse func(string) (T, error)) myth.Filter {
	parsed := myth.Handle1[string, T](ParamString(), func(_ context.Context, seg string) (T, error) {
		v, err := parse(seg)
		if err != nil {
			return v, paramError{}
		}
		return v, nil
	})
	return myth.RecoverForward[paramError](parsed, func(_ context.Context, _ paramError) (myth.Forwarding, error) {
		return myth.NotFound(), nil
	})
}

// Int returns a filter extracting an integer path segment.
func Int() myth.Filter {
	return Param(strconv.Atoi)
}

// Int64 returns a filter extracting a 64-bit integer path segment.
func Int64() myth.Filter {
	return Param(func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

// End returns a filter that succeeds if no path remains, or the path is
// exactly root.
//
// If the cursor sits at exactly one trailing slash, End fails with a
// [myth.RedirectError] carrying the slash-stripped path: an error, not a
// forward, so a following [myth.Or] branch cannot silently swallow the
// canonicalization. Anything else remaining forwards with not-found.
func End() myth.Filter {
	return myth.FilterFunc(0, 0, func(_ context.Context, req *myth.Request, state *myth.State, _ myth.Values) myth.Outcome {
		if req.Path() == "" || req.Path() == "/" {
			return myth.Success(nil)
		}
		switch state.CurrentPath(req) {
		case "":
			return myth.Success(nil)
		case "/":
			return myth.Fail(myth.RedirectError{Location: state.PreviousPath(req)})
		default:
			return myth.Forward(nil, myth.NotFound())
		}
	})
}

// Tail returns a filter extracting the raw not-yet-consumed remainder of
// the path, consuming it unconditionally.
func Tail() myth.Filter {
	return myth.FilterFunc(0, 1, func(_ context.Context, req *myth.Request, state *myth.State, _ myth.Values) myth.Outcome {
		tail := state.CurrentPath(req)
		state.AdvanceToEnd(req)
		return myth.Success(myth.One(tail))
	})
}

// TailPath returns a filter extracting the remainder of the path as a
// sanitized, slash-joined relative path suitable for filesystem lookups.
// Remainders with traversal-looking segments forward with not-found
// instead of succeeding.
func TailPath() myth.Filter {
	return myth.FilterFunc(0, 1, func(_ context.Context, req *myth.Request, state *myth.State, _ myth.Values) myth.Outcome {
		sanitized, ok := sanitizePath(state.CurrentPath(req))
		if !ok {
			return myth.Forward(nil, myth.NotFound())
		}
		state.AdvanceToEnd(req)
		return myth.Success(myth.One(sanitized))
	})
}

// sanitizePath percent-decodes a path remainder and rejects it entirely
// when any decoded segment looks like a filesystem escape: a leading
// period or asterisk, a trailing colon or angle bracket, an embedded
// backslash or null byte, or invalid UTF-8.
func sanitizePath(s string) (string, bool) {
	decoded := percentDecode(s)
	if !utf8.ValidString(decoded) {
		slog.Debug("rejecting path that does not percent-decode to UTF-8", slog.String("path", s))
		return "", false
	}

	var segs []string
	for _, seg := range strings.Split(decoded, "/") {
		switch {
		case strings.HasPrefix(seg, "."),
			strings.HasPrefix(seg, "*"),
			strings.HasSuffix(seg, ":"),
			strings.HasSuffix(seg, ">"),
			strings.HasSuffix(seg, "<"),
			strings.ContainsRune(seg, '\\'),
			strings.ContainsRune(seg, 0):
			slog.Debug("rejecting path with traversal-looking segment", slog.String("path", decoded))
			return "", false
		case seg != "":
			segs = append(segs, seg)
		}
	}

	return strings.Join(segs, "/"), true
}
