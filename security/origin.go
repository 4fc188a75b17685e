// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package security

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/patrick-gu/myth"
)

// OriginConfig configures origin checking for a wrapped filter,
// implementing Cross-Origin Resource Sharing as defined by the fetch
// specification.
//
// A wrapped filter answers preflight requests itself with 204, 403 or
// 400, and refuses non-preflight requests whose origin or method is
// disallowed before they reach the inner filter. The zero value allows
// nothing; build up permissions with the chainable setters:
//
//	wrapped := security.NewOriginConfig().
//		Origin("https://example.com").
//		Method(http.MethodGet).
//		AllowHeader("Content-Type").
//		Apply(filter)
type OriginConfig struct {
	origins       []string
	anyOrigin     bool
	methods       []string
	allowHeaders  []string
	exposeHeaders []string
	maxAge        time.Duration
	hasMaxAge     bool
	credentials   bool
}

// NewOriginConfig returns a configuration allowing no origins, no
// methods, no headers and no credentials.
func NewOriginConfig() OriginConfig {
	return OriginConfig{}
}

// Origin adds one allowed origin. The comparison against the Origin
// header is exact, so schemes and ports matter; "null" may be allowed
// explicitly. Origin overrides an earlier [OriginConfig.AnyOrigin].
func (c OriginConfig) Origin(origin string) OriginConfig {
	c.origins = append(slices.Clip(c.origins), origin)
	c.anyOrigin = false
	return c
}

// AnyOrigin allows every origin, overriding any earlier
// [OriginConfig.Origin] calls.
func (c OriginConfig) AnyOrigin() OriginConfig {
	c.origins = nil
	c.anyOrigin = true
	return c
}

// Method allows a request method. Method panics if the method is
// OPTIONS, which is reserved for preflight.
func (c OriginConfig) Method(method string) OriginConfig {
	if method == http.MethodOptions {
		panic("security: the OPTIONS method cannot be allowed for CORS")
	}
	if !slices.Contains(c.methods, method) {
		c.methods = append(slices.Clip(c.methods), method)
	}
	return c
}

// AllowHeader allows a request header name for preflighted requests.
// Simple requests are not checked against the allowed headers.
func (c OriginConfig) AllowHeader(name string) OriginConfig {
	name = strings.ToLower(name)
	if !slices.Contains(c.allowHeaders, name) {
		c.allowHeaders = append(slices.Clip(c.allowHeaders), name)
	}
	return c
}

// ExposeHeader adds a response header name to
// Access-Control-Expose-Headers.
func (c OriginConfig) ExposeHeader(name string) OriginConfig {
	name = strings.ToLower(name)
	if !slices.Contains(c.exposeHeaders, name) {
		c.exposeHeaders = append(slices.Clip(c.exposeHeaders), name)
	}
	return c
}

// MaxAge sets how long browsers may cache preflight results. Only whole
// seconds are used for the header value.
func (c OriginConfig) MaxAge(d time.Duration) OriginConfig {
	c.maxAge = d
	c.hasMaxAge = true
	return c
}

// Credentials permits sharing responses to credentialed requests.
func (c OriginConfig) Credentials() OriginConfig {
	c.credentials = true
	return c
}

// Apply wraps a filter with this configuration. The inner filter must
// declare success arity 1 and produce a response-convertible value; the
// wrapped filter's success is always a [myth.Response]. Headers are not
// applied when the inner filter errors or forwards.
//
// Apply panics when no method, and neither an origin nor
// [OriginConfig.AnyOrigin], has been allowed.
func (c OriginConfig) Apply(f myth.Filter) myth.Filter {
	if !c.anyOrigin && len(c.origins) == 0 {
		panic("security: neither Origin nor AnyOrigin was called, so no origins are allowed")
	}
	if len(c.methods) == 0 {
		panic("security: Method was not called, so no methods are allowed")
	}
	if f.SuccessArity() != 1 {
		panic("security: CORS wraps a filter with success arity 1")
	}
	return &corsFilter{
		config:    c,
		filter:    f,
		preflight: c.preflightHeaders(),
	}
}

// preflightHeaders builds the headers shared by every preflight
// response. Access-Control-Allow-Origin for a specific allowed origin is
// added per request.
func (c OriginConfig) preflightHeaders() http.Header {
	headers := make(http.Header)

	if c.anyOrigin {
		headers.Set("Access-Control-Allow-Origin", "*")
		headers.Set("Vary", "Access-Control-Request-Method, Access-Control-Request-Headers")
	} else {
		headers.Set("Vary", "Origin, Access-Control-Request-Method, Access-Control-Request-Headers")
	}

	headers.Set("Access-Control-Allow-Methods", strings.Join(c.methods, ", "))
	if len(c.allowHeaders) > 0 {
		headers.Set("Access-Control-Allow-Headers", strings.Join(c.allowHeaders, ", "))
	}
	if len(c.exposeHeaders) > 0 {
		headers.Set("Access-Control-Expose-Headers", strings.Join(c.exposeHeaders, ", "))
	}
	if c.credentials {
		headers.Set("Access-Control-Allow-Credentials", "true")
	}
	if c.hasMaxAge {
		headers.Set("Access-Control-Max-Age", strconv.FormatInt(int64(c.maxAge/time.Second), 10))
	}

	return headers
}

type originCheck int

const (
	originAllowed originCheck = iota
	originDisallowed
	originAny
)

func (c OriginConfig) checkOrigin(origin string) originCheck {
	if c.anyOrigin {
		return originAny
	}
	if slices.Contains(c.origins, origin) {
		return originAllowed
	}
	slog.Debug("CORS request with disallowed origin", slog.String("origin", origin))
	return originDisallowed
}

type corsFilter struct {
	config    OriginConfig
	filter    myth.Filter
	preflight http.Header
}

// mapResponse converts a success outcome's single value to a response
// and rewrites it. Error and forward outcomes pass through untouched.
func mapResponse(out myth.Outcome, fn func(resp myth.Response) myth.Response) myth.Outcome {
	if !out.Succeeded() {
		return out
	}
	resp := fn(myth.Respond(out.SuccessValues().Single()))
	return myth.Success(myth.One(resp))
}

func (f *corsFilter) Execute(ctx context.Context, req *myth.Request, state *myth.State, input myth.Values) myth.Outcome {
	origin := req.HeaderValue("Origin")
	if origin == nil {
		// Not a CORS request. Vary on Origin so caches keep this
		// response separate from cross-origin ones.
		return mapResponse(f.filter.Execute(ctx, req, state, input), func(resp myth.Response) myth.Response {
			return resp.AddHeader("Vary", "Origin")
		})
	}

	if req.Method() == http.MethodOptions {
		return myth.Success(myth.One(f.preflightResponse(req, *origin)))
	}

	forbidden := func() myth.Outcome {
		resp := myth.StatusResponse(http.StatusForbidden).AddHeader("Vary", "Origin")
		return myth.Success(myth.One(resp))
	}

	allowOrigin := *origin
	vary := true
	switch f.config.checkOrigin(*origin) {
	case originDisallowed:
		return forbidden()
	case originAny:
		allowOrigin = "*"
		vary = false
	}

	if !slices.Contains(f.config.methods, req.Method()) {
		slog.Debug("CORS request with disallowed method", slog.String("method", req.Method()))
		return forbidden()
	}

	return mapResponse(f.filter.Execute(ctx, req, state, input), func(resp myth.Response) myth.Response {
		resp = resp.WithHeader("Access-Control-Allow-Origin", allowOrigin)
		if len(f.config.exposeHeaders) > 0 {
			resp = resp.WithHeader("Access-Control-Expose-Headers", strings.Join(f.config.exposeHeaders, ", "))
		}
		if f.config.credentials {
			resp = resp.WithHeader("Access-Control-Allow-Credentials", "true")
		}
		if vary {
			resp = resp.AddHeader("Vary", "Origin")
		}
		return resp
	})
}

func (f *corsFilter) InputArity() int   { return f.filter.InputArity() }
func (f *corsFilter) SuccessArity() int { return 1 }

// preflightResponse answers an OPTIONS request carrying an Origin
// header: 204 when the origin, requested method and requested headers
// are all allowed, 403 when any is not, and 400 when the preflight is
// missing Access-Control-Request-Method.
func (f *corsFilter) preflightResponse(req *myth.Request, origin string) myth.Response {
	headers := f.preflight.Clone()
	status := http.StatusNoContent

	switch {
	case f.config.checkOrigin(origin) == originDisallowed:
		status = http.StatusForbidden
	default:
		if f.config.checkOrigin(origin) == originAllowed {
			headers.Set("Access-Control-Allow-Origin", origin)
		}
		requestMethod := req.HeaderValue("Access-Control-Request-Method")
		switch {
		case requestMethod == nil:
			slog.Debug("preflight request missing Access-Control-Request-Method")
			status = http.StatusBadRequest
		case !slices.Contains(f.config.methods, *requestMethod):
			slog.Debug("preflight request with disallowed method", slog.String("method", *requestMethod))
			status = http.StatusForbidden
		case !f.requestHeadersAllowed(req):
			status = http.StatusForbidden
		}
	}

	resp := myth.NewResponse().WithStatus(status)
	resp.Header = headers
	return resp
}

func (f *corsFilter) requestHeadersAllowed(req *myth.Request) bool {
	for _, value := range req.Header().Values("Access-Control-Request-Headers") {
		for _, padded := range strings.Split(value, ",") {
			name := strings.ToLower(strings.Trim(padded, " \t"))
			if name == "" {
				continue
			}
			if !slices.Contains(f.config.allowHeaders, name) {
				slog.Debug("preflight request with disallowed header", slog.String("header", name))
				return false
			}
		}
	}
	return true
}
