// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package security provides filters for browser security headers and
// cross-origin request checking.
package security

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/patrick-gu/myth"
)

// HSTSDirectives selects the extra directives of an HSTS header.
type HSTSDirectives int

const (
	// HSTSNone sends only max-age.
	HSTSNone HSTSDirectives = iota

	// HSTSIncludeSubDomains adds includeSubDomains.
	HSTSIncludeSubDomains

	// HSTSPreload adds includeSubDomains and preload. Preload lists
	// require a max-age of at least one year; see https://hstspreload.org/
	HSTSPreload
)

// HSTSConfig configures the [HSTS] filter.
type HSTSConfig struct {
	// MaxAge is how long browsers should remember the directive. Only
	// whole seconds are used for the header value.
	MaxAge time.Duration

	// Directives selects the extra directives to send.
	Directives HSTSDirectives
}

// HSTS returns a filter that stamps a Strict-Transport-Security header
// onto a response flowing through it. Its input and success are both a
// single [myth.Response], so it composes after a response-producing
// filter with [myth.Then].
func HSTS(config HSTSConfig) myth.Filter {
	maxAge := strconv.FormatInt(int64(config.MaxAge/time.Second), 10)
	var value string
	switch config.Directives {
	case HSTSIncludeSubDomains:
		value = "max-age=" + maxAge + "; includeSubDomains"
	case HSTSPreload:
		if config.MaxAge < 365*24*time.Hour {
			slog.Warn("HSTS preload requires a max-age of at least one year", slog.Duration("max_age", config.MaxAge))
		}
		value = "max-age=" + maxAge + "; includeSubDomains; preload"
	default:
		value = "max-age=" + maxAge
	}

	return myth.Handle1[myth.Response, myth.Response](myth.Receive(myth.Any(), 1), func(_ context.Context, resp myth.Response) (myth.Response, error) {
		return resp.WithHeader("Strict-Transport-Security", value), nil
	})
}
