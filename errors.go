// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"fmt"
	"net/http"
)

// RedirectError is the terminal error emitted when a path matched except
// for a single trailing slash. It is an error rather than a forward so
// that [Or] cannot silently swallow the canonicalization; unrecovered, it
// renders as a 308 permanent redirect to the slash-stripped path.
type RedirectError struct {
	Location string
}

func (e RedirectError) Error() string {
	return fmt.Sprintf("redirect to %q for trailing slash rules", e.Location)
}

// Respond implements the [Responder] interface.
func (e RedirectError) Respond() Response {
	return StatusResponse(http.StatusPermanentRedirect).
		WithHeader("Location", e.Location)
}

// errorResponse converts an unrecovered error into its default response:
// errors implementing [Responder] render themselves, everything else is a
// plain 500.
func errorResponse(err error) Response {
	if r, ok := err.(Responder); ok {
		return r.Respond()
	}
	return StatusResponse(http.StatusInternalServerError)
}
