// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForwarding_Combine(t *testing.T) {
	t.Run("will keep the attempted methods", func(t *testing.T) {
		t.Run("if combined with not-found in either order", func(t *testing.T) {
			mna := MethodNotAllowed(AttemptedGet)

			assert.Equal(t, mna, mna.Combine(NotFound()))
			assert.Equal(t, mna, NotFound().Combine(mna))
		})
	})

	t.Run("will union the attempted methods", func(t *testing.T) {
		t.Run("if both sides are method-not-allowed", func(t *testing.T) {
			a := MethodNotAllowed(AttemptedGet | AttemptedHead)
			b := MethodNotAllowed(AttemptedPost)

			combined := a.Combine(b)
			assert.Equal(t, AttemptedGet|AttemptedHead|AttemptedPost, combined.Attempted())
			assert.Equal(t, combined, b.Combine(a))
		})
	})

	t.Run("will stay not-found", func(t *testing.T) {
		t.Run("if both sides are not-found", func(t *testing.T) {
			assert.True(t, NotFound().Combine(NotFound()).IsNotFound())
		})
	})
}

func TestAttemptedMethods_String(t *testing.T) {
	t.Run("will render in Allow header form", func(t *testing.T) {
		t.Run("if multiple methods are set", func(t *testing.T) {
			assert.Equal(t, "GET, POST", (AttemptedGet | AttemptedPost).String())
		})

		t.Run("if a single method is set", func(t *testing.T) {
			assert.Equal(t, "PATCH", AttemptedPatch.String())
		})

		t.Run("if no methods are set", func(t *testing.T) {
			assert.Equal(t, "", AttemptedMethods(0).String())
		})
	})
}

func TestForwarding_Respond(t *testing.T) {
	t.Run("will respond with a 404", func(t *testing.T) {
		t.Run("if the forwarding is not-found", func(t *testing.T) {
			resp := NotFound().Respond()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})

	t.Run("will respond with a 405 and an Allow header", func(t *testing.T) {
		t.Run("if methods were attempted", func(t *testing.T) {
			resp := MethodNotAllowed(AttemptedGet | AttemptedDelete).Respond()
			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			assert.Equal(t, "GET, DELETE", resp.Header.Get("Allow"))
		})
	})
}

func TestOutcome(t *testing.T) {
	t.Run("will report exactly one state", func(t *testing.T) {
		t.Run("if constructed as a success", func(t *testing.T) {
			out := Success(One("v"))
			assert.True(t, out.Succeeded())
			assert.False(t, out.Failed())
			assert.False(t, out.Forwarded())
			assert.Equal(t, "v", out.SuccessValues().Single())
		})

		t.Run("if constructed as an error", func(t *testing.T) {
			err := assert.AnError
			out := Fail(err)
			assert.True(t, out.Failed())
			assert.Equal(t, err, out.Err())
		})

		t.Run("if constructed as a forward", func(t *testing.T) {
			input := Values{1, 2}
			out := Forward(input, MethodNotAllowed(AttemptedPut))
			assert.True(t, out.Forwarded())
			assert.Equal(t, input, out.ForwardedInput())
			assert.Equal(t, AttemptedPut, out.Reason().Attempted())
		})
	})
}
