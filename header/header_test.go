// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package header_test

import (
	"net/http"
	"testing"

	"github.com/patrick-gu/myth/header"
	"github.com/patrick-gu/myth/mythtest"

	"github.com/stretchr/testify/assert"
)

func TestAll(t *testing.T) {
	t.Run("will extract the full header map", func(t *testing.T) {
		t.Run("if headers are present", func(t *testing.T) {
			vs := mythtest.Get().
				Header("User-Agent", "test").
				Header("Accept", "text/html").
				Succeed(t, header.All())

			headers := vs.Single().(http.Header)
			assert.Equal(t, "test", headers.Get("User-Agent"))
			assert.Equal(t, "text/html", headers.Get("Accept"))
		})
	})
}

func TestOptional(t *testing.T) {
	t.Run("will extract the first value", func(t *testing.T) {
		t.Run("if the header is present more than once", func(t *testing.T) {
			vs := mythtest.Get().
				Header("Accept", "text/html").
				Header("Accept", "application/json").
				Succeed(t, header.Optional("Accept"))

			value := vs.Single().(*string)
			assert.NotNil(t, value)
			assert.Equal(t, "text/html", *value)
		})
	})

	t.Run("will succeed with nil", func(t *testing.T) {
		t.Run("if the header is absent", func(t *testing.T) {
			vs := mythtest.Get().Succeed(t, header.Optional("Authorization"))
			assert.Nil(t, vs.Single())
		})
	})
}

func TestValue(t *testing.T) {
	t.Run("will extract the value", func(t *testing.T) {
		t.Run("if the header is present", func(t *testing.T) {
			vs := mythtest.Get().
				Header("Authorization", "Bearer token").
				Succeed(t, header.Value("Authorization"))
			assert.Equal(t, "Bearer token", vs.Single())
		})
	})

	t.Run("will forward with not-found", func(t *testing.T) {
		t.Run("if the header is absent", func(t *testing.T) {
			mythtest.Get().NotFound(t, header.Value("Authorization"))
		})
	})
}

func TestContentType(t *testing.T) {
	t.Run("will extract the normalized media type and the raw value", func(t *testing.T) {
		t.Run("if the header carries parameters", func(t *testing.T) {
			vs := mythtest.Post().
				Header("Content-Type", "Application/JSON; charset=utf-8").
				Succeed(t, header.ContentType())

			assert.Equal(t, "application/json", vs[0])
			raw := vs[1].(*string)
			assert.NotNil(t, raw)
			assert.Equal(t, "Application/JSON; charset=utf-8", *raw)
		})
	})

	t.Run("will leave the media type empty", func(t *testing.T) {
		t.Run("if the header is absent", func(t *testing.T) {
			vs := mythtest.Post().Succeed(t, header.ContentType())

			assert.Equal(t, "", vs[0])
			assert.Nil(t, vs[1].(*string))
		})

		t.Run("if the header does not parse", func(t *testing.T) {
			vs := mythtest.Post().
				Header("Content-Type", ";;;").
				Succeed(t, header.ContentType())

			assert.Equal(t, "", vs[0])
			assert.NotNil(t, vs[1].(*string))
		})
	})
}
