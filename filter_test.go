// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/patrick-gu/myth"
	"github.com/patrick-gu/myth/mythtest"
	"github.com/patrick-gu/myth/path"

	"github.com/stretchr/testify/assert"
)

func TestAnd(t *testing.T) {
	t.Run("will join success values in order", func(t *testing.T) {
		t.Run("if both filters succeed", func(t *testing.T) {
			f := myth.And(myth.Provide("first"), myth.Provide("second"))

			vs := mythtest.Get().Succeed(t, f)
			assert.Equal(t, myth.Values{"first", "second"}, vs)
		})
	})

	t.Run("will forward the untouched input", func(t *testing.T) {
		t.Run("if the first filter forwards", func(t *testing.T) {
			f := myth.And(myth.Post(), myth.Provide("unreached"))

			reason := mythtest.Get().Forwards(t, f)
			assert.Equal(t, myth.AttemptedPost, reason.Attempted())
		})
	})

	t.Run("will not run the second filter", func(t *testing.T) {
		t.Run("if the first filter errors", func(t *testing.T) {
			ran := false
			second := myth.Handle0(myth.Any(), func(_ context.Context) (string, error) {
				ran = true
				return "", nil
			})
			f := myth.And(myth.Handle0(myth.Any(), func(_ context.Context) (string, error) {
				return "", assert.AnError
			}), second)

			err := mythtest.Get().Fail(t, f)
			assert.Equal(t, assert.AnError, err)
			assert.False(t, ran)
		})
	})

	t.Run("will panic", func(t *testing.T) {
		t.Run("if the first filter declares a non-unit input", func(t *testing.T) {
			assert.Panics(t, func() {
				myth.And(myth.Receive(myth.Any(), 1), myth.Any())
			})
		})
	})
}

func TestOr(t *testing.T) {
	t.Run("will fall back to the second alternative", func(t *testing.T) {
		t.Run("if the first alternative does not match the path", func(t *testing.T) {
			f := myth.Or(
				myth.And(path.Literal("a"), myth.Provide("matched a")),
				myth.And(path.Literal("b"), myth.Provide("matched b")),
			)

			vs := mythtest.Get().URI("/b").Succeed(t, f)
			assert.Equal(t, "matched b", vs.Single())
		})
	})

	t.Run("will reset the path cursor between alternatives", func(t *testing.T) {
		t.Run("if the first alternative consumed segments before forwarding", func(t *testing.T) {
			first := myth.And(path.Literal("a"), myth.And(path.Literal("x"), myth.Provide("a then x")))
			second := myth.And(path.Literal("a"), myth.And(path.Literal("y"), myth.Provide("a then y")))

			vs := mythtest.Get().URI("/a/y").Succeed(t, myth.Or(first, second))
			assert.Equal(t, "a then y", vs.Single())
		})
	})

	t.Run("will combine forwarding reasons", func(t *testing.T) {
		t.Run("if both alternatives forward with attempted methods", func(t *testing.T) {
			f := myth.Or(
				myth.And(myth.Get(), myth.Provide("got")),
				myth.And(myth.Post(), myth.Provide("posted")),
			)

			reason := mythtest.Put().Forwards(t, f)
			assert.Equal(t, myth.AttemptedGet|myth.AttemptedPost, reason.Attempted())

			resp := mythtest.Put().Response(f)
			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			assert.Equal(t, "GET, POST", resp.Header.Get("Allow"))
		})

		t.Run("if only path matching failed", func(t *testing.T) {
			f := myth.Or(
				myth.And(path.Literal("a"), myth.Provide("a")),
				myth.And(path.Literal("b"), myth.Provide("b")),
			)

			mythtest.Get().URI("/c").NotFound(t, f)
			resp := mythtest.Get().URI("/c").Response(f)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})

	t.Run("will not try the second alternative", func(t *testing.T) {
		t.Run("if the first alternative errors", func(t *testing.T) {
			boom := myth.Handle0(myth.Any(), func(_ context.Context) (string, error) {
				return "", assert.AnError
			})
			fallthrough2 := myth.Provide("fallback")

			err := mythtest.Get().Fail(t, myth.Or(boom, fallthrough2))
			assert.Equal(t, assert.AnError, err)
		})
	})
}

func TestThen(t *testing.T) {
	t.Run("will feed the first filter's success into the second", func(t *testing.T) {
		t.Run("if the second filter consumes exactly that arity", func(t *testing.T) {
			double := myth.FilterFunc(1, 1, func(_ context.Context, _ *myth.Request, _ *myth.State, input myth.Values) myth.Outcome {
				return myth.Success(myth.One(input.Single().(int) * 2))
			})

			vs := mythtest.Get().Succeed(t, myth.Then(myth.Provide(21), double))
			assert.Equal(t, 42, vs.Single())
		})
	})

	t.Run("will return only the prepended input on a forward", func(t *testing.T) {
		t.Run("if the second filter forwards its combined input", func(t *testing.T) {
			refuse := myth.FilterFunc(2, 1, func(_ context.Context, _ *myth.Request, _ *myth.State, input myth.Values) myth.Outcome {
				return myth.Forward(input, myth.NotFound())
			})
			f := myth.Then(myth.Provide("from first"), refuse)
			assert.Equal(t, 1, f.InputArity())

			out := mythtest.Get().Input("from caller").Run(f)
			assert.True(t, out.Forwarded())
			assert.Equal(t, myth.Values{"from caller"}, out.ForwardedInput())
		})
	})

	t.Run("will panic", func(t *testing.T) {
		t.Run("if the second filter's input cannot contain the first's success", func(t *testing.T) {
			assert.Panics(t, func() {
				myth.Then(myth.Provide(1), myth.Any())
			})
		})
	})
}

type firstError struct{}

func (firstError) Error() string { return "first error" }

type secondError struct{}

func (secondError) Error() string { return "second error" }

func TestRecover(t *testing.T) {
	failing := func(err error) myth.Filter {
		return myth.Handle0(myth.Any(), func(_ context.Context) (string, error) {
			return "", err
		})
	}

	t.Run("will recover the error", func(t *testing.T) {
		t.Run("if its dynamic type matches exactly", func(t *testing.T) {
			f := myth.Recover[firstError](failing(firstError{}), func(_ context.Context, _ firstError) (any, error) {
				return "recovered", nil
			})

			vs := mythtest.Get().Succeed(t, f)
			assert.Equal(t, "recovered", vs.Single())
		})

		t.Run("if the error interface itself is declared as a catch-all", func(t *testing.T) {
			f := myth.Recover[error](failing(secondError{}), func(_ context.Context, err error) (any, error) {
				return "caught " + err.Error(), nil
			})

			vs := mythtest.Get().Succeed(t, f)
			assert.Equal(t, "caught second error", vs.Single())
		})
	})

	t.Run("will pass the error through", func(t *testing.T) {
		t.Run("if its dynamic type differs", func(t *testing.T) {
			f := myth.Recover[firstError](failing(secondError{}), func(_ context.Context, _ firstError) (any, error) {
				return "unreachable", nil
			})

			err := mythtest.Get().Fail(t, f)
			assert.Equal(t, secondError{}, err)
		})

		t.Run("if the error is a wrapping of the declared type rather than the type itself", func(t *testing.T) {
			wrapped := failing(&wrappingError{inner: firstError{}})
			f := myth.Recover[firstError](wrapped, func(_ context.Context, _ firstError) (any, error) {
				return "unreachable", nil
			})

			err := mythtest.Get().Fail(t, f)
			assert.True(t, errors.Is(err, firstError{}))
		})
	})

	t.Run("will let nested recoveries claim their own errors", func(t *testing.T) {
		t.Run("if each declares a different type", func(t *testing.T) {
			inner := myth.Recover[firstError](failing(secondError{}), func(_ context.Context, _ firstError) (any, error) {
				return "first", nil
			})
			outer := myth.Recover[secondError](inner, func(_ context.Context, _ secondError) (any, error) {
				return "second", nil
			})

			vs := mythtest.Get().Succeed(t, outer)
			assert.Equal(t, "second", vs.Single())
		})
	})

	t.Run("will fail with the recovery's error", func(t *testing.T) {
		t.Run("if the recovery function itself errors", func(t *testing.T) {
			f := myth.Recover[firstError](failing(firstError{}), func(_ context.Context, _ firstError) (any, error) {
				return nil, secondError{}
			})

			err := mythtest.Get().Fail(t, f)
			assert.Equal(t, secondError{}, err)
		})
	})
}

type wrappingError struct {
	inner error
}

func (e *wrappingError) Error() string { return "wrapping: " + e.inner.Error() }
func (e *wrappingError) Unwrap() error { return e.inner }

func TestRecoverForward(t *testing.T) {
	t.Run("will convert the error into a forward", func(t *testing.T) {
		t.Run("if its dynamic type matches", func(t *testing.T) {
			failing := myth.Handle0(myth.Any(), func(_ context.Context) (string, error) {
				return "", firstError{}
			})
			f := myth.RecoverForward[firstError](failing, func(_ context.Context, _ firstError) (myth.Forwarding, error) {
				return myth.NotFound(), nil
			})

			mythtest.Get().NotFound(t, f)
		})
	})

	t.Run("will rejoin alternative fallback", func(t *testing.T) {
		t.Run("if composed inside an Or", func(t *testing.T) {
			failing := myth.Handle0(myth.Any(), func(_ context.Context) (string, error) {
				return "", firstError{}
			})
			forwarded := myth.RecoverForward[firstError](failing, func(_ context.Context, _ firstError) (myth.Forwarding, error) {
				return myth.NotFound(), nil
			})

			vs := mythtest.Get().Succeed(t, myth.Or(forwarded, myth.Provide("fallback")))
			assert.Equal(t, "fallback", vs.Single())
		})
	})
}

func TestReceive(t *testing.T) {
	t.Run("will re-prepend the prefix onto the success", func(t *testing.T) {
		t.Run("if the inner filter succeeds", func(t *testing.T) {
			f := myth.Receive(myth.Provide("inner"), 1)
			assert.Equal(t, 1, f.InputArity())
			assert.Equal(t, 2, f.SuccessArity())

			out := mythtest.Get().Input("prefix").Run(f)
			assert.True(t, out.Succeeded())
			assert.Equal(t, myth.Values{"prefix", "inner"}, out.SuccessValues())
		})
	})

	t.Run("will re-prepend the prefix onto the forwarded input", func(t *testing.T) {
		t.Run("if the inner filter forwards", func(t *testing.T) {
			inner := myth.FilterFunc(0, 1, func(_ context.Context, _ *myth.Request, _ *myth.State, input myth.Values) myth.Outcome {
				return myth.Forward(input, myth.NotFound())
			})

			out := mythtest.Get().Input("prefix").Run(myth.Receive(inner, 1))
			assert.True(t, out.Forwarded())
			assert.Equal(t, myth.Values{"prefix"}, out.ForwardedInput())
		})
	})
}

func TestUntuple(t *testing.T) {
	t.Run("will flatten the inner value list", func(t *testing.T) {
		t.Run("if the handler produced several values", func(t *testing.T) {
			h := myth.Handle0(myth.Any(), func(_ context.Context) (myth.Values, error) {
				return myth.Values{"a", "b"}, nil
			})
			f := myth.Untuple(h, 2)
			assert.Equal(t, 2, f.SuccessArity())

			vs := mythtest.Get().Succeed(t, f)
			assert.Equal(t, myth.Values{"a", "b"}, vs)
		})

		t.Run("if the handler produced no values", func(t *testing.T) {
			h := myth.Handle0(myth.Any(), func(_ context.Context) (myth.Values, error) {
				return nil, nil
			})

			vs := mythtest.Get().Succeed(t, myth.Untuple(h, 0))
			assert.Empty(t, vs)
		})
	})
}

func TestDynamic(t *testing.T) {
	t.Run("will preserve the wrapped chain's behavior and arities", func(t *testing.T) {
		t.Run("if a composed chain is erased", func(t *testing.T) {
			f := myth.Dynamic(myth.And(myth.Get(), myth.Provide("value")))
			assert.Equal(t, 0, f.InputArity())
			assert.Equal(t, 1, f.SuccessArity())

			vs := mythtest.Get().Succeed(t, f)
			assert.Equal(t, "value", vs.Single())
		})
	})
}

func TestRouting(t *testing.T) {
	route := func() myth.Filter {
		return myth.And(myth.Get(),
			myth.And(path.Literal("a"),
				myth.And(path.Int(),
					myth.And(path.Literal("bar"), path.End()))))
	}

	t.Run("will match and extract", func(t *testing.T) {
		t.Run("if every segment matches in order", func(t *testing.T) {
			vs := mythtest.Get().URI("/a/2345/bar").Succeed(t, route())
			assert.Equal(t, 2345, vs.Single())
		})
	})

	t.Run("will forward with not-found", func(t *testing.T) {
		t.Run("if a typed segment does not parse", func(t *testing.T) {
			mythtest.Get().URI("/a/2345x/bar").NotFound(t, route())
		})

		t.Run("if extra path remains after the route", func(t *testing.T) {
			mythtest.Get().URI("/a/2345/bar/baz").NotFound(t, route())
		})
	})

	t.Run("will error with a permanent redirect", func(t *testing.T) {
		t.Run("if the path matches except for a trailing slash", func(t *testing.T) {
			err := mythtest.Get().URI("/a/2345/bar/").Fail(t, route())

			var redirect myth.RedirectError
			assert.ErrorAs(t, err, &redirect)
			assert.Equal(t, "/a/2345/bar", redirect.Location)

			resp := mythtest.Get().URI("/a/2345/bar/").Response(route())
			assert.Equal(t, http.StatusPermanentRedirect, resp.StatusCode)
			assert.Equal(t, "/a/2345/bar", resp.Header.Get("Location"))
		})

		t.Run("if a following alternative could otherwise swallow the redirect", func(t *testing.T) {
			f := myth.Or(route(), myth.Provide("fallback"))

			err := mythtest.Get().URI("/a/2345/bar/").Fail(t, f)
			var redirect myth.RedirectError
			assert.ErrorAs(t, err, &redirect)
		})
	})
}
