// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValues_Single(t *testing.T) {
	t.Run("will return the element", func(t *testing.T) {
		t.Run("if the list has exactly one element", func(t *testing.T) {
			assert.Equal(t, 5, One(5).Single())
		})
	})

	t.Run("will panic", func(t *testing.T) {
		t.Run("if the list is empty", func(t *testing.T) {
			assert.Panics(t, func() {
				Values(nil).Single()
			})
		})

		t.Run("if the list has more than one element", func(t *testing.T) {
			assert.Panics(t, func() {
				Values{1, 2}.Single()
			})
		})
	})
}

func TestAppend(t *testing.T) {
	t.Run("will concatenate in order", func(t *testing.T) {
		t.Run("if both lists are non-empty", func(t *testing.T) {
			vs := Append(Values{1, "two"}, Values{3.0})
			assert.Equal(t, Values{1, "two", 3.0}, vs)
		})
	})

	t.Run("will return the other list unchanged", func(t *testing.T) {
		t.Run("if one side is empty", func(t *testing.T) {
			vs := Values{1, 2}
			assert.Equal(t, vs, Append(nil, vs))
			assert.Equal(t, vs, Append(vs, nil))
		})
	})

	t.Run("will panic", func(t *testing.T) {
		t.Run("if the combined arity exceeds MaxArity", func(t *testing.T) {
			long := make(Values, MaxArity)
			assert.Panics(t, func() {
				Append(long, One(1))
			})
		})
	})
}

func TestSplit(t *testing.T) {
	t.Run("will undo Append", func(t *testing.T) {
		t.Run("if split at the original boundary", func(t *testing.T) {
			a := Values{1, "two"}
			b := Values{3.0, 4}

			gotA, gotB := Split(Append(a, b), len(a))
			assert.Equal(t, a, gotA)
			assert.Equal(t, b, gotB)
		})

		t.Run("if either side is empty", func(t *testing.T) {
			vs := Values{1, 2}

			prefix, rest := Split(vs, 0)
			assert.Empty(t, prefix)
			assert.Equal(t, vs, rest)

			prefix, rest = Split(vs, len(vs))
			assert.Equal(t, vs, prefix)
			assert.Empty(t, rest)
		})
	})

	t.Run("will panic", func(t *testing.T) {
		t.Run("if the list is shorter than the split point", func(t *testing.T) {
			assert.Panics(t, func() {
				Split(One(1), 2)
			})
		})
	})
}
