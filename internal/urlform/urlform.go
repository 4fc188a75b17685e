// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package urlform decodes url-encoded key/value pairs into structs.
package urlform

import (
	"net/url"

	"github.com/mitchellh/mapstructure"
)

// Decode maps parsed url-encoded values onto out, which must be a
// pointer to a struct. Single-element value lists are collapsed so
// scalar fields decode naturally, and scalar fields accept weakly typed
// conversion from the string values.
func Decode(values url.Values, out any) error {
	input := make(map[string]any, len(values))
	for key, vs := range values {
		if len(vs) == 1 {
			input[key] = vs[0]
		} else {
			input[key] = vs
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
