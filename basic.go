// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import "context"

// Any returns a filter that always succeeds with no values. It is the
// usual root of a chain that matches every request.
func Any() Filter {
	return FilterFunc(0, 0, func(_ context.Context, _ *Request, _ *State, _ Values) Outcome {
		return Success(nil)
	})
}

// Never returns a filter that always forwards with [NotFound]. Its
// declared success arity is 1, making it a placeholder alternative for
// chains that produce one value.
func Never() Filter {
	return FilterFunc(0, 1, func(_ context.Context, _ *Request, _ *State, _ Values) Outcome {
		return Forward(nil, NotFound())
	})
}

// Provide returns a filter that always succeeds with the given value.
func Provide(v any) Filter {
	return FilterFunc(0, 1, func(_ context.Context, _ *Request, _ *State, _ Values) Outcome {
		return Success(One(v))
	})
}

// Method returns a filter extracting the HTTP request method.
func Method() Filter {
	return FilterFunc(0, 1, func(_ context.Context, req *Request, _ *State, _ Values) Outcome {
		return Success(One(req.Method()))
	})
}

// Version returns a filter extracting the protocol version, e.g.
// "HTTP/1.1".
func Version() Filter {
	return FilterFunc(0, 1, func(_ context.Context, req *Request, _ *State, _ Values) Outcome {
		return Success(One(req.Proto()))
	})
}

// RemoteAddr returns a filter extracting the remote address of the
// connecting client.
func RemoteAddr() Filter {
	return FilterFunc(0, 1, func(_ context.Context, req *Request, _ *State, _ Values) Outcome {
		return Success(One(req.RemoteAddr()))
	})
}

// URI returns a filter extracting the request URL.
func URI() Filter {
	return FilterFunc(0, 1, func(_ context.Context, req *Request, _ *State, _ Values) Outcome {
		return Success(One(req.URL()))
	})
}
