// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package myth

import (
	"context"
	"log/slog"

	"github.com/patrick-gu/myth/internal/noop"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Evaluate resolves one inbound request by running it through the filter
// chain, recording the resolution as an OpenTelemetry span. It is the
// single entry point the transport invokes, exactly once per request; the
// caller retains ownership of state afterwards, whatever the outcome.
func Evaluate(ctx context.Context, f Filter, req *Request, state *State) Outcome {
	ctx, span := otel.Tracer("github.com/patrick-gu/myth").Start(ctx, "Evaluate",
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method()),
			attribute.String("url.path", req.Path()),
			attribute.String("network.peer.address", req.RemoteAddr().String()),
		),
	)
	defer span.End()

	out := f.Execute(ctx, req, state, nil)
	switch {
	case out.Failed():
		span.RecordError(out.Err())
		span.SetStatus(codes.Error, out.Err().Error())
	case out.Forwarded():
		span.SetAttributes(attribute.Bool("myth.forwarded", true))
	}
	return out
}

// ResponseOf converts a resolution outcome into the response the
// transport serializes: the success value's own response, an error's
// default response (500 for errors that do not render themselves), or the
// forwarding reason's 404 or 405.
//
// An error and a miss are logged at debug level through log.
func ResponseOf(out Outcome, log *slog.Logger) Response {
	if log == nil {
		log = slog.New(noop.LogHandler{})
	}
	switch {
	case out.Succeeded():
		return Respond(out.SuccessValues().Single())
	case out.Failed():
		log.Debug("responding with unhandled error", slog.Any("error", out.Err()))
		return errorResponse(out.Err())
	default:
		log.Debug("request did not match any filter", slog.String("allow", out.Reason().Attempted().String()))
		return out.Reason().Respond()
	}
}
