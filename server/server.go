// Copyright (c) 2025 Myth Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package server runs a filter chain as an HTTP server.
package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"

	"github.com/patrick-gu/myth"
	"github.com/patrick-gu/myth/internal/noop"
	"github.com/patrick-gu/myth/internal/try"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

type options struct {
	port       uint
	logHandler slog.Handler
	tlsConfig  *tls.Config
}

// Option configures a [Server].
type Option func(*options)

// ListenOnPort will configure the server to listen on the given port.
//
// Default port is 8080.
func ListenOnPort(port uint) Option {
	return func(o *options) {
		o.port = port
	}
}

// LogHandler sets the handler the server logs through. Without it the
// server is silent.
func LogHandler(h slog.Handler) Option {
	return func(o *options) {
		o.logHandler = h
	}
}

// TLSConfig serves TLS with the given configuration.
func TLSConfig(cfg *tls.Config) Option {
	return func(o *options) {
		o.tlsConfig = cfg
	}
}

// Server resolves every inbound request through a single filter chain.
type Server struct {
	port   uint
	listen func(string, string) (net.Listener, error)

	log *slog.Logger

	tlsConfig *tls.Config
	filter    myth.Filter
}

// New returns a server around the given filter. The filter is the whole
// routing table: alternatives inside it decide which requests match, and
// requests nothing matches get the forwarding reason's 404 or 405.
//
// New panics unless the filter declares unit input and success arity 1,
// since the transport has no input values to offer and serializes exactly
// one success value.
func New(f myth.Filter, opts ...Option) *Server {
	if f.InputArity() != 0 {
		panic(fmt.Sprintf("server: the root filter must declare unit input, got input arity %d", f.InputArity()))
	}
	if f.SuccessArity() != 1 {
		panic(fmt.Sprintf("server: the root filter must declare success arity 1, got %d", f.SuccessArity()))
	}

	o := &options{
		port:       8080,
		logHandler: noop.LogHandler{},
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Server{
		port:      o.port,
		listen:    net.Listen,
		log:       slog.New(o.logHandler),
		tlsConfig: o.tlsConfig,
		filter:    f,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully. It
// returns nil after a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	ls, err := s.listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		s.log.Error("failed to listen for connections", slog.Any("error", err))
		return err
	}
	if s.tlsConfig != nil {
		ls = tls.NewListener(ls, s.tlsConfig)
	}

	hs := &http.Server{
		Handler: otelhttp.NewHandler(
			s,
			"server",
			otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
		),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer s.log.Info("shut down server")

		s.log.Info("shutting down server")
		return hs.Shutdown(ctx)
	})
	g.Go(func() error {
		s.log.Info("started server", slog.Uint64("port", uint64(s.port)))
		return hs.Serve(ls)
	})

	err = g.Wait()
	if err == nil || err == http.ErrServerClosed {
		return nil
	}
	s.log.Error("server encountered unexpected error", slog.Any("error", err))
	return err
}

// ServeHTTP implements http.Handler, resolving one request through the
// filter chain.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	remote, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil {
		// Non socket-backed transports (tests, custom listeners) may
		// not set a host:port remote address.
		remote = netip.AddrPort{}
	}

	req := myth.NewRequest(r.Method, r.URL, r.Proto, r.Header, remote)
	state := myth.NewState(r.Body)
	if hj, ok := w.(http.Hijacker); ok {
		state.SetUpgrade(hj)
	}

	out := s.resolve(r.Context(), req, state)
	resp := myth.ResponseOf(out, s.log)
	for name, vs := range resp.Header {
		w.Header()[name] = vs
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		if _, err := w.Write(resp.Body); err != nil {
			s.log.Debug("failed to write response body", slog.Any("error", err))
		}
	}
}

// resolve evaluates the filter chain, containing panics so one bad
// handler cannot take down the connection. A recovered panic resolves
// as a plain 500 error.
func (s *Server) resolve(ctx context.Context, req *myth.Request, state *myth.State) myth.Outcome {
	out, err := func() (out myth.Outcome, err error) {
		defer try.Recover(&err)
		return myth.Evaluate(ctx, s.filter, req, state), nil
	}()
	if err != nil {
		s.log.Error("filter chain panicked", slog.Any("error", err))
		return myth.Fail(err)
	}
	return out
}
