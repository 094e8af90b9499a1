// Package server runs the HTTP handler and a gRPC health service on one TCP
// listener. Load balancers that speak gRPC health checks and browsers hitting
// the REST routes share the same port.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Config tunes the listener.
type Config struct {
	ReadTimeout     time.Duration // default 15s
	WriteTimeout    time.Duration // default 120s
	IdleTimeout     time.Duration // default 120s
	ShutdownTimeout time.Duration // default 20s

	// Service is the name reported by the health service alongside "".
	Service string
}

func (c *Config) defaults() {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 120 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 20 * time.Second
	}
}

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully. Health flips to NOT_SERVING before in-flight requests drain.
func Run(ctx context.Context, addr string, handler http.Handler, cfg Config, logger *slog.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return Serve(ctx, lis, handler, cfg, logger)
}

// Serve is Run on an existing listener. It takes ownership of lis.
func Serve(ctx context.Context, lis net.Listener, handler http.Handler, cfg Config, logger *slog.Logger) error {
	cfg.defaults()

	m := cmux.New(lis)
	grpcL := m.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpL := m.Match(cmux.Any())

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	if cfg.Service != "" {
		hs.SetServingStatus(cfg.Service, healthpb.HealthCheckResponse_SERVING)
	}
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	hsrv := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errc := make(chan error, 3)
	go func() {
		if err := gs.Serve(grpcL); err != nil && !errors.Is(err, grpc.ErrServerStopped) && !errors.Is(err, cmux.ErrListenerClosed) {
			errc <- fmt.Errorf("server: grpc: %w", err)
		}
	}()
	go func() {
		if err := hsrv.Serve(httpL); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, cmux.ErrListenerClosed) {
			errc <- fmt.Errorf("server: http: %w", err)
		}
	}()
	go func() {
		if err := m.Serve(); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, cmux.ErrServerClosed) {
			errc <- fmt.Errorf("server: mux: %w", err)
		}
	}()

	logger.Info("server listening", "addr", lis.Addr().String())

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errc:
		hs.Shutdown()
		gs.Stop()
		m.Close()
		return err
	}

	hs.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	err := hsrv.Shutdown(shutdownCtx)
	gs.GracefulStop()
	m.Close()
	if err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
