package mux

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/soheilhy/cmux"

	"jobboard/internal/config"
	"jobboard/internal/grpc/server"
	"jobboard/internal/logging"
)

// Multiplexer serves HTTP and gRPC on one listener
type Multiplexer struct {
	cfg    *config.Config
	logger logging.Logger

	grpcServer *server.Server
	httpServer *http.Server

	mux      cmux.CMux
	listener net.Listener

	wg sync.WaitGroup
}

// NewMultiplexer wires httpHandler and, when enabled, grpcServer behind one port
func NewMultiplexer(cfg *config.Config, httpHandler http.Handler, grpcServer *server.Server, logger logging.Logger) *Multiplexer {
	return &Multiplexer{
		cfg:        cfg,
		logger:     logger.WithField("component", "mux"),
		grpcServer: grpcServer,
		httpServer: &http.Server{
			Handler:           httpHandler,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
	}
}

// Start listens on address and serves until Stop
func (m *Multiplexer) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return m.Serve(listener)
}

// Serve takes ownership of listener
func (m *Multiplexer) Serve(listener net.Listener) error {
	m.listener = listener
	m.mux = cmux.New(listener)
	address := listener.Addr().String()

	if m.grpcServer != nil {
		// grpc-go clients wait for the server SETTINGS frame before sending headers
		grpcListener := m.mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			if err := m.grpcServer.Start(grpcListener); err != nil && !errors.Is(err, cmux.ErrListenerClosed) {
				m.logger.Error("gRPC server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	httpListener := m.mux.Match(cmux.Any())
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.logger.Info("Starting HTTP server", map[string]interface{}{"address": address})
		if err := m.httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, cmux.ErrListenerClosed) {
			m.logger.Error("HTTP server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.mux.Serve(); err != nil && !errors.Is(err, net.ErrClosed) {
			m.logger.Error("Multiplexer failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	m.logger.Info("Multiplexer started successfully", map[string]interface{}{
		"address": address,
		"grpc":    m.grpcServer != nil,
	})
	return nil
}

// Stop drains HTTP, then gRPC, then closes the listener, waiting at most until ctx is done
func (m *Multiplexer) Stop(ctx context.Context) error {
	m.logger.Info("Stopping multiplexer...")

	var firstErr error
	if err := m.httpServer.Shutdown(ctx); err != nil {
		m.logger.Error("HTTP server shutdown failed", map[string]interface{}{"error": err.Error()})
		firstErr = err
	}

	if m.grpcServer != nil {
		stopped := make(chan struct{})
		go func() {
			m.grpcServer.Stop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			m.logger.Warn("gRPC graceful stop timed out")
		}
	}

	if m.listener != nil {
		if err := m.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			m.logger.Error("Failed to close listener", map[string]interface{}{"error": err.Error()})
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Multiplexer stopped gracefully")
	case <-ctx.Done():
		m.logger.Warn("Multiplexer shutdown timed out")
		if firstErr == nil {
			firstErr = ctx.Err()
		}
	}
	return firstErr
}

// Addr returns the address the multiplexer is listening on
func (m *Multiplexer) Addr() string {
	if m.listener != nil {
		return m.listener.Addr().String()
	}
	return ""
}
