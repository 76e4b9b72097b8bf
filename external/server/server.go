// Package server listens on a Wyoming URI and runs one session handler
// per accepted connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/foxseedlab/kikitorin/internal/session"
	"github.com/foxseedlab/kikitorin/internal/wyoming"
	"github.com/google/uuid"
)

type Server struct {
	uri     string
	factory *session.Factory
}

func New(uri string, factory *session.Factory) *Server {
	return &Server{uri: uri, factory: factory}
}

// Serve accepts connections until ctx is cancelled. Each connection gets
// its own goroutine, handler and derived context, so process shutdown
// cancels every in-flight utterance.
func (s *Server) Serve(ctx context.Context) error {
	network, addr, err := parseURI(s.uri)
	if err != nil {
		return err
	}
	listener, err := net.Listen(network, addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.uri, err)
	}
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()
	slog.Info("listening", "uri", s.uri)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConnection(ctx, conn)
	}
}

func (s *Server) handleConnection(ctx context.Context, netConn net.Conn) {
	defer func() {
		_ = netConn.Close()
	}()

	connectionID := uuid.NewString()
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	// Reads block in the kernel, not on connCtx; closing the socket is
	// what unblocks them at shutdown.
	go func() {
		<-connCtx.Done()
		_ = netConn.Close()
	}()

	conn := wyoming.NewConn(netConn)
	handler := s.factory.NewHandler(conn, connectionID)
	defer handler.Close()
	slog.Info("client connected", "connection_id", connectionID, "remote_addr", netConn.RemoteAddr().String())

	for {
		ev, err := conn.ReadEvent()
		if err != nil {
			if errors.Is(err, io.EOF) || connCtx.Err() != nil {
				slog.Info("client disconnected", "connection_id", connectionID)
			} else {
				slog.Warn("failed to read event", "error", err, "connection_id", connectionID)
			}
			return
		}
		keepGoing, err := handler.HandleEvent(connCtx, ev)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("session interrupted by shutdown", "connection_id", connectionID)
			} else {
				slog.Error("event handling failed", "error", err, "connection_id", connectionID)
			}
			return
		}
		if !keepGoing {
			slog.Info("session finished", "connection_id", connectionID)
			return
		}
	}
}

func parseURI(uri string) (network, addr string, err error) {
	switch {
	case strings.HasPrefix(uri, "tcp://"):
		return "tcp", strings.TrimPrefix(uri, "tcp://"), nil
	case strings.HasPrefix(uri, "unix://"):
		return "unix", strings.TrimPrefix(uri, "unix://"), nil
	default:
		return "", "", fmt.Errorf("unsupported listen uri %q (want tcp:// or unix://)", uri)
	}
}
