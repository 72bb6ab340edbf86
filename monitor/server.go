package monitor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ridge/must/v2"
	"github.com/ridge/overlay/tlog"
	"github.com/ridge/parallel"
	"go.uber.org/zap"
)

const gracefulShutdownTimeout = 5 * time.Second

var listenConfig = net.ListenConfig{
	KeepAlive: 3 * time.Minute,
}

// Listen opens a listener on "tcp:[host]:port", "unix:path" or, without a
// prefix, a TCP address
func Listen(address string) (net.Listener, error) {
	network := "tcp"
	if proto, rest, ok := strings.Cut(address, ":"); ok {
		switch proto {
		case "unix":
			network = "unix"
			address = rest
		case "tcp":
			address = rest
		}
	}
	return listenConfig.Listen(context.Background(), network, address)
}

// Server serves the monitor over HTTP
type Server struct {
	listener net.Listener
	handler  http.Handler
	locked   sync.WaitGroup
}

// NewServer creates a Server for the monitor
func NewServer(listener net.Listener, m *Monitor) *Server {
	return &Server{
		listener: listener,
		handler:  StandardMiddleware(m.Handler()),
	}
}

type panicKeyType int

const panicKey panicKeyType = iota

// Run serves requests until the context is closed, then performs graceful
// shutdown for up to gracefulShutdownTimeout
func (s *Server) Run(ctx context.Context) error {
	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		panicChan := make(chan error, 1)
		ctx = context.WithValue(ctx, panicKey, panicChan)
		ctx = tlog.With(tlog.Named(ctx, "monitor"), zap.Stringer("address", s.listener.Addr()))
		reqCtx, reqCancel := context.WithCancel(reopen(ctx)) // outlives ctx during shutdown

		logger := tlog.Get(ctx)

		server := http.Server{
			Handler:     s.lock(s.handler),
			ErrorLog:    must.OK1(zap.NewStdLogAt(logger, zap.WarnLevel)),
			BaseContext: func(net.Listener) context.Context { return reqCtx },
			ConnContext: func(ctx context.Context, conn net.Conn) context.Context {
				return tlog.With(ctx, zap.Stringer("remoteAddr", conn.RemoteAddr()))
			},
		}

		spawn("serve", parallel.Fail, func(ctx context.Context) error {
			logger.Info("Serving monitor")
			err := server.Serve(s.listener)
			// ErrServerClosed after ctx is closed is a normal shutdown
			if errors.Is(err, http.ErrServerClosed) && ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		})

		spawn("panicHandler", parallel.Fail, func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err := <-panicChan:
				return err
			}
		})

		spawn("shutdownHandler", parallel.Fail, func(ctx context.Context) error {
			<-ctx.Done()
			logger.Info("Shutting down monitor")

			shutdownCtx, cancel := context.WithTimeout(reqCtx, gracefulShutdownTimeout)
			defer cancel()
			defer reqCancel()
			defer server.Close()

			if err := server.Shutdown(shutdownCtx); err != nil && shutdownCtx.Err() != nil {
				logger.Info("Shutdown canceled", zap.Error(err))
				return err
			}

			reqCancel() // WebSocket streams are hijacked and not tracked by Shutdown
			s.locked.Wait()

			logger.Info("Monitor shutdown complete")
			return ctx.Err()
		})

		return nil
	})
}

// ListenAddr returns the local address of the server's listener
func (s *Server) ListenAddr() net.Addr {
	return s.listener.Addr()
}

// lock keeps the server from finishing shutdown while handlers of hijacked
// connections still run
func (s *Server) lock(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.locked.Add(1)
		defer s.locked.Done()
		next.ServeHTTP(w, r)
	})
}

// reopen returns a context with the values of ctx but not its lifespan
func reopen(ctx context.Context) context.Context {
	return reopened{Context: ctx}
}

type reopened struct {
	context.Context //nolint:containedctx // wraps a context on purpose
}

func (reopened) Deadline() (time.Time, bool) {
	return time.Time{}, false
}

func (reopened) Done() <-chan struct{} {
	return nil
}

func (reopened) Err() error {
	return nil
}
