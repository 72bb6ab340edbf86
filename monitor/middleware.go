package monitor

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/handlers"
	"github.com/ridge/overlay/tlog"
	"github.com/ridge/parallel"
	"go.uber.org/zap"
)

// StandardMiddleware logs requests, turns handler panics into server
// failures and allows cross-origin requests, in that order
func StandardMiddleware(next http.Handler) http.Handler {
	return Log(Recover(CORS(next)))
}

// Log is a middleware that logs before and after handling of each request
func Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ctx := tlog.With(r.Context(),
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
		)
		logger := tlog.Get(ctx)
		logger.Debug("HTTP request handling started")
		var status int
		next.ServeHTTP(captureStatus(w, &status), r.WithContext(ctx))
		logger.Debug("HTTP request handling ended", zap.Int("statusCode", status), zap.Duration("elapsed", time.Since(started)))
	})
}

// captureStatus wraps w to record the response status code into *status.
// Hijacking still works if w supports it.
func captureStatus(w http.ResponseWriter, status *int) http.ResponseWriter {
	cs := statusWriter{ResponseWriter: w, status: status}
	if h, ok := w.(http.Hijacker); ok {
		cs.Hijacker = h
	}
	return cs
}

type statusWriter struct {
	http.ResponseWriter
	http.Hijacker
	status *int
}

func (sw statusWriter) Write(b []byte) (int, error) {
	if *sw.status == 0 {
		*sw.status = http.StatusOK
	}
	return sw.ResponseWriter.Write(b)
}

func (sw statusWriter) WriteHeader(statusCode int) {
	*sw.status = statusCode
	sw.ResponseWriter.WriteHeader(statusCode)
}

// Recover is a middleware that catches panics from handlers, answers 500 and
// hands the panic to the server, which then stops
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := runTask(r.Context(), func(ctx context.Context) error {
			next.ServeHTTP(w, r)
			return nil
		})
		if err == nil {
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		if panicChan, ok := r.Context().Value(panicKey).(chan error); ok {
			select {
			case panicChan <- err:
			default:
			}
		}
	})
}

func runTask(ctx context.Context, task parallel.Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = parallel.ErrPanic{Value: p, Stack: debug.Stack()}
		}
	}()
	return task(ctx)
}

// CORS is a middleware that allows cross-origin reads, so that a web page
// served elsewhere can show the overlay
var CORS = handlers.CORS(
	handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	handlers.AllowedHeaders([]string{"Cache-Control", "Content-Type", "X-Requested-With"}),
	handlers.AllowedOrigins([]string{"*"}),
)
