package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ridge/overlay/tlog"
	"github.com/ridge/parallel"
	"go.uber.org/zap"
)

// StreamConfig is the configuration of a frame stream
type StreamConfig struct {
	// Timeout for the WebSocket protocol upgrade
	HandshakeTimeout time.Duration

	// Disconnect when an outgoing packet is not acknowledged for this long.
	// 0 for kernel default.
	TCPTimeout time.Duration

	// Send pings this often. 0 to disable.
	PingInterval time.Duration

	// Disconnect if a pong doesn't arrive during PingInterval
	RequirePong bool
}

// DefaultStreamConfig is the default StreamConfig value
var DefaultStreamConfig = StreamConfig{
	HandshakeTimeout: 5 * time.Second,
	TCPTimeout:       30 * time.Second,
	PingInterval:     30 * time.Second,
	RequirePong:      true,
}

// serveStream upgrades the connection to WebSocket and writes every message
// from messages until either side goes away
func serveStream(w http.ResponseWriter, r *http.Request, config StreamConfig, messages <-chan []byte) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout: config.HandshakeTimeout,
		CheckOrigin:      func(*http.Request) bool { return true },
	}
	logger := tlog.Get(r.Context())

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to serve WebSocket connection", zap.Error(err))
		return
	}

	if err := tuneTCP(ws.UnderlyingConn(), config.TCPTimeout); err != nil {
		ws.Close()
		logger.Error("Failed to serve WebSocket connection", zap.Error(err))
		return
	}

	logger.Info("Frame subscriber connected")
	err = stream(r.Context(), ws, config, messages)
	logger.Info("Frame subscriber disconnected", zap.Error(err))
}

func stream(ctx context.Context, ws *websocket.Conn, config StreamConfig, messages <-chan []byte) error {
	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		var pings atomic.Int64 // pings sent minus pongs received

		if config.RequirePong {
			ws.SetPongHandler(func(string) error {
				pings.Add(-1)
				return nil
			})
		}

		// Subscribers are not expected to talk, but reading is what
		// processes control frames and notices the peer going away
		spawn("receiver", parallel.Exit, func(ctx context.Context) error {
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					var e *websocket.CloseError
					if errors.As(err, &e) {
						return nil
					}
					return err
				}
			}
		})

		// gorilla/websocket does not support concurrent writes, so messages
		// and pings are written from the same goroutine
		spawn("sender", parallel.Exit, func(ctx context.Context) error {
			var ticks <-chan time.Time
			if config.PingInterval != 0 {
				ticker := time.NewTicker(config.PingInterval)
				defer ticker.Stop()
				ticks = ticker.C
			}
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case msg := <-messages:
					if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
						return err
					}
				case <-ticks:
					if config.RequirePong && pings.Add(1) > 1 {
						return errors.New("WebSocket ping timeout")
					}
					if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
						return err
					}
				}
			}
		})

		spawn("closer", parallel.Exit, func(ctx context.Context) error {
			<-ctx.Done()
			if err := ws.Close(); err != nil && !strings.Contains(err.Error(), "use of closed network connection") {
				return fmt.Errorf("failed to close WebSocket: %w", err)
			}
			return ctx.Err()
		})

		return nil
	})
}
