package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type dispatcher interface {
	DispatchFrame(ctx context.Context, connID string, data []byte) error
	Disconnect(ctx context.Context, connID string) error
}

// Server upgrades HTTP requests to websocket connections and pumps frames between them and the dispatcher.
type Server struct {
	logger     *slog.Logger
	hub        *Hub
	dispatcher dispatcher

	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, hub *Hub, dispatcher dispatcher) *Server {
	return &Server{
		logger:     logger.With("component", "websocket"),
		hub:        hub,
		dispatcher: dispatcher,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler - upgrades to WebSocket. ctx outlives the request and bounds dispatching.
func (that *Server) Handler(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	}
}

func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		// Upgrade has already replied to the client
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	c := that.hub.register(conn)
	log.Info("WebSocket connection established", "connID", c.id, "remote", conn.RemoteAddr().String())

	go that.writePump(c)
	that.readPump(ctx, c)
}

// readPump - feeds frames to the dispatcher until the connection fails, then tears it down.
func (that *Server) readPump(ctx context.Context, c *client) {
	log := that.logger.With("method", "readPump", "connID", c.id)

	defer func() {
		that.hub.unregister(c)

		if err := that.dispatcher.Disconnect(ctx, c.id); err != nil {
			log.Warn("failed to queue disconnect", "error", err)
		}

		log.Info("WebSocket connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Error("failed to set read deadline", "error", err)
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("error reading message", "error", err)
			}

			return
		}

		if err = that.dispatcher.DispatchFrame(ctx, c.id, data); err != nil {
			log.Warn("failed to dispatch frame", "error", err)
			return
		}
	}
}

// writePump - drains the client's queue onto the socket and keeps it alive with pings.
func (that *Server) writePump(c *client) {
	log := that.logger.With("method", "writePump", "connID", c.id)

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Debug("failed to close connection", "error", err)
		}
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if !ok {
				// the hub closed the queue
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
