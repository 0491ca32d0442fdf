package websocket

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-session/internal/pkg"
)

const defaultSendBuffer = 32

type client struct {
	id    string
	conn  *websocket.Conn
	send  chan []byte
	group string

	// dropped is set once the hub gave up on a slow client; later sends skip it
	dropped atomic.Bool
}

// Hub tracks live connections and the session group each one belongs to.
// Sends never block: a connection whose queue is full gets closed.
type Hub struct {
	logger     *slog.Logger
	sendBuffer int

	mu      sync.RWMutex
	clients map[string]*client
	groups  map[string]map[string]*client
}

func NewHub(logger *slog.Logger, sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}

	return &Hub{
		logger:     logger.With("component", "hub"),
		sendBuffer: sendBuffer,

		clients: make(map[string]*client),
		groups:  make(map[string]map[string]*client),
	}
}

func (that *Hub) register(conn *websocket.Conn) *client {
	c := &client{
		id:   pkg.GenerateConnectionID(),
		conn: conn,
		send: make(chan []byte, that.sendBuffer),
	}

	that.mu.Lock()
	that.clients[c.id] = c
	that.mu.Unlock()

	return c
}

// unregister - forgets the connection and closes its queue, which stops its write pump.
func (that *Hub) unregister(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[c.id]; !ok {
		return
	}

	that.leaveGroup(c)
	delete(that.clients, c.id)
	close(c.send)
}

func (that *Hub) Send(connID string, data []byte) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if c, ok := that.clients[connID]; ok {
		that.enqueue(c, data)
	}
}

func (that *Hub) SendToGroup(groupID string, data []byte) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, c := range that.groups[groupID] {
		that.enqueue(c, data)
	}
}

func (that *Hub) SendToAllExcept(connID string, data []byte) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for id, c := range that.clients {
		if id != connID {
			that.enqueue(c, data)
		}
	}
}

func (that *Hub) JoinGroup(connID, groupID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	c, ok := that.clients[connID]
	if !ok || c.group == groupID {
		return
	}

	that.leaveGroup(c)

	members, ok := that.groups[groupID]
	if !ok {
		members = make(map[string]*client)
		that.groups[groupID] = members
	}

	members[c.id] = c
	c.group = groupID
}

// Count - number of live connections.
func (that *Hub) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

// leaveGroup expects that.mu to be held for writing.
func (that *Hub) leaveGroup(c *client) {
	if c.group == "" {
		return
	}

	members := that.groups[c.group]
	delete(members, c.id)
	if len(members) == 0 {
		delete(that.groups, c.group)
	}

	c.group = ""
}

// enqueue expects that.mu to be held.
func (that *Hub) enqueue(c *client, data []byte) {
	if c.dropped.Load() {
		return
	}

	select {
	case c.send <- data:
	default:
		if !c.dropped.CompareAndSwap(false, true) {
			return
		}

		that.logger.Warn("send queue is full, dropping connection", "connID", c.id)
		// the read pump fails on the closed socket and unregisters the client
		if err := c.conn.Close(); err != nil {
			that.logger.Debug("failed to close connection", "connID", c.id, "error", err)
		}
	}
}
