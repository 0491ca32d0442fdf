package websocket

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(ids ...string) *Hub {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), 4)
	for _, id := range ids {
		hub.clients[id] = &client{id: id, send: make(chan []byte, hub.sendBuffer)}
	}

	return hub
}

func drain(c *client) []string {
	var got []string
	for {
		select {
		case data := <-c.send:
			got = append(got, string(data))
		default:
			return got
		}
	}
}

func TestHub_Groups(t *testing.T) {
	t.Run("Group sends reach members only", func(t *testing.T) {
		hub := newTestHub("a", "b", "c")
		hub.JoinGroup("a", "g1")
		hub.JoinGroup("b", "g1")
		hub.JoinGroup("c", "g2")

		hub.SendToGroup("g1", []byte("hello"))

		assert.Equal(t, []string{"hello"}, drain(hub.clients["a"]))
		assert.Equal(t, []string{"hello"}, drain(hub.clients["b"]))
		assert.Empty(t, drain(hub.clients["c"]))
	})

	t.Run("Joining another group leaves the previous one", func(t *testing.T) {
		hub := newTestHub("a")
		hub.JoinGroup("a", "g1")

		hub.JoinGroup("a", "g2")

		assert.NotContains(t, hub.groups, "g1")
		assert.Contains(t, hub.groups["g2"], "a")
		assert.Equal(t, "g2", hub.clients["a"].group)
	})

	t.Run("Unknown connection cannot join", func(t *testing.T) {
		hub := newTestHub()

		hub.JoinGroup("ghost", "g1")

		assert.Empty(t, hub.groups)
	})
}

func TestHub_Send(t *testing.T) {
	hub := newTestHub("a", "b", "c")

	hub.Send("b", []byte("direct"))
	hub.SendToAllExcept("a", []byte("broad"))
	hub.Send("ghost", []byte("lost"))

	assert.Equal(t, []string(nil), drain(hub.clients["a"]))
	assert.Equal(t, []string{"direct", "broad"}, drain(hub.clients["b"]))
	assert.Equal(t, []string{"broad"}, drain(hub.clients["c"]))
}

func TestHub_Unregister(t *testing.T) {
	hub := newTestHub("a", "b")
	hub.JoinGroup("a", "g1")
	c := hub.clients["a"]

	hub.unregister(c)
	hub.unregister(c)

	require.Equal(t, 1, hub.Count())
	assert.Empty(t, hub.groups)

	_, open := <-c.send
	assert.False(t, open)
}

func TestHub_DroppedClientIsSkipped(t *testing.T) {
	// Given: a client the hub already gave up on
	hub := newTestHub("a", "b")
	hub.JoinGroup("a", "g1")
	hub.JoinGroup("b", "g1")
	hub.clients["a"].dropped.Store(true)

	// When: more events go out
	hub.SendToGroup("g1", []byte("late"))
	hub.Send("a", []byte("direct"))

	// Then: nothing is queued for it and nothing tries to close it again
	assert.Empty(t, drain(hub.clients["a"]))
	assert.Equal(t, []string{"late"}, drain(hub.clients["b"]))
}
