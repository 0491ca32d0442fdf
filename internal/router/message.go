package router

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

// Inbound actions.
const (
	ActionCreateGame = "createGame"
	ActionJoinGame   = "joinGame"
	ActionMove       = "moveMode"
	ActionClearData  = "clearData"
	ActionMessage    = "message"
	ActionBroadcast  = "broad"
)

// Message represents a client message with an action type and a payload.
// Outbound events use the same envelope with the event name as the action.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type createGamePayload struct {
	Name string `json:"name"`
}

type joinGamePayload struct {
	Name   string `json:"name"`
	GameID string `json:"gameId"`
}

// movePayload - the player is informational; the acting player is always the connection's own.
type movePayload struct {
	Player *entity.Player `json:"player"`
	Square *int           `json:"square"`
	GameID string         `json:"gameId"`
}

type clearDataPayload struct {
	Player *entity.Player `json:"player"`
	GameID string         `json:"gameId"`
}

type chatPayload struct {
	GameID string `json:"gameId"`
}

type outbound struct {
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

// Encode - serializes an outgoing event into the wire envelope.
func Encode(event entity.Event) ([]byte, error) {
	data, err := json.Marshal(outbound{Action: event.Name, Payload: event.Payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", event.Name, err)
	}

	return data, nil
}
