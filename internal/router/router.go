package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
	"github.com/rocketscienceinc/tictactoe-session/internal/usecase"
)

const inboxSize = 256

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrInvalidPayload = errors.New("invalid payload")
)

// Transport delivers encoded events and tracks which session each connection belongs to.
type Transport interface {
	Send(connID string, data []byte)
	SendToGroup(groupID string, data []byte)
	SendToAllExcept(connID string, data []byte)
	// JoinGroup moves the connection into groupID, leaving any group it was in.
	JoinGroup(connID, groupID string)
}

type gameManager interface {
	CreateSession(ctx context.Context, connID, name string) (*usecase.Outcome, error)
	JoinSession(ctx context.Context, connID, name, gameID string) (*usecase.Outcome, error)
	ApplyMove(ctx context.Context, connID, gameID string, square int) (*usecase.Outcome, error)
	ResetSession(ctx context.Context, connID, gameID string) (*usecase.Outcome, error)
	RelayMessage(ctx context.Context, gameID string, payload json.RawMessage) (*usecase.Outcome, error)
	RelayBroadcast(payload json.RawMessage) *usecase.Outcome
	HandleDisconnect(ctx context.Context, connID string) error
}

type handlerFunc func(ctx context.Context, connID string, payload json.RawMessage) (*usecase.Outcome, error)

type inbound struct {
	connID     string
	message    *Message
	disconnect bool
}

// Router feeds inbound events to the game manager one at a time and delivers what comes back.
type Router struct {
	logger      *slog.Logger
	gameManager gameManager
	transport   Transport

	inbox    chan inbound
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameManager gameManager, transport Transport) *Router {
	router := &Router{
		logger:      logger.With("component", "router"),
		gameManager: gameManager,
		transport:   transport,

		inbox:    make(chan inbound, inboxSize),
		handlers: make(map[string]handlerFunc),
	}

	router.handlers[ActionCreateGame] = router.handleCreateGame
	router.handlers[ActionJoinGame] = router.handleJoinGame
	router.handlers[ActionMove] = router.handleMove
	router.handlers[ActionClearData] = router.handleClearData
	router.handlers[ActionMessage] = router.handleMessage
	router.handlers[ActionBroadcast] = router.handleBroadcast

	return router
}

// Run - processes queued events until ctx is done. Only one Run may be active.
func (that *Router) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	log.Info("router started")

	for {
		select {
		case <-ctx.Done():
			log.Info("router stopped")
			return nil
		case in := <-that.inbox:
			if in.disconnect {
				that.HandleDisconnect(ctx, in.connID)
				continue
			}

			that.Handle(ctx, in.connID, in.message)
		}
	}
}

// Dispatch - queues a client message for Run.
func (that *Router) Dispatch(ctx context.Context, connID string, message *Message) error {
	return that.enqueue(ctx, inbound{connID: connID, message: message})
}

// DispatchFrame - decodes a raw client frame and queues it. A frame that is not an envelope is answered right away.
func (that *Router) DispatchFrame(ctx context.Context, connID string, data []byte) error {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		that.logger.Info("malformed frame", "connID", connID, "error", err)
		that.notify(connID, fmt.Errorf("%w: %w", ErrInvalidPayload, err))

		return nil
	}

	return that.Dispatch(ctx, connID, &message)
}

// Disconnect - queues the teardown of a connection for Run.
func (that *Router) Disconnect(ctx context.Context, connID string) error {
	return that.enqueue(ctx, inbound{connID: connID, disconnect: true})
}

func (that *Router) enqueue(ctx context.Context, in inbound) error {
	select {
	case that.inbox <- in:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to queue event: %w", ctx.Err())
	}
}

// Handle - processes one message synchronously.
func (that *Router) Handle(ctx context.Context, connID string, message *Message) {
	log := that.logger.With("method", "Handle", "connID", connID, "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		that.notify(connID, fmt.Errorf("%w: %s", ErrUnknownAction, message.Action))
		return
	}

	outcome, err := handler(ctx, connID, message.Payload)
	if err != nil {
		if apperror.IsRejection(err) || errors.Is(err, ErrInvalidPayload) {
			log.Info("action rejected", "reason", err)
		} else {
			log.Error("failed to process action", "error", err)
		}

		that.notify(connID, err)
		return
	}

	that.deliver(connID, outcome)
}

// HandleDisconnect - processes a connection teardown synchronously.
func (that *Router) HandleDisconnect(ctx context.Context, connID string) {
	log := that.logger.With("method", "HandleDisconnect", "connID", connID)

	if err := that.gameManager.HandleDisconnect(ctx, connID); err != nil {
		log.Error("failed to handle disconnect", "error", err)
	}
}

func (that *Router) deliver(connID string, outcome *usecase.Outcome) {
	log := that.logger.With("method", "deliver", "connID", connID)

	if outcome.SessionID != "" {
		that.transport.JoinGroup(connID, outcome.SessionID)
	}

	for _, event := range outcome.Events {
		data, err := Encode(event)
		if err != nil {
			log.Error("failed to encode event", "event", event.Name, "error", err)
			continue
		}

		switch event.Audience {
		case entity.AudienceRequester:
			that.transport.Send(connID, data)
		case entity.AudienceSession:
			that.transport.SendToGroup(event.SessionID, data)
		case entity.AudienceOthers:
			that.transport.SendToAllExcept(connID, data)
		default:
			log.Error("unknown audience", "event", event.Name, "audience", event.Audience)
		}
	}
}

// notify - reports a failed action to the requester only.
func (that *Router) notify(connID string, err error) {
	event := entity.Notification(entity.AudienceRequester, "", notificationText(err))

	data, encodeErr := Encode(event)
	if encodeErr != nil {
		that.logger.Error("failed to encode notification", "error", encodeErr)
		return
	}

	that.transport.Send(connID, data)
}

func notificationText(err error) string {
	switch cause := apperror.Cause(err); {
	case errors.Is(cause, apperror.ErrGameNotFound):
		return "Invalid game id"
	case cause != nil:
		return cause.Error()
	case errors.Is(err, ErrUnknownAction), errors.Is(err, ErrInvalidPayload):
		return err.Error()
	default:
		return "internal error"
	}
}
