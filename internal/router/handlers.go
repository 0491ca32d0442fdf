package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-session/internal/usecase"
)

func (that *Router) handleCreateGame(ctx context.Context, connID string, raw json.RawMessage) (*usecase.Outcome, error) {
	var payload createGamePayload
	if err := decode(raw, &payload); err != nil {
		return nil, err
	}

	return that.gameManager.CreateSession(ctx, connID, payload.Name)
}

func (that *Router) handleJoinGame(ctx context.Context, connID string, raw json.RawMessage) (*usecase.Outcome, error) {
	var payload joinGamePayload
	if err := decode(raw, &payload); err != nil {
		return nil, err
	}

	return that.gameManager.JoinSession(ctx, connID, payload.Name, payload.GameID)
}

func (that *Router) handleMove(ctx context.Context, connID string, raw json.RawMessage) (*usecase.Outcome, error) {
	var payload movePayload
	if err := decode(raw, &payload); err != nil {
		return nil, err
	}

	if payload.Square == nil {
		return nil, fmt.Errorf("%w: square is required", ErrInvalidPayload)
	}

	if payload.Player != nil && payload.Player.ID != connID {
		that.logger.Debug("move payload names another player", "connID", connID, "player", payload.Player.ID)
	}

	return that.gameManager.ApplyMove(ctx, connID, payload.GameID, *payload.Square)
}

func (that *Router) handleClearData(ctx context.Context, connID string, raw json.RawMessage) (*usecase.Outcome, error) {
	var payload clearDataPayload
	if err := decode(raw, &payload); err != nil {
		return nil, err
	}

	return that.gameManager.ResetSession(ctx, connID, payload.GameID)
}

func (that *Router) handleMessage(ctx context.Context, _ string, raw json.RawMessage) (*usecase.Outcome, error) {
	var payload chatPayload
	if err := decode(raw, &payload); err != nil {
		return nil, err
	}

	return that.gameManager.RelayMessage(ctx, payload.GameID, raw)
}

func (that *Router) handleBroadcast(_ context.Context, _ string, raw json.RawMessage) (*usecase.Outcome, error) {
	if !json.Valid(raw) {
		return nil, ErrInvalidPayload
	}

	return that.gameManager.RelayBroadcast(raw), nil
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload is required", ErrInvalidPayload)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return nil
}
