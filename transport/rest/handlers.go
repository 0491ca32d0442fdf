package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	GameHandler(w http.ResponseWriter, r *http.Request)
}

type gameReader interface {
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type handlers struct {
	logger *slog.Logger
	games  gameReader
}

func NewHandlers(logger *slog.Logger, games gameReader) Handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

type gameResponse struct {
	Game *entity.Game `json:"game"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GameHandler - returns the current state of one game.
func (that *handlers) GameHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GameHandler")

	gameID := mux.Vars(r)["gameID"]

	game, err := that.games.GetByID(r.Context(), gameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	if err != nil {
		log.Error("failed to get game", "gameID", gameID, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
