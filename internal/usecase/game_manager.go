package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
	"github.com/rocketscienceinc/tictactoe-session/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-session/internal/tictactoe"
)

const gameIDAttempts = 5

var ErrGameIDExhausted = errors.New("could not generate a free game id")

type playerRepo interface {
	Create(ctx context.Context, connectionID, name, gameID, symbol string) (*entity.Player, error)
	GetByID(ctx context.Context, connectionID string) (*entity.Player, error)
	Remove(ctx context.Context, connectionID string) error
}

type gameRepo interface {
	Create(ctx context.Context, id, player1, player2 string) (*entity.Game, error)
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, game *entity.Game) error
}

// Outcome is what an accepted operation asks the transport to do.
type Outcome struct {
	// SessionID is the session the requester belongs to after the operation. Empty when membership did not change.
	SessionID string
	Events    []entity.Event
}

// GameManager applies player intents to the game and player registries.
// A returned error means the intent was rejected and nothing was changed.
// It expects calls to be serialized by the caller.
type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo

	generateID func() string
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,

		generateID: pkg.GenerateGameID,
	}
}

// CreateSession - registers the requester as X in a new waiting game.
func (that *GameManager) CreateSession(ctx context.Context, connID, name string) (*Outcome, error) {
	log := that.logger.With("method", "CreateSession", "connID", connID)

	gameID, err := that.newGameID(ctx)
	if err != nil {
		return nil, err
	}

	player, err := that.playerRepo.Create(ctx, connID, name, gameID, entity.PlayerX)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	game, err := that.gameRepo.Create(ctx, gameID, player.ID, "")
	if err != nil {
		that.discardPlayer(ctx, player.ID)
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "gameID", game.ID)

	return &Outcome{
		SessionID: game.ID,
		Events: []entity.Event{
			entity.PlayerCreated(player),
			entity.GameUpdated(entity.AudienceRequester, game),
		},
	}, nil
}

// JoinSession - registers the requester as O in a waiting game and starts it.
func (that *GameManager) JoinSession(ctx context.Context, connID, name, gameID string) (*Outcome, error) {
	log := that.logger.With("method", "JoinSession", "connID", connID, "gameID", gameID)

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.HasPlayer(connID) {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrAlreadyInGame, gameID)
	}

	if game.IsFull() {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameFull, gameID)
	}

	player, err := that.playerRepo.Create(ctx, connID, name, game.ID, entity.PlayerO)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	game.Player2 = player.ID
	game.Status = entity.StatusPlaying
	if err = that.updateGame(ctx, game); err != nil {
		that.discardPlayer(ctx, player.ID)
		return nil, err
	}

	log.Info("player joined game")

	return &Outcome{
		SessionID: game.ID,
		Events: []entity.Event{
			entity.PlayerCreated(player),
			entity.GameUpdated(entity.AudienceSession, game),
			entity.Notification(entity.AudienceSession, game.ID, name+" has joined the game"),
		},
	}, nil
}

// ApplyMove - places the requester's symbol on square and settles the game if that move ended it.
func (that *GameManager) ApplyMove(ctx context.Context, connID, gameID string, square int) (*Outcome, error) {
	log := that.logger.With("method", "ApplyMove", "connID", connID, "gameID", gameID)

	game, player, err := that.getMembership(ctx, connID, gameID)
	if err != nil {
		return nil, err
	}

	if err = tictactoe.MakeTurn(game, player, square); err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	// clients see the move before the result, but the record is written once
	moved := game.Clone()
	finished := tictactoe.UpdateGameStatus(game, player)

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Debug("move applied", "square", square, "symbol", player.Symbol)

	outcome := &Outcome{
		Events: []entity.Event{entity.GameUpdated(entity.AudienceSession, moved)},
	}

	if !finished {
		return outcome, nil
	}

	if game.Winner.Draw {
		log.Info("game finished in a draw")
	} else {
		log.Info("game won", "winner", player.ID, "line", game.Winner.Line)
	}

	outcome.Events = append(outcome.Events,
		entity.GameUpdated(entity.AudienceSession, game),
		entity.GameEnd(game.ID, game.Winner),
	)

	return outcome, nil
}

// ResetSession - clears the board of a started game; the requester moves first.
func (that *GameManager) ResetSession(ctx context.Context, connID, gameID string) (*Outcome, error) {
	log := that.logger.With("method", "ResetSession", "connID", connID, "gameID", gameID)

	game, player, err := that.getMembership(ctx, connID, gameID)
	if err != nil {
		return nil, err
	}

	if game.IsWaiting() {
		return nil, apperror.ErrGameIsNotStarted
	}

	game.Reset(player.ID)
	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Info("game reset")

	return &Outcome{
		Events: []entity.Event{
			entity.GameUpdated(entity.AudienceSession, game),
			entity.GameEnd(game.ID, nil),
		},
	}, nil
}

// RelayMessage - forwards a chat payload to everyone in the session, sender included.
func (that *GameManager) RelayMessage(ctx context.Context, gameID string, payload json.RawMessage) (*Outcome, error) {
	if _, err := that.getGameByID(ctx, gameID); err != nil {
		return nil, err
	}

	return &Outcome{
		Events: []entity.Event{{
			Audience:  entity.AudienceSession,
			SessionID: gameID,
			Name:      entity.EventNewMessage,
			Payload:   payload,
		}},
	}, nil
}

// RelayBroadcast - forwards a payload to every other connection.
func (that *GameManager) RelayBroadcast(payload json.RawMessage) *Outcome {
	return &Outcome{
		Events: []entity.Event{{
			Audience: entity.AudienceOthers,
			Name:     entity.EventNewBroadcast,
			Payload:  payload,
		}},
	}
}

// HandleDisconnect - forgets the connection's player. Its game is left as it is.
func (that *GameManager) HandleDisconnect(ctx context.Context, connID string) error {
	log := that.logger.With("method", "HandleDisconnect", "connID", connID)

	player, err := that.playerRepo.GetByID(ctx, connID)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}

	if err = that.playerRepo.Remove(ctx, player.ID); err != nil {
		return fmt.Errorf("failed to remove player: %w", err)
	}

	log.Info("player removed", "gameID", player.GameID)

	return nil
}

// getMembership - loads the game and the connection's player and checks that one belongs to the other.
func (that *GameManager) getMembership(ctx context.Context, connID, gameID string) (*entity.Game, *entity.Player, error) {
	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	player, err := that.playerRepo.GetByID(ctx, connID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player: %w", err)
	}

	if player.GameID != game.ID || !game.HasPlayer(player.ID) {
		return nil, nil, fmt.Errorf("%w: game id %s", apperror.ErrNotInGame, gameID)
	}

	return game, player, nil
}

// discardPlayer - undoes a registration whose game write failed.
func (that *GameManager) discardPlayer(ctx context.Context, connID string) {
	if err := that.playerRepo.Remove(ctx, connID); err != nil {
		that.logger.Error("failed to discard player", "connID", connID, "error", err)
	}
}

func (that *GameManager) newGameID(ctx context.Context) (string, error) {
	for i := 0; i < gameIDAttempts; i++ {
		id := that.generateID()

		_, err := that.gameRepo.GetByID(ctx, id)
		if errors.Is(err, apperror.ErrGameNotFound) {
			return id, nil
		}

		if err != nil {
			return "", fmt.Errorf("failed to check game id: %w", err)
		}
	}

	return "", ErrGameIDExhausted
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.Update(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
