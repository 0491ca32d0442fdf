package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

type memoryGame struct {
	mu    sync.RWMutex
	games map[string]*entity.Game
}

// NewMemoryGameRepository - process-local game registry. Records are copied in and out.
func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]*entity.Game),
	}
}

func (that *memoryGame) Create(_ context.Context, id, player1, player2 string) (*entity.Game, error) {
	game := entity.NewGame(id, player1, player2)

	that.mu.Lock()
	that.games[id] = game.Clone()
	that.mu.Unlock()

	return game, nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return game.Clone(), nil
}

func (that *memoryGame) Update(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.ID]; ok {
		that.games[game.ID] = game.Clone()
	}

	return nil
}

func (that *memoryGame) Count(_ context.Context) (int, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.games), nil
}

type memoryPlayer struct {
	mu      sync.RWMutex
	players map[string]*entity.Player
}

// NewMemoryPlayerRepository - process-local player registry.
func NewMemoryPlayerRepository() PlayerRepository {
	return &memoryPlayer{
		players: make(map[string]*entity.Player),
	}
}

func (that *memoryPlayer) Create(_ context.Context, connectionID, name, gameID, symbol string) (*entity.Player, error) {
	player := entity.NewPlayer(connectionID, name, gameID, symbol)

	that.mu.Lock()
	that.players[connectionID] = player.Clone()
	that.mu.Unlock()

	return player, nil
}

func (that *memoryPlayer) GetByID(_ context.Context, connectionID string) (*entity.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player, ok := that.players[connectionID]
	if !ok {
		return nil, apperror.ErrPlayerNotFound
	}

	return player.Clone(), nil
}

func (that *memoryPlayer) Remove(_ context.Context, connectionID string) error {
	that.mu.Lock()
	delete(that.players, connectionID)
	that.mu.Unlock()

	return nil
}

func (that *memoryPlayer) Count(_ context.Context) (int, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.players), nil
}
