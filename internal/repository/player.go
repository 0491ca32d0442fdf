package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

const playerKeyPrefix = "player:"

// PlayerRepository - the player registry, keyed by connection id.
type PlayerRepository interface {
	// Create overwrites any player already registered for the connection.
	Create(ctx context.Context, connectionID, name, gameID, symbol string) (*entity.Player, error)
	GetByID(ctx context.Context, connectionID string) (*entity.Player, error)
	Remove(ctx context.Context, connectionID string) error
	Count(ctx context.Context) (int, error)
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func (that *dbPlayer) Create(ctx context.Context, connectionID, name, gameID, symbol string) (*entity.Player, error) {
	player := entity.NewPlayer(connectionID, name, gameID, symbol)

	playerJSON, err := json.Marshal(player)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player: %w", err)
	}

	if err = that.client.Set(ctx, playerKeyPrefix+connectionID, playerJSON, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to set player: %w", err)
	}

	return player, nil
}

func (that *dbPlayer) GetByID(ctx context.Context, connectionID string) (*entity.Player, error) {
	response, err := that.client.Get(ctx, playerKeyPrefix+connectionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	var existingPlayer entity.Player
	if err = json.Unmarshal([]byte(response), &existingPlayer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}

func (that *dbPlayer) Remove(ctx context.Context, connectionID string) error {
	if err := that.client.Del(ctx, playerKeyPrefix+connectionID).Err(); err != nil {
		return fmt.Errorf("failed to delete player by ID: %w", err)
	}

	return nil
}

func (that *dbPlayer) Count(ctx context.Context) (int, error) {
	return countKeys(ctx, that.client, playerKeyPrefix)
}
