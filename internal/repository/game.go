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

const gameKeyPrefix = "game:"

// GameRepository - the game registry. It is the only owner of game records; callers get copies.
type GameRepository interface {
	Create(ctx context.Context, id, player1, player2 string) (*entity.Game, error)
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	// Update replaces the stored record. Unknown ids are ignored without an error.
	Update(ctx context.Context, game *entity.Game) error
	Count(ctx context.Context) (int, error)
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) Create(ctx context.Context, id, player1, player2 string) (*entity.Game, error) {
	game := entity.NewGame(id, player1, player2)

	gameJSON, err := json.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("could not marshal game: %w", err)
	}

	if err = that.client.Set(ctx, gameKeyPrefix+id, gameJSON, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to set game: %w", err)
	}

	return game, nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) Update(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	// SET XX only overwrites an existing key
	if err = that.client.SetXX(ctx, gameKeyPrefix+game.ID, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *dbGame) Count(ctx context.Context) (int, error) {
	return countKeys(ctx, that.client, gameKeyPrefix)
}

func countKeys(ctx context.Context, client *redis.Client, prefix string) (int, error) {
	var count int

	iter := client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}

	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan %s keys: %w", prefix, err)
	}

	return count, nil
}
