package repository

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gameRepoFactory func(t *testing.T) (context.Context, GameRepository)

type playerRepoFactory func(t *testing.T) (context.Context, PlayerRepository)

func testGameRepository(t *testing.T, newRepo gameRepoFactory) {
	t.Run("Create_Waiting", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		// When: a game is created without a second player
		game, err := gameRepo.Create(ctx, "g1", "p1", "")

		// Then: it is waiting, empty and p1 holds the turn
		require.NoError(t, err)
		assert.Equal(t, entity.StatusWaiting, game.Status)
		assert.Equal(t, "p1", game.PlayerTurn)
		assert.Equal(t, entity.Board{}, game.Board)
		assert.Nil(t, game.Winner)
	})

	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		// Given: a stored game
		created, err := gameRepo.Create(ctx, "g1", "p1", "")
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrieved, err := gameRepo.GetByID(ctx, "g1")

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		assert.Equal(t, created, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		// When: GetByID is called with non-existent ID
		retrieved, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, retrieved)
	})

	t.Run("Update_ReplacesRecord", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		// Given: a stored game that was joined and played on
		game, err := gameRepo.Create(ctx, "g1", "p1", "")
		require.NoError(t, err)

		game.Player2 = "p2"
		game.Status = entity.StatusPlaying
		game.Board[4] = entity.PlayerX
		game.PlayerTurn = "p2"

		// When: Update is called
		require.NoError(t, gameRepo.Update(ctx, game))

		// Then: the stored record reflects the change
		retrieved, err := gameRepo.GetByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, game, retrieved)
	})

	t.Run("Update_UnknownIsIgnored", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		// When: Update is called for a game that was never created
		err := gameRepo.Update(ctx, entity.NewGame("ghost", "p1", ""))

		// Then: nothing is stored and no error is returned
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, "ghost")
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Count", func(t *testing.T) {
		ctx, gameRepo := newRepo(t)

		for _, id := range []string{"g1", "g2", "g3"} {
			_, err := gameRepo.Create(ctx, id, "p-"+id, "")
			require.NoError(t, err)
		}

		count, err := gameRepo.Count(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

func testPlayerRepository(t *testing.T, newRepo playerRepoFactory) {
	t.Run("Create_GetByID", func(t *testing.T) {
		ctx, playerRepo := newRepo(t)

		// Given: a player created for a connection
		created, err := playerRepo.Create(ctx, "conn-1", "Alice", "g1", entity.PlayerX)
		require.NoError(t, err)

		// When: GetByID is called with the connection id
		retrieved, err := playerRepo.GetByID(ctx, "conn-1")

		// Then: the stored player is returned
		require.NoError(t, err)
		assert.Equal(t, &entity.Player{ID: "conn-1", Name: "Alice", GameID: "g1", Symbol: entity.PlayerX}, retrieved)
		assert.Equal(t, created, retrieved)
	})

	t.Run("Create_Overwrites", func(t *testing.T) {
		ctx, playerRepo := newRepo(t)

		_, err := playerRepo.Create(ctx, "conn-1", "Alice", "g1", entity.PlayerX)
		require.NoError(t, err)

		// When: the same connection creates another player
		_, err = playerRepo.Create(ctx, "conn-1", "Alice", "g2", entity.PlayerO)
		require.NoError(t, err)

		// Then: only the latest player is kept
		retrieved, err := playerRepo.GetByID(ctx, "conn-1")
		require.NoError(t, err)
		assert.Equal(t, "g2", retrieved.GameID)
		assert.Equal(t, entity.PlayerO, retrieved.Symbol)

		count, err := playerRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, playerRepo := newRepo(t)

		retrieved, err := playerRepo.GetByID(ctx, "9999999")

		require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
		assert.Nil(t, retrieved)
	})

	t.Run("Remove", func(t *testing.T) {
		ctx, playerRepo := newRepo(t)

		_, err := playerRepo.Create(ctx, "conn-1", "Alice", "g1", entity.PlayerX)
		require.NoError(t, err)
		_, err = playerRepo.Create(ctx, "conn-2", "Bob", "g1", entity.PlayerO)
		require.NoError(t, err)

		// When: one connection's player is removed
		require.NoError(t, playerRepo.Remove(ctx, "conn-1"))

		// Then: only that player is gone
		_, err = playerRepo.GetByID(ctx, "conn-1")
		require.ErrorIs(t, err, apperror.ErrPlayerNotFound)

		_, err = playerRepo.GetByID(ctx, "conn-2")
		require.NoError(t, err)
	})

	t.Run("Remove_UnknownIsNoop", func(t *testing.T) {
		ctx, playerRepo := newRepo(t)

		assert.NoError(t, playerRepo.Remove(ctx, "nobody"))
	})
}
