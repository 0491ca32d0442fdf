package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	t.Run("Game without second player is waiting", func(t *testing.T) {
		// When: a game is created with only the first player
		game := NewGame("abc123", "p1", "")

		// Then: it should wait for an opponent with p1 holding the turn
		expected := &Game{
			ID:         "abc123",
			Player1:    "p1",
			PlayerTurn: "p1",
			Board:      Board{},
			Status:     StatusWaiting,
		}

		require.Equal(t, expected, game)
	})

	t.Run("Game with both players is playing", func(t *testing.T) {
		// When: a game is created with both slots filled
		game := NewGame("abc123", "p1", "p2")

		// Then: it should be playing
		assert.Equal(t, StatusPlaying, game.Status)
		assert.Equal(t, "p1", game.PlayerTurn)
	})
}

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsWaiting returns true when game status is waiting", func(t *testing.T) {
		game := &Game{Status: StatusWaiting}

		assert.True(t, game.IsWaiting())
		assert.False(t, game.IsPlaying())
		assert.False(t, game.IsOver())
	})

	t.Run("IsPlaying returns true when game status is playing", func(t *testing.T) {
		game := &Game{Status: StatusPlaying}

		assert.True(t, game.IsPlaying())
	})

	t.Run("IsOver returns true when game status is over", func(t *testing.T) {
		game := &Game{Status: StatusOver}

		assert.True(t, game.IsOver())
	})
}

func TestGame_ConfirmPlayingState(t *testing.T) {
	t.Run("Returns nil when game is playing", func(t *testing.T) {
		game := &Game{Status: StatusPlaying}

		assert.NoError(t, game.ConfirmPlayingState())
	})

	t.Run("Returns ErrGameIsNotStarted when game is waiting", func(t *testing.T) {
		game := &Game{Status: StatusWaiting}

		assert.ErrorIs(t, game.ConfirmPlayingState(), apperror.ErrGameIsNotStarted)
	})

	t.Run("Returns ErrGameFinished when game is over", func(t *testing.T) {
		game := &Game{Status: StatusOver}

		assert.ErrorIs(t, game.ConfirmPlayingState(), apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		game := &Game{Status: "unknown"}

		err := game.ConfirmPlayingState()

		require.ErrorIs(t, err, ErrUnknownGameStatus)
		assert.Contains(t, err.Error(), "unknown")
	})
}

func TestGame_Players(t *testing.T) {
	game := NewGame("g1", "p1", "p2")

	assert.True(t, game.HasPlayer("p1"))
	assert.True(t, game.HasPlayer("p2"))
	assert.False(t, game.HasPlayer("p3"))
	assert.False(t, game.HasPlayer(""))

	assert.Equal(t, "p2", game.Opponent("p1"))
	assert.Equal(t, "p1", game.Opponent("p2"))
}

func TestGame_Reset(t *testing.T) {
	// Given: a finished game with a winner
	game := NewGame("g1", "p1", "p2")
	game.Board = Board{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO, EmptyCell, EmptyCell, EmptyCell, EmptyCell}
	game.Status = StatusOver
	game.Winner = &Winner{Line: []int{0, 1, 2}, Symbol: PlayerX}

	// When: p2 resets it
	game.Reset("p2")

	// Then: the board is empty, the game is playing again and p2 moves first
	assert.Equal(t, Board{}, game.Board)
	assert.Equal(t, StatusPlaying, game.Status)
	assert.Nil(t, game.Winner)
	assert.Equal(t, "p2", game.PlayerTurn)
}

func TestGame_Clone(t *testing.T) {
	// Given: a game with a winner
	game := NewGame("g1", "p1", "p2")
	game.Winner = &Winner{Line: []int{0, 4, 8}, Symbol: PlayerX, Player: &Player{ID: "p1"}}

	// When: the clone is taken and the original is changed afterwards
	clone := game.Clone()
	game.Board[4] = PlayerO
	game.Winner.Line[0] = 2
	game.Winner.Player.ID = "changed"

	// Then: the clone keeps the old values
	assert.Equal(t, EmptyCell, clone.Board[4])
	assert.Equal(t, []int{0, 4, 8}, clone.Winner.Line)
	assert.Equal(t, "p1", clone.Winner.Player.ID)
}

func TestGameEnd(t *testing.T) {
	t.Run("Draw goes out as null winner", func(t *testing.T) {
		event := GameEnd("g1", &Winner{Draw: true})

		payload, ok := event.Payload.(GameEndPayload)
		require.True(t, ok)
		assert.Nil(t, payload.Winner)
		assert.Equal(t, AudienceSession, event.Audience)
	})

	t.Run("Win carries line and symbol", func(t *testing.T) {
		event := GameEnd("g1", &Winner{Line: []int{0, 1, 2}, Symbol: PlayerX})

		payload, ok := event.Payload.(GameEndPayload)
		require.True(t, ok)
		require.NotNil(t, payload.Winner)
		assert.Equal(t, PlayerX, payload.Winner.Symbol)
	})
}
