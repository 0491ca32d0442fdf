package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
)

const (
	StatusWaiting = "waiting"
	StatusPlaying = "playing"
	StatusOver    = "over"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Board is the 3x3 grid in row-major order.
type Board [9]string

// Winner describes how a finished game ended. Draw is set when the board filled up with no line.
type Winner struct {
	Line   []int   `json:"line,omitempty"`
	Symbol string  `json:"symbol,omitempty"`
	Player *Player `json:"player,omitempty"`
	Draw   bool    `json:"draw,omitempty"`
}

type Game struct {
	ID         string  `json:"id"`
	Player1    string  `json:"player1"`
	Player2    string  `json:"player2,omitempty"`
	PlayerTurn string  `json:"playerTurn"`
	Board      Board   `json:"board"`
	Status     string  `json:"status"`
	Winner     *Winner `json:"winner"`
}

// NewGame - builds a game; it stays waiting until the second slot is filled.
func NewGame(id, player1, player2 string) *Game {
	status := StatusPlaying
	if player2 == "" {
		status = StatusWaiting
	}

	return &Game{
		ID:         id,
		Player1:    player1,
		Player2:    player2,
		PlayerTurn: player1,
		Status:     status,
	}
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Game) IsOver() bool {
	return that.Status == StatusOver
}

func (that *Game) IsFull() bool {
	return that.Player2 != ""
}

func (that *Game) HasPlayer(playerID string) bool {
	return playerID != "" && (that.Player1 == playerID || that.Player2 == playerID)
}

// Opponent - returns the other slot's player id.
func (that *Game) Opponent(playerID string) string {
	if playerID == that.Player1 {
		return that.Player2
	}
	return that.Player1
}

func (that *Game) ConfirmPlayingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsOver():
		return apperror.ErrGameFinished
	case that.IsPlaying():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// Reset - clears the board and hands the first turn to playerID.
func (that *Game) Reset(playerID string) {
	that.Board = Board{}
	that.PlayerTurn = playerID
	that.Status = StatusPlaying
	that.Winner = nil
}

// Clone - deep copy, safe to hand out while the original keeps changing.
func (that *Game) Clone() *Game {
	if that == nil {
		return nil
	}

	clone := *that
	if that.Winner != nil {
		winner := *that.Winner
		winner.Line = append([]int(nil), that.Winner.Line...)
		winner.Player = that.Winner.Player.Clone()
		clone.Winner = &winner
	}

	return &clone
}
