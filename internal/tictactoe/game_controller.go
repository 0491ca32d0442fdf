package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-session/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-session/internal/entity"
)

// WinCombos - rows, then columns, then diagonals. CheckWinner reports the first match in this order.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Line is a completed winning triple.
type Line struct {
	Cells  [3]int
	Symbol string
}

// MakeTurn - writes the player's symbol and passes the turn to the opponent.
// The game status is left alone; call UpdateGameStatus afterwards.
func MakeTurn(game *entity.Game, player *entity.Player, cell int) error {
	if err := game.ConfirmPlayingState(); err != nil {
		return err
	}

	if err := validateMove(game, player, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	game.Board[cell] = player.Symbol
	game.PlayerTurn = game.Opponent(player.ID)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(game *entity.Game, player *entity.Player, cell int) error {
	if game.PlayerTurn != player.ID {
		return apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(game.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if game.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// UpdateGameStatus - finishes the game on a win or a full board and reports whether it did.
func UpdateGameStatus(game *entity.Game, player *entity.Player) bool {
	if line := CheckWinner(game.Board); line != nil {
		game.Status = entity.StatusOver
		game.Winner = &entity.Winner{
			Line:   line.Cells[:],
			Symbol: line.Symbol,
			Player: player.Clone(),
		}
		return true
	}

	if IsFull(game.Board) {
		game.Status = entity.StatusOver
		game.Winner = &entity.Winner{Draw: true}
		return true
	}

	return false
}

func CheckWinner(board entity.Board) *Line {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return &Line{Cells: combo, Symbol: a}
		}
	}

	return nil
}

func IsFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}
