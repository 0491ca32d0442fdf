package apperror

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrGameFull         = errors.New("game is full")
	ErrNotInGame        = errors.New("player is not in this game")
	ErrAlreadyInGame    = errors.New("player is already in this game")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrCellOccupied     = errors.New("cell is already occupied")
)

var rejections = []error{
	ErrGameNotFound,
	ErrPlayerNotFound,
	ErrGameFull,
	ErrNotInGame,
	ErrAlreadyInGame,
	ErrGameFinished,
	ErrGameIsNotStarted,
	ErrNotYourTurn,
	ErrInvalidCell,
	ErrCellOccupied,
}

// Cause - returns the rule the caller violated, or nil when err is an infrastructure failure.
func Cause(err error) error {
	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			return rejection
		}
	}

	return nil
}

func IsRejection(err error) bool {
	return Cause(err) != nil
}
