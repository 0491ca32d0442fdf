package entity

// Player is bound to a single connection; its ID is the connection ID.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	GameID string `json:"gameId"`
	Symbol string `json:"symbol"`
}

func NewPlayer(connectionID, name, gameID, symbol string) *Player {
	return &Player{
		ID:     connectionID,
		Name:   name,
		GameID: gameID,
		Symbol: symbol,
	}
}

func (that *Player) Clone() *Player {
	if that == nil {
		return nil
	}

	clone := *that
	return &clone
}
