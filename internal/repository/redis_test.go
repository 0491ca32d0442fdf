package repository

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/tictactoe-session/testing/suite"
)

func TestGameRepository(t *testing.T) {
	testGameRepository(t, func(t *testing.T) (context.Context, GameRepository) {
		ctx, st := suite.New(t)
		return ctx, NewGameRepository(st.Storage)
	})
}

func TestPlayerRepository(t *testing.T) {
	testPlayerRepository(t, func(t *testing.T) (context.Context, PlayerRepository) {
		ctx, st := suite.New(t)
		return ctx, NewPlayerRepository(st.Storage)
	})
}
