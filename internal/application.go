package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-session/internal/config"
	"github.com/rocketscienceinc/tictactoe-session/internal/repository"
	"github.com/rocketscienceinc/tictactoe-session/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-session/internal/router"
	"github.com/rocketscienceinc/tictactoe-session/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-session/transport/rest"
	"github.com/rocketscienceinc/tictactoe-session/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type repositories struct {
	players repository.PlayerRepository
	games   repository.GameRepository
	close   func() error
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	repos, err := newRepositories(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = repos.close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	gameManager := usecase.NewGameManager(logger, repos.players, repos.games)
	hub := websocket.NewHub(logger, conf.SendBuffer)
	eventRouter := router.New(logger, gameManager, hub)

	routerErrCh := make(chan error, 1)
	go func() {
		routerErrCh <- eventRouter.Run(ctx)
	}()

	reporter := NewStatsReporter(logger, hub, repos.games, repos.players)
	scheduler, err := reporter.Start(conf.StatsInterval)
	if err != nil {
		return fmt.Errorf("could not start stats reporter: %w", err)
	}

	defer func() {
		if err = reporter.Stop(scheduler); err != nil {
			log.Error("could not stop stats reporter", "error", err)
		}
	}()

	wsServer := websocket.New(logger, hub, eventRouter)
	handler := rest.NewRouter(rest.NewHandlers(logger, repos.games), wsServer.Handler(ctx))

	log.Info("Starting HTTP server", "port", conf.Port, "storage", conf.Storage)
	if err = rest.Start(ctx, conf.Port, handler); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	if err = <-routerErrCh; err != nil {
		return fmt.Errorf("router error: %w", err)
	}

	log.Info("Application context canceled, shut down")

	return nil
}

func newRepositories(ctx context.Context, conf *config.Config) (*repositories, error) {
	if conf.Storage != config.StorageRedis {
		return &repositories{
			players: repository.NewMemoryPlayerRepository(),
			games:   repository.NewMemoryGameRepository(),
			close:   func() error { return nil },
		}, nil
	}

	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return &repositories{
		players: repository.NewPlayerRepository(redisStorage),
		games:   repository.NewGameRepository(redisStorage),
		close:   redisStorage.Close,
	}, nil
}
