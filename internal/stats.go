package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const statsTimeout = 5 * time.Second

type counter interface {
	Count(ctx context.Context) (int, error)
}

type connectionCounter interface {
	Count() int
}

// StatsReporter periodically logs how many connections, games and players are live.
type StatsReporter struct {
	logger *slog.Logger

	connections connectionCounter
	games       counter
	players     counter
}

func NewStatsReporter(logger *slog.Logger, connections connectionCounter, games, players counter) *StatsReporter {
	return &StatsReporter{
		logger: logger.With("component", "stats"),

		connections: connections,
		games:       games,
		players:     players,
	}
}

// Start - schedules Report every interval. A zero interval disables reporting and returns a nil scheduler.
func (that *StatsReporter) Start(interval time.Duration) (gocron.Scheduler, error) {
	if interval <= 0 {
		that.logger.Info("stats reporting disabled")
		return nil, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
			defer cancel()

			that.Report(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule stats job: %w", err)
	}

	scheduler.Start()

	return scheduler, nil
}

func (that *StatsReporter) Stop(scheduler gocron.Scheduler) error {
	if scheduler == nil {
		return nil
	}

	if err := scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shut down scheduler: %w", err)
	}

	return nil
}

// Report - logs the current counts once.
func (that *StatsReporter) Report(ctx context.Context) {
	log := that.logger.With("method", "Report")

	games, err := that.games.Count(ctx)
	if err != nil {
		log.Error("failed to count games", "error", err)
		return
	}

	players, err := that.players.Count(ctx)
	if err != nil {
		log.Error("failed to count players", "error", err)
		return
	}

	log.Info("stats", "connections", that.connections.Count(), "games", games, "players", players)
}
