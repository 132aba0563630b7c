package bootstrap

import (
	"context"
	"log/slog"

	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/pkg/metrics"
	"mentor-booking/internal/usecase/commands"
	"mentor-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewScheduler,
	),
	fx.Invoke(RegisterJobs),
)

func NewScheduler(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *worker.Scheduler {
	s := worker.NewScheduler(logger, cfg.Sweeper.LockTTL)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
	return s
}

func RegisterJobs(
	s *worker.Scheduler,
	cfg config.Config,
	sweeper commands.SweepCommands,
	outbox commands.OutboxCommands,
	locker worker.Locker,
	m *metrics.Metrics,
	logger *slog.Logger,
) error {
	if cfg.Sweeper.Enabled {
		job := worker.NewSweeperJob(sweeper, locker, cfg.Sweeper.LockTTL, m, logger)
		if err := s.Register(cfg.Sweeper.Schedule, job); err != nil {
			return err
		}
	}
	if cfg.Kafka.Enabled() {
		if err := s.Register(cfg.Outbox.Schedule, worker.NewOutboxJob(outbox, logger)); err != nil {
			return err
		}
	}
	return nil
}
