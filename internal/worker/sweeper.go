package worker

import (
	"context"
	"log/slog"
	"time"

	"mentor-booking/internal/pkg/metrics"
	"mentor-booking/internal/usecase/commands"
)

const sweeperLockKey = "reservation-sweeper"

// Locker grants cluster-wide exclusivity for a key until ttl elapses or release is called.
type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

type SweeperJob struct {
	sweeper commands.SweepCommands
	locker  Locker
	lockTTL time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewSweeperJob(sweeper commands.SweepCommands, locker Locker, lockTTL time.Duration, m *metrics.Metrics, logger *slog.Logger) *SweeperJob {
	return &SweeperJob{
		sweeper: sweeper,
		locker:  locker,
		lockTTL: lockTTL,
		metrics: m,
		logger:  logger,
	}
}

func (j *SweeperJob) Name() string { return "reservation-sweeper" }

// Run sweeps once if this instance wins the leader lock; losing it is not an error.
func (j *SweeperJob) Run(ctx context.Context) error {
	release, ok, err := j.locker.TryAcquire(ctx, sweeperLockKey, j.lockTTL)
	if err != nil {
		j.logger.WarnContext(ctx, "sweeper lock unavailable", "error", err)
		return nil
	}
	if !ok {
		j.logger.DebugContext(ctx, "sweeper lock held elsewhere, skipping tick")
		return nil
	}
	defer func() {
		// ctx may already be cancelled at shutdown; the TTL reclaims the lock then
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			j.logger.WarnContext(ctx, "failed to release sweeper lock", "error", rerr)
		}
	}()

	result, err := j.sweeper.Sweep(ctx)
	j.metrics.SweepCompleted("cron", result.DeletedCount, err)
	return err
}
