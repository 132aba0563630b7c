package bootstrap

import (
	"context"
	"log/slog"

	"mentor-booking/internal/infra/lock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/worker"

	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewLocker,
	),
)

// NewLocker falls back to an in-process lock when REDIS_ADDR is unset.
func NewLocker(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) worker.Locker {
	if cfg.Redis.Addr == "" {
		logger.Info("redis not configured, sweeper uses a local lock")
		return lock.NewLocalLocker()
	}

	client := lock.NewRedisClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				// the sweep is idempotent, so a flaky lock only costs duplicate work
				logger.Warn("redis ping failed", "addr", cfg.Redis.Addr, "error", err)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return lock.NewRedisLocker(client)
}
