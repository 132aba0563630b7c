package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

const connectTimeout = 15 * time.Second

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB opens the pool shared by repositories, read stores and the sweeper.
// Its stop hook is appended before any consumer's, so fx closes it last.
func NewDB(lc fx.Lifecycle, cfg config.Config, m *metrics.Metrics, logger *slog.Logger) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("booking database %q on %s:%s: %w", cfg.DB.DBName, cfg.DB.Host, cfg.DB.Port, err)
	}

	m.ObservePool(func() metrics.PoolStats {
		s := pool.Stat()
		return metrics.PoolStats{Acquired: s.AcquiredConns(), Idle: s.IdleConns(), Total: s.TotalConns()}
	})
	logger.Info("booking database ready", "db", cfg.DB.DBName, "host", cfg.DB.Host, "max_conns", pool.Config().MaxConns)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if s := pool.Stat(); s.AcquiredConns() > 0 {
				logger.Warn("closing booking database with connections in use", "acquired", s.AcquiredConns())
			}
			cleanup()
			return nil
		},
	})

	return pool, nil
}
