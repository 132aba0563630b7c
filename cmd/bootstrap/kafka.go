package bootstrap

import (
	"context"
	"log/slog"

	"mentor-booking/internal/infra/events"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Provide(
		NewEventPublisher,
	),
)

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.EventPublisher {
	if !cfg.Kafka.Enabled() {
		logger.Info("kafka not configured, notification jobs stay queued")
		return events.DisabledPublisher{}
	}

	publisher := events.NewKafkaPublisher(cfg.Kafka)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher
}
