package components

import (
	"log/slog"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/infra/payment"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/usecase"
	"mentor-booking/internal/usecase/commands"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPriceCalculator,
	fx.Annotate(
		NewPaymentVerifier,
		fx.As(new(shared.PaymentVerifier)),
	),
	NewReservationConfig,
	NewAvailabilityConfig,
	NewOutboxConfig,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewReservationCommands,
		NewSweepCommands,
		commands.NewOutboxCommands,
		commands.NewSubscriptionCommands,
		func(s commands.SweepCommands) queries.ExpiredHoldSweeper { return s },
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewReservationQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewPriceCalculator(cfg config.Config) booking.PriceCalculator {
	b := cfg.Booking
	return booking.NewHourlyRateCalculator(b.ChatHourlyRateCents, b.VideoHourlyRateCents, b.CallHourlyRateCents)
}

func NewPaymentVerifier(cfg config.Config) *payment.HMACVerifier {
	return payment.NewHMACVerifier(cfg.Payment.WebhookSecret)
}

func NewReservationConfig(cfg config.Config) (commands.ReservationConfig, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return commands.ReservationConfig{}, err
	}
	return commands.ReservationConfig{
		Location:   loc,
		DefaultTTL: cfg.Booking.ReservationTTL,
		MaxTTL:     cfg.Booking.MaxReservationTTL,
	}, nil
}

func NewAvailabilityConfig(cfg config.Config) (queries.AvailabilityConfig, error) {
	loc, err := cfg.Booking.Location()
	if err != nil {
		return queries.AvailabilityConfig{}, err
	}
	return queries.AvailabilityConfig{
		Location:    loc,
		SweepOnRead: cfg.Booking.SweepOnRead,
	}, nil
}

func NewOutboxConfig(cfg config.Config) commands.OutboxConfig {
	return commands.OutboxConfig{
		Topic:       cfg.Kafka.NotificationsTopic,
		BatchSize:   cfg.Outbox.BatchSize,
		MaxAttempts: cfg.Outbox.MaxAttempts,
	}
}

func NewSweepCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config, logger *slog.Logger) commands.SweepCommands {
	return commands.NewSweepCommands(uow, clk, cfg.Sweeper.BatchSize, logger)
}
