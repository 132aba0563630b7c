package bootstrap

import (
	"fmt"

	"mentor-booking/internal/pkg/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(ValidateConfig),
)

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateConfig rejects settings envconfig cannot check on its own,
// so a bad deploy fails at startup rather than at the first tick.
func ValidateConfig(cfg config.Config) error {
	if _, err := cfg.Booking.Location(); err != nil {
		return err
	}
	if cfg.Booking.ReservationTTL <= 0 || cfg.Booking.ReservationTTL > cfg.Booking.MaxReservationTTL {
		return fmt.Errorf("BOOKING_RESERVATION_TTL %s must be positive and at most BOOKING_MAX_RESERVATION_TTL %s",
			cfg.Booking.ReservationTTL, cfg.Booking.MaxReservationTTL)
	}
	if cfg.JWT.AccessTokenDuration <= 0 || cfg.JWT.RefreshTokenDuration <= cfg.JWT.AccessTokenDuration {
		return fmt.Errorf("JWT durations must satisfy 0 < access (%s) < refresh (%s)",
			cfg.JWT.AccessTokenDuration, cfg.JWT.RefreshTokenDuration)
	}
	for name, spec := range map[string]string{
		"SWEEPER_SCHEDULE": cfg.Sweeper.Schedule,
		"OUTBOX_SCHEDULE":  cfg.Outbox.Schedule,
	} {
		if _, err := scheduleParser.Parse(spec); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, spec, err)
		}
	}
	if cfg.Sweeper.BatchSize <= 0 || cfg.Outbox.BatchSize <= 0 || cfg.Outbox.MaxAttempts <= 0 {
		return fmt.Errorf("sweeper and outbox batch sizes and OUTBOX_MAX_ATTEMPTS must be positive")
	}
	return nil
}
