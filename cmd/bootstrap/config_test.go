//go:build unit

package bootstrap_test

import (
	"testing"
	"time"

	"mentor-booking/cmd/bootstrap"
	"mentor-booking/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "test config is valid", mutate: func(*config.Config) {}},
		{name: "cron spec", mutate: func(c *config.Config) { c.Sweeper.Schedule = "*/5 * * * *" }},
		{
			name:    "unknown timezone",
			mutate:  func(c *config.Config) { c.Booking.TimeZone = "Mars/Olympus" },
			wantErr: "BOOKING_TIMEZONE",
		},
		{
			name:    "ttl above max",
			mutate:  func(c *config.Config) { c.Booking.ReservationTTL = 3 * time.Hour },
			wantErr: "BOOKING_RESERVATION_TTL",
		},
		{
			name:    "refresh not longer than access",
			mutate:  func(c *config.Config) { c.JWT.RefreshTokenDuration = c.JWT.AccessTokenDuration },
			wantErr: "JWT durations",
		},
		{
			name:    "malformed sweeper schedule",
			mutate:  func(c *config.Config) { c.Sweeper.Schedule = "every five minutes" },
			wantErr: "SWEEPER_SCHEDULE",
		},
		{
			name:    "malformed outbox schedule",
			mutate:  func(c *config.Config) { c.Outbox.Schedule = "@sometimes" },
			wantErr: "OUTBOX_SCHEDULE",
		},
		{
			name:    "zero outbox attempts",
			mutate:  func(c *config.Config) { c.Outbox.MaxAttempts = 0 },
			wantErr: "OUTBOX_MAX_ATTEMPTS",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			tc.mutate(&cfg)

			err := bootstrap.ValidateConfig(cfg)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
