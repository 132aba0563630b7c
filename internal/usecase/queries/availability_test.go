//go:build unit

package queries_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/internal/usecase/shared"
	"mentor-booking/tests/common/builder"
	"mentor-booking/tests/common/memstore"
	queriesmock "mentor-booking/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIsAvailable(t *testing.T) {
	ctx := context.Background()
	now := builder.FixedNow
	cfg := queries.AvailabilityConfig{Location: builder.BookingLocation, SweepOnRead: true}
	logger := slog.New(slog.DiscardHandler)

	setup := func(t *testing.T) (*memstore.Store, *clock.MockClock, *queriesmock.MockExpiredHoldSweeper, queries.AvailabilityQueries) {
		t.Helper()
		ctrl := gomock.NewController(t)
		store := memstore.New()
		clk := clock.NewMockClock(now)
		sweeper := queriesmock.NewMockExpiredHoldSweeper(ctrl)
		return store, clk, sweeper, queries.NewAvailabilityQueries(store, sweeper, clk, cfg, logger)
	}

	t.Run("overlapping live hold blocks", func(t *testing.T) {
		store, _, sweeper, q := setup(t)
		mentor := store.AddMentor()
		expires := now.Add(10 * time.Minute)
		seedHold(store, mentor, store.AddMentee(), now, &expires)
		sweeper.EXPECT().Sweep(gomock.Any()).Return(shared.SweepResult{}, nil).Times(4)

		tests := []struct {
			start, end string
			want       bool
		}{
			{"14:30", "15:30", false},
			{"13:00", "14:01", false},
			{"13:00", "14:00", true},
			{"15:00", "16:00", true},
		}
		for _, tt := range tests {
			got, err := q.IsAvailable(ctx, mentor, "2024-01-10", tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "%s-%s", tt.start, tt.end)
		}
	})

	t.Run("lapsed hold does not block even before it is swept", func(t *testing.T) {
		store, clk, sweeper, q := setup(t)
		mentor := store.AddMentor()
		expires := now.Add(10 * time.Minute)
		seedHold(store, mentor, store.AddMentee(), now, &expires)
		clk.Advance(10 * time.Minute)
		sweeper.EXPECT().Sweep(gomock.Any()).Return(shared.SweepResult{}, nil)

		got, err := q.IsAvailable(ctx, mentor, "2024-01-10", "14:00", "15:00")

		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("sweep failure does not fail the read", func(t *testing.T) {
		store, _, sweeper, q := setup(t)
		sweeper.EXPECT().Sweep(gomock.Any()).Return(shared.SweepResult{}, errs.New("db down"))

		got, err := q.IsAvailable(ctx, store.AddMentor(), "2024-01-10", "14:00", "15:00")

		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("sweep on read can be disabled", func(t *testing.T) {
		store := memstore.New()
		off := cfg
		off.SweepOnRead = false
		sweeper := queriesmock.NewMockExpiredHoldSweeper(gomock.NewController(t))
		q := queries.NewAvailabilityQueries(store, sweeper, clock.NewMockClock(now), off, logger)

		got, err := q.IsAvailable(ctx, store.AddMentor(), "2024-01-10", "14:00", "15:00")

		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("rejects invalid windows without sweeping", func(t *testing.T) {
		tests := []struct {
			name, date, start, end string
		}{
			{"reversed", "2024-01-10", "15:00", "14:00"},
			{"past date", "2024-01-09", "14:00", "15:00"},
			{"bad clock", "2024-01-10", "25:00", "26:00"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, _, _, q := setup(t)

				_, err := q.IsAvailable(ctx, uuid.New(), tt.date, tt.start, tt.end)

				assert.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)
			})
		}
	})
}
