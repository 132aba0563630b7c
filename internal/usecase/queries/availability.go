package queries

import (
	"context"
	"log/slog"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type AvailabilityQueries interface {
	IsAvailable(ctx context.Context, mentorID uuid.UUID, date, startTime, endTime string) (bool, error)
}

// ExpiredHoldSweeper reclaims lapsed holds before a read.
type ExpiredHoldSweeper interface {
	Sweep(ctx context.Context) (shared.SweepResult, error)
}

type AvailabilityConfig struct {
	Location    *time.Location
	SweepOnRead bool
}

type availabilityQueriesImpl struct {
	store   ReservationReadStore
	sweeper ExpiredHoldSweeper
	clock   clock.Clock
	cfg     AvailabilityConfig
	logger  *slog.Logger
}

func NewAvailabilityQueries(
	store ReservationReadStore,
	sweeper ExpiredHoldSweeper,
	clk clock.Clock,
	cfg AvailabilityConfig,
	logger *slog.Logger,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		store:   store,
		sweeper: sweeper,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
	}
}

// IsAvailable is advisory: Reserve re-checks atomically at write time.
func (q *availabilityQueriesImpl) IsAvailable(ctx context.Context, mentorID uuid.UUID, date, startTime, endTime string) (bool, error) {
	window, err := booking.NewTimeWindow(date, startTime, endTime, q.cfg.Location)
	if err != nil {
		return false, errs.Mark(err, errs.ErrValidation)
	}
	now := q.clock.Now()
	if err := window.ValidateDateNotPast(now); err != nil {
		return false, errs.Mark(err, errs.ErrValidation)
	}

	if q.cfg.SweepOnRead && q.sweeper != nil {
		if _, err := q.sweeper.Sweep(ctx); err != nil {
			q.logger.WarnContext(ctx, "opportunistic sweep failed", "error", err)
		}
	}

	busy, err := q.store.HasActiveOverlap(ctx, mentorID, window.Start(), window.End(), now)
	if err != nil {
		return false, err
	}
	return !busy, nil
}
