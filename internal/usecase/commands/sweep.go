package commands

import (
	"context"
	"log/slog"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/notification"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type SweepCommands interface {
	// Sweep deletes every hold that lapsed at or before the start of the pass.
	// Per-record failures are logged and skipped; only listing errors abort.
	Sweep(ctx context.Context) (shared.SweepResult, error)
}

type sweepCommandsImpl struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	batchSize int32
	logger    *slog.Logger
}

func NewSweepCommands(uow shared.UnitOfWork, clk clock.Clock, batchSize int32, logger *slog.Logger) SweepCommands {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &sweepCommandsImpl{
		uow:       uow,
		clock:     clk,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (s *sweepCommandsImpl) Sweep(ctx context.Context) (shared.SweepResult, error) {
	var result shared.SweepResult
	now := s.clock.Now()
	attempted := make(map[uuid.UUID]struct{})
	failed := 0

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		// Failed ids stay lapsed and keep their place at the head of the
		// listing, so the page grows by that many to still reach fresh ones.
		limit := s.batchSize + int32(failed)
		ids, err := s.uow.CommandReads().LapsedSessionIDs(ctx, now, limit)
		if err != nil {
			return result, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		fresh := 0
		for _, id := range ids {
			if _, seen := attempted[id]; seen {
				continue
			}
			attempted[id] = struct{}{}
			fresh++

			deleted, err := s.reclaim(ctx, id, now)
			if err != nil {
				failed++
				s.logger.WarnContext(ctx, "failed to reclaim lapsed reservation",
					"reservation_id", id, "error", err)
				continue
			}
			if deleted {
				result.DeletedCount++
			}
		}

		if len(ids) < int(limit) || fresh == 0 {
			break
		}
	}

	if result.DeletedCount > 0 {
		s.logger.InfoContext(ctx, "swept lapsed reservations", "deleted", result.DeletedCount)
	}
	return result, nil
}

// reclaim deletes one hold in its own transaction. A hold confirmed or
// already deleted since it was listed is skipped without error.
func (s *sweepCommandsImpl) reclaim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	deleted := false
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Sessions().DeleteLapsed(ctx, tx.DB(), id, now)
		if err != nil {
			return err
		}
		if snap == nil {
			return nil
		}
		deleted = true
		return enqueueEvent(ctx, tx, notification.JobReservationExpired, eventFromSnapshot(*snap, booking.ViewExpired, now))
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
