package queries

import (
	"context"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindForUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*ReservationView, error)
	FindForUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*ReservationView, error)
	HasActiveOverlap(ctx context.Context, mentorID uuid.UUID, start, end, now time.Time) (bool, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id, requesterID uuid.UUID) (*ReservationView, error)
	// GetStatus never sweeps: a lapsed hold is reported as expired and left in place.
	GetStatus(ctx context.Context, id, requesterID uuid.UUID) (*ReservationStatusView, error)
	ListForUser(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*ReservationView, *Cursor, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
	clock clock.Clock
}

func NewReservationQueries(store ReservationReadStore, clk clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{store: store, clock: clk}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id, requesterID uuid.UUID) (*ReservationView, error) {
	rv, err := q.findAuthorized(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	applyLazyStatus(rv, q.clock.Now())
	return rv, nil
}

func (q *reservationQueriesImpl) GetStatus(ctx context.Context, id, requesterID uuid.UUID) (*ReservationStatusView, error) {
	rv, err := q.findAuthorized(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	applyLazyStatus(rv, q.clock.Now())
	return &ReservationStatusView{
		Status:    rv.Status,
		ExpiresAt: rv.ReservationExpires,
	}, nil
}

func (q *reservationQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*ReservationView, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*ReservationView
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindForUserFirstPage(ctx, userID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, errs.Mark(ErrInvalidCursor, errs.ErrValidation)
		}
		rows, err = q.store.FindForUserKeyset(ctx, userID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	now := q.clock.Now()
	for _, rv := range rows {
		applyLazyStatus(rv, now)
	}
	return rows, next, nil
}

func (q *reservationQueriesImpl) findAuthorized(ctx context.Context, id, requesterID uuid.UUID) (*ReservationView, error) {
	rv, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(ErrReservationNotFound, errs.ErrNotFound)
		}
		return nil, err
	}
	if requesterID != rv.MenteeID && requesterID != rv.MentorID {
		return nil, errs.Mark(ErrReservationAccess, errs.ErrUnauthorized)
	}
	return rv, nil
}

func applyLazyStatus(rv *ReservationView, now time.Time) {
	rv.Status = booking.LazyStatus(booking.Status(rv.Status), rv.ReservationExpires, now).String()
}
