package readstore

import (
	"context"
	"time"

	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationViewColumns = `s.id, s.mentor_id, mentor.email, s.mentee_id, mentee.email,
	to_char(s.session_date, 'YYYY-MM-DD'),
	left(s.start_time::text, 5),
	left(s.end_time::text, 5),
	s.meeting_type, s.status, s.price_cents,
	s.reservation_expires, s.payment_id, s.created_at, s.updated_at`

const reservationViewFrom = `
FROM mentoring_sessions s
JOIN users mentor ON mentor.id = s.mentor_id
JOIN users mentee ON mentee.id = s.mentee_id`

const findReservationByID = `SELECT ` + reservationViewColumns + reservationViewFrom + `
WHERE s.id = $1`

const findReservationsForUserFirstPage = `SELECT ` + reservationViewColumns + reservationViewFrom + `
WHERE (s.mentee_id = $1 OR s.mentor_id = $1)
ORDER BY s.created_at DESC, s.id DESC
LIMIT $2`

const findReservationsForUserKeyset = `SELECT ` + reservationViewColumns + reservationViewFrom + `
WHERE (s.mentee_id = $1 OR s.mentor_id = $1)
  AND (s.created_at, s.id) < ($2::timestamptz, $3::uuid)
ORDER BY s.created_at DESC, s.id DESC
LIMIT $4`

// A reserved row only blocks while its hold is live; lapsed holds are free
// even before the sweeper deletes them.
const hasActiveOverlap = `
SELECT EXISTS (
	SELECT 1 FROM mentoring_sessions
	WHERE mentor_id = $1
	  AND slot && tstzrange($2, $3, '[)')
	  AND (status = 'confirmed' OR (status = 'reserved' AND reservation_expires > $4))
)`

const findLapsedSessionIDs = `
SELECT id FROM mentoring_sessions
WHERE status = 'reserved' AND reservation_expires <= $1
ORDER BY reservation_expires
LIMIT $2`

// Deleting a lapsed hold always enqueues a reservation_expired job keyed by
// the reservation id, so the outbox doubles as its tombstone.
const findReclaimedHold = `
SELECT (payload->>'mentorId')::uuid, (payload->>'menteeId')::uuid, created_at
FROM notification_jobs
WHERE topic = $1 AND kind = 'reservation_expired'
ORDER BY created_at DESC
LIMIT 1`

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	rv, err := scanReservationView(r.db.QueryRow(ctx, findReservationByID, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return rv, nil
}

func (r *ReservationReadStore) FindForUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	rows, err := r.db.Query(ctx, findReservationsForUserFirstPage, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	return collectReservationViews(rows)
}

func (r *ReservationReadStore) FindForUserKeyset(
	ctx context.Context,
	userID uuid.UUID,
	lastCreatedAt time.Time,
	lastID uuid.UUID,
	limit int32,
) ([]*queries.ReservationView, error) {
	rows, err := r.db.Query(ctx, findReservationsForUserKeyset, userID, lastCreatedAt, lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	return collectReservationViews(rows)
}

func (r *ReservationReadStore) HasActiveOverlap(ctx context.Context, mentorID uuid.UUID, start, end, now time.Time) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, hasActiveOverlap, mentorID, start, end, now).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check slot availability", err)
	}
	return exists, nil
}

func (r *ReservationReadStore) FindLapsedIDs(ctx context.Context, now time.Time, limit int32) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, findLapsedSessionIDs, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find lapsed reservations", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find lapsed reservations", err)
	}
	return ids, nil
}

func (r *ReservationReadStore) FindReclaimedHold(ctx context.Context, id uuid.UUID) (*shared.ReclaimedHold, error) {
	hold := shared.ReclaimedHold{ID: id}
	err := r.db.QueryRow(ctx, findReclaimedHold, id.String()).Scan(&hold.MentorID, &hold.MenteeID, &hold.ReclaimedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find reclaimed hold", err)
	}
	return &hold, nil
}

func collectReservationViews(rows pgx.Rows) ([]*queries.ReservationView, error) {
	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.ReservationView, error) {
		return scanReservationView(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read reservations", err)
	}
	return views, nil
}

func scanReservationView(row pgx.Row) (*queries.ReservationView, error) {
	var (
		rv        queries.ReservationView
		expires   pgtype.Timestamptz
		paymentID pgtype.Text
	)
	if err := row.Scan(
		&rv.ID,
		&rv.MentorID,
		&rv.MentorEmail,
		&rv.MenteeID,
		&rv.MenteeEmail,
		&rv.Date,
		&rv.StartTime,
		&rv.EndTime,
		&rv.MeetingType,
		&rv.Status,
		&rv.PriceCents,
		&expires,
		&paymentID,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rv.ReservationExpires = pgconv.TimePtrFromPgtype(expires)
	rv.PaymentID = pgconv.StringPtrFromPgtype(paymentID)
	return &rv, nil
}
