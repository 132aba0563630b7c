package repository

import (
	"context"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const snapshotColumns = `id, mentor_id, mentee_id,
	to_char(session_date, 'YYYY-MM-DD'),
	left(start_time::text, 5),
	left(end_time::text, 5),
	meeting_type, status, reservation_expires`

const insertSession = `
INSERT INTO mentoring_sessions (
	id, mentor_id, mentee_id, session_date, start_time, end_time, slot,
	meeting_type, status, price_cents, reservation_expires, payment_id,
	created_at, updated_at
) VALUES (
	$1, $2, $3, $4::date, $5::time, $6::time, tstzrange($7, $8, '[)'),
	$9, $10, $11, $12, $13, $14, $14
)`

const purgeLapsedOverlapping = `
DELETE FROM mentoring_sessions
WHERE mentor_id = $1
  AND status = 'reserved'
  AND reservation_expires <= $4
  AND slot && tstzrange($2, $3, '[)')
RETURNING ` + snapshotColumns

const confirmReserved = `
UPDATE mentoring_sessions
SET status = 'confirmed',
    reservation_expires = NULL,
    payment_id = $2,
    updated_at = $3
WHERE id = $1
  AND status = 'reserved'
  AND reservation_expires > $3`

const deleteLapsed = `
DELETE FROM mentoring_sessions
WHERE id = $1
  AND status = 'reserved'
  AND reservation_expires <= $2
RETURNING ` + snapshotColumns

// SessionRepository owns writes to mentoring_sessions. The overlap guarantee
// comes from the table's exclusion constraint, not from a prior read.
type SessionRepository struct{}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

func (r *SessionRepository) Create(ctx context.Context, tx db.DBTX, s *booking.Session) error {
	w := s.Window()
	_, err := tx.Exec(ctx, insertSession,
		s.ID(),
		s.MentorID(),
		s.MenteeID(),
		w.DateString(),
		w.StartClock().String(),
		w.EndClock().String(),
		w.Start(),
		w.End(),
		s.MeetingType().String(),
		s.Status().String(),
		s.Price().Cents(),
		pgconv.TimePtrToPgtype(s.ReservationExpires()),
		pgconv.StringPtrToPgtype(s.PaymentID()),
		s.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create session", err)
	}
	return nil
}

func (r *SessionRepository) PurgeLapsedOverlapping(
	ctx context.Context,
	tx db.DBTX,
	mentorID uuid.UUID,
	start, end, now time.Time,
) ([]shared.SessionSnapshot, error) {
	rows, err := tx.Query(ctx, purgeLapsedOverlapping, mentorID, start, end, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to purge lapsed holds", err)
	}
	snaps, err := pgx.CollectRows(rows, scanSnapshotRow)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to purge lapsed holds", err)
	}
	return snaps, nil
}

func (r *SessionRepository) ConfirmReserved(ctx context.Context, tx db.DBTX, id uuid.UUID, paymentID string, now time.Time) (bool, error) {
	tag, err := tx.Exec(ctx, confirmReserved, id, paymentID, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to confirm session", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SessionRepository) DeleteLapsed(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) (*shared.SessionSnapshot, error) {
	snap, err := scanSnapshot(tx.QueryRow(ctx, deleteLapsed, id, now))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to delete lapsed session", err)
	}
	return snap, nil
}

func scanSnapshotRow(row pgx.CollectableRow) (shared.SessionSnapshot, error) {
	snap, err := scanSnapshot(row)
	if err != nil {
		return shared.SessionSnapshot{}, err
	}
	return *snap, nil
}

func scanSnapshot(row pgx.Row) (*shared.SessionSnapshot, error) {
	var (
		s       shared.SessionSnapshot
		expires pgtype.Timestamptz
	)
	if err := row.Scan(
		&s.ID,
		&s.MentorID,
		&s.MenteeID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.MeetingType,
		&s.Status,
		&expires,
	); err != nil {
		return nil, err
	}
	s.ReservationExpires = pgconv.TimePtrFromPgtype(expires)
	return &s, nil
}
