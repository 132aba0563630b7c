package commands

import (
	"context"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/notification"
	"mentor-booking/internal/domain/user"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/pkg/metrics"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrMentorNotFound  = errs.New("mentor not found")
	ErrSessionNotFound = errs.New("no reservation to confirm")
	ErrNotSessionOwner = errs.New("only the booking mentee may confirm")
	ErrTTLTooLong      = errs.New("reservation ttl exceeds the allowed maximum")
)

type ReserveParams struct {
	MentorID    uuid.UUID
	MenteeID    uuid.UUID
	Date        string
	StartTime   string
	EndTime     string
	MeetingType string
	// PriceCents nil means the hourly rate for the meeting type applies.
	PriceCents *int64
	// TTL zero means the configured default hold.
	TTL time.Duration
}

type ConfirmParams struct {
	ReservationID uuid.UUID
	RequesterID   uuid.UUID
	OrderID       string
	PaymentID     string
	Signature     string
}

type ReservationConfig struct {
	Location   *time.Location
	DefaultTTL time.Duration
	MaxTTL     time.Duration
}

type ReservationCommands interface {
	Reserve(ctx context.Context, p ReserveParams) (*queries.ReservationView, error)
	Confirm(ctx context.Context, p ConfirmParams) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	queries  queries.ReservationQueries
	payments shared.PaymentVerifier
	services *booking.Services
	cfg      ReservationConfig
	metrics  *metrics.Metrics
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	reservationQueries queries.ReservationQueries,
	payments shared.PaymentVerifier,
	clk clock.Clock,
	priceCalculator booking.PriceCalculator,
	cfg ReservationConfig,
	m *metrics.Metrics,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:      uow,
		queries:  reservationQueries,
		payments: payments,
		services: &booking.Services{Clock: clk, PriceCalculator: priceCalculator},
		cfg:      cfg,
		metrics:  m,
	}
}

func (r *reservationCommandsImpl) Reserve(ctx context.Context, p ReserveParams) (*queries.ReservationView, error) {
	session, err := r.buildSession(ctx, p)
	if err != nil {
		r.metrics.ReservationOutcome("rejected")
		return nil, err
	}

	w := session.Window()
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := session.CreatedAt()

		// Lapsed holds still satisfy the exclusion constraint until deleted.
		purged, err := tx.Sessions().PurgeLapsedOverlapping(ctx, tx.DB(), session.MentorID(), w.Start(), w.End(), now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, snap := range purged {
			if err := enqueueEvent(ctx, tx, notification.JobReservationExpired, eventFromSnapshot(snap, booking.ViewExpired, now)); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		if err := tx.Sessions().Create(ctx, tx.DB(), session); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(err, errs.ErrSlotConflict)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := enqueueEvent(ctx, tx, notification.JobReservationReserved, eventFromSession(session, now)); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		if errs.Is(err, errs.ErrSlotConflict) {
			r.metrics.ReservationOutcome("conflict")
		} else {
			r.metrics.ReservationOutcome("error")
		}
		return nil, err
	}
	r.metrics.ReservationOutcome("reserved")

	// Read-after-write: Get the complete reservation view from read store
	view, err := r.queries.GetByID(ctx, session.ID(), session.MenteeID())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (r *reservationCommandsImpl) buildSession(ctx context.Context, p ReserveParams) (*booking.Session, error) {
	window, err := booking.NewTimeWindow(p.Date, p.StartTime, p.EndTime, r.cfg.Location)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	meetingType, err := booking.NewMeetingType(p.MeetingType)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	ttl, err := r.resolveTTL(p.TTL)
	if err != nil {
		return nil, err
	}
	var price *booking.Money
	if p.PriceCents != nil {
		m, err := booking.NewMoney(*p.PriceCents)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrValidation)
		}
		price = &m
	}

	if err := r.ensureMentor(ctx, p.MentorID); err != nil {
		return nil, err
	}

	session, err := booking.NewReservation(r.services, p.MentorID, p.MenteeID, window, meetingType, price, ttl)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	return session, nil
}

func (r *reservationCommandsImpl) resolveTTL(ttl time.Duration) (time.Duration, error) {
	switch {
	case ttl == 0:
		return r.cfg.DefaultTTL, nil
	case ttl < 0:
		return 0, errs.Mark(booking.ErrInvalidTTL, errs.ErrValidation)
	case r.cfg.MaxTTL > 0 && ttl > r.cfg.MaxTTL:
		return 0, errs.Mark(ErrTTLTooLong, errs.ErrValidation)
	default:
		return ttl, nil
	}
}

func (r *reservationCommandsImpl) ensureMentor(ctx context.Context, mentorID uuid.UUID) error {
	mentor, err := r.uow.CommandReads().UserByID(ctx, mentorID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(ErrMentorNotFound, errs.ErrNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if mentor.Role != user.RoleMentor.String() || !mentor.IsActive {
		return errs.Mark(ErrMentorNotFound, errs.ErrNotFound)
	}
	return nil
}

func (r *reservationCommandsImpl) Confirm(ctx context.Context, p ConfirmParams) (*queries.ReservationView, error) {
	if p.PaymentID == "" {
		r.metrics.ConfirmationOutcome("rejected")
		return nil, errs.Mark(booking.ErrPaymentIDRequired, errs.ErrValidation)
	}
	if err := r.payments.Verify(p.OrderID, p.PaymentID, p.Signature); err != nil {
		r.metrics.ConfirmationOutcome("payment_unverified")
		return nil, errs.Mark(err, errs.ErrPaymentNotVerified)
	}

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().SessionByID(ctx, p.ReservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return r.classifyMissing(ctx, tx, p)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if snap.MenteeID != p.RequesterID {
			return errs.Mark(ErrNotSessionOwner, errs.ErrUnauthorized)
		}

		now := r.services.Clock.Now()
		// The expiry is re-checked by the UPDATE itself so a concurrent sweep
		// cannot delete a hold we are confirming.
		ok, err := tx.Sessions().ConfirmReserved(ctx, tx.DB(), p.ReservationID, p.PaymentID, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return r.classifyConfirmFailure(ctx, tx, p.ReservationID, now)
		}

		snap.Status = booking.StatusConfirmed.String()
		snap.ReservationExpires = nil
		if err := enqueueEvent(ctx, tx, notification.JobReservationConfirmed, eventFromSnapshot(*snap, booking.ViewConfirmed, now)); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		r.metrics.ConfirmationOutcome(confirmOutcome(err))
		return nil, err
	}
	r.metrics.ConfirmationOutcome("confirmed")

	view, err := r.queries.GetByID(ctx, p.ReservationID, p.RequesterID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

// classifyMissing tells a hold the sweeper already reclaimed apart from an id
// that never existed. Only the mentee learns that their hold lapsed.
func (r *reservationCommandsImpl) classifyMissing(ctx context.Context, tx shared.Tx, p ConfirmParams) error {
	hold, err := tx.Reads().ReclaimedHold(ctx, p.ReservationID)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if hold == nil || hold.MenteeID != p.RequesterID {
		return errs.Mark(ErrSessionNotFound, errs.ErrNotFound)
	}
	return errs.ErrExpired
}

// classifyConfirmFailure explains why the conditional update matched nothing.
// The row existed moments ago, so if it is gone now the sweeper took it.
func (r *reservationCommandsImpl) classifyConfirmFailure(ctx context.Context, tx shared.Tx, id uuid.UUID, now time.Time) error {
	current, err := tx.Reads().SessionByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrExpired
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	switch booking.LazyStatus(booking.Status(current.Status), current.ReservationExpires, now) {
	case booking.ViewConfirmed:
		return errs.ErrAlreadyConfirmed
	case booking.ViewExpired:
		return errs.ErrExpired
	case booking.ViewCancelled, booking.ViewCompleted:
		return errs.ErrInvalidTransition
	default:
		return errs.Mark(errs.Newf("confirm of %s matched no row", id), errs.ErrDatabaseOperationFailed)
	}
}

func confirmOutcome(err error) string {
	switch {
	case errs.Is(err, errs.ErrExpired):
		return "expired"
	case errs.Is(err, errs.ErrAlreadyConfirmed):
		return "already_confirmed"
	case errs.Is(err, errs.ErrNotFound):
		return "not_found"
	case errs.Is(err, errs.ErrUnauthorized):
		return "unauthorized"
	case errs.Is(err, errs.ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "error"
	}
}
