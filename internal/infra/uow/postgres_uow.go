package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/infra/readstore"
	"mentor-booking/internal/infra/repository"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// Only contention errors are retried. An exclusion violation is a real
// double booking and surfaces immediately.
var retryableCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

type retryPolicy struct {
	attempts int
	base     time.Duration
}

func (p retryPolicy) wait(attempt int) time.Duration {
	d := p.base << attempt
	return d + rand.N(d/5+1)
}

type PostgresUoW struct {
	pool  *pgxpool.Pool
	retry retryPolicy
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool, retry: retryPolicy{attempts: 4, base: 100 * time.Millisecond}}
}

// ReadCommitted is enough: overlapping holds are rejected by the exclusion
// constraint and state changes are conditional single-row statements.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	for attempt := 0; ; attempt++ {
		err := u.runOnce(ctx, opts, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt+1 >= u.retry.attempts {
			slog.ErrorContext(ctx, "transaction failed after max retries", "attempts", attempt+1, "error", err)
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		wait := u.retry.wait(attempt)
		slog.WarnContext(ctx, "retrying contended transaction", "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// WithinReadOnly gives fn a consistent snapshot across several reads.
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return u.runOnce(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(ctx context.Context, tx shared.Tx) error {
		return fn(ctx, tx.DB())
	})
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// runOnce scopes one transaction; the rollback after a commit is a no-op.
func (u *PostgresUoW) runOnce(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) (err error) {
	pgxTx, err := u.pool.BeginTx(ctx, opts)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer func() {
		if rbErr := pgxTx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "rollback failed", "error", rbErr)
		}
	}()

	if err := fn(ctx, &pgTx{dbtx: pgxTx}); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && retryableCodes[pgErr.Code]
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	sessionRepo      shared.SessionRepository
	notificationRepo shared.NotificationRepository
	userRepo         shared.UserRepository
	pushRepo         shared.PushSubscriptionRepository
	commandReads     shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Sessions() shared.SessionRepository {
	if t.sessionRepo == nil {
		t.sessionRepo = repository.NewSessionRepository()
	}
	return t.sessionRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository()
	}
	return t.notificationRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository()
	}
	return t.userRepo
}

func (t *pgTx) PushSubscriptions() shared.PushSubscriptionRepository {
	if t.pushRepo == nil {
		t.pushRepo = repository.NewPushSubscriptionRepository()
	}
	return t.pushRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	reservationStore *readstore.ReservationReadStore
	userStore        *readstore.UserReadStore
}

func (r *commandReads) reservations() *readstore.ReservationReadStore {
	if r.reservationStore == nil {
		r.reservationStore = readstore.NewReservationReadStore(r.dbtx)
	}
	return r.reservationStore
}

func (r *commandReads) SessionByID(ctx context.Context, id uuid.UUID) (*shared.SessionSnapshot, error) {
	rv, err := r.reservations().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &shared.SessionSnapshot{
		ID:                 rv.ID,
		MentorID:           rv.MentorID,
		MenteeID:           rv.MenteeID,
		Date:               rv.Date,
		StartTime:          rv.StartTime,
		EndTime:            rv.EndTime,
		MeetingType:        rv.MeetingType,
		Status:             rv.Status,
		ReservationExpires: rv.ReservationExpires,
	}
	return snapshot, nil
}

func (r *commandReads) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	if r.userStore == nil {
		r.userStore = readstore.NewUserReadStore(r.dbtx)
	}

	u, err := r.userStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &shared.UserSnapshot{
		ID:       u.ID,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
	return snapshot, nil
}

func (r *commandReads) LapsedSessionIDs(ctx context.Context, now time.Time, limit int32) ([]uuid.UUID, error) {
	return r.reservations().FindLapsedIDs(ctx, now, limit)
}

func (r *commandReads) ReclaimedHold(ctx context.Context, id uuid.UUID) (*shared.ReclaimedHold, error) {
	return r.reservations().FindReclaimedHold(ctx, id)
}
