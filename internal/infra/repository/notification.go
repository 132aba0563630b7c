package repository

import (
	"context"
	"time"

	"mentor-booking/internal/domain/notification"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const createNotificationJob = `
INSERT INTO notification_jobs (id, kind, topic, payload, run_at, attempts, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, 0, $6, $5, $5)`

// Rows stay locked until the claiming transaction ends, so concurrent
// dispatchers never publish the same job twice.
const claimDueNotificationJobs = `
SELECT id, kind, topic, payload, attempts
FROM notification_jobs
WHERE status = 'queued' AND run_at <= $1
ORDER BY run_at, created_at
LIMIT $2
FOR UPDATE SKIP LOCKED`

const markNotificationJobSent = `
UPDATE notification_jobs
SET status = 'sent', attempts = attempts + 1, last_error = NULL, updated_at = $2
WHERE id = $1`

const markNotificationJobFailed = `
UPDATE notification_jobs
SET status = $2,
    attempts = attempts + 1,
    last_error = $3,
    run_at = COALESCE($4, run_at),
    updated_at = $5
WHERE id = $1`

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := tx.Exec(ctx, createNotificationJob,
		uuid.New(), kind, topic, payload, runAt, string(notification.JobQueued))
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

func (r *NotificationRepository) ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit int32) ([]shared.NotificationJob, error) {
	rows, err := tx.Query(ctx, claimDueNotificationJobs, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.NotificationJob, error) {
		var j shared.NotificationJob
		err := row.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.Attempts)
		return j, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error {
	if _, err := tx.Exec(ctx, markNotificationJobSent, id, now); err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	return nil
}

// MarkFailed requeues the job at retryAt, or parks it as failed when retryAt is nil.
func (r *NotificationRepository) MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string, retryAt *time.Time, now time.Time) error {
	status := notification.JobFailed
	if retryAt != nil {
		status = notification.JobQueued
	}
	_, err := tx.Exec(ctx, markNotificationJobFailed,
		id, string(status), lastError, pgconv.TimePtrToPgtype(retryAt), now)
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	return nil
}
