package repository

import (
	"context"

	"mentor-booking/internal/domain/notification"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"

	"github.com/google/uuid"
)

// An endpoint belongs to one browser install; re-subscribing from another
// account moves it to that account.
const upsertPushSubscription = `
INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (endpoint) DO UPDATE
SET user_id = EXCLUDED.user_id,
    p256dh = EXCLUDED.p256dh,
    auth = EXCLUDED.auth,
    updated_at = EXCLUDED.updated_at`

const deletePushSubscription = `DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`

type PushSubscriptionRepository struct{}

func NewPushSubscriptionRepository() *PushSubscriptionRepository {
	return &PushSubscriptionRepository{}
}

func (r *PushSubscriptionRepository) Upsert(ctx context.Context, tx db.DBTX, sub *notification.PushSubscription) error {
	_, err := tx.Exec(ctx, upsertPushSubscription,
		sub.ID(), sub.UserID(), sub.Endpoint(), sub.P256dh(), sub.Auth(), sub.CreatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to save push subscription", err)
	}
	return nil
}

func (r *PushSubscriptionRepository) Delete(ctx context.Context, tx db.DBTX, userID uuid.UUID, endpoint string) (bool, error) {
	tag, err := tx.Exec(ctx, deletePushSubscription, userID, endpoint)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete push subscription", err)
	}
	return tag.RowsAffected() > 0, nil
}
