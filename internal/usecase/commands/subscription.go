package commands

import (
	"context"

	"mentor-booking/internal/domain/notification"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrSubscriptionNotFound = errs.New("push subscription not found")

type PushSubscriptionParams struct {
	Endpoint string
	P256dh   string
	Auth     string
}

type SubscriptionCommands interface {
	Subscribe(ctx context.Context, userID uuid.UUID, p PushSubscriptionParams) error
	Unsubscribe(ctx context.Context, userID uuid.UUID, endpoint string) error
}

type subscriptionCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewSubscriptionCommands(uow shared.UnitOfWork, clk clock.Clock) SubscriptionCommands {
	return &subscriptionCommandsImpl{uow: uow, clock: clk}
}

func (s *subscriptionCommandsImpl) Subscribe(ctx context.Context, userID uuid.UUID, p PushSubscriptionParams) error {
	sub, err := notification.NewPushSubscription(userID, p.Endpoint, p.P256dh, p.Auth, s.clock.Now())
	if err != nil {
		return errs.Mark(err, errs.ErrValidation)
	}
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.PushSubscriptions().Upsert(ctx, tx.DB(), sub); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (s *subscriptionCommandsImpl) Unsubscribe(ctx context.Context, userID uuid.UUID, endpoint string) error {
	if err := notification.ValidateEndpoint(endpoint); err != nil {
		return errs.Mark(err, errs.ErrValidation)
	}
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		removed, err := tx.PushSubscriptions().Delete(ctx, tx.DB(), userID, endpoint)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !removed {
			return errs.Mark(ErrSubscriptionNotFound, errs.ErrNotFound)
		}
		return nil
	})
}
