//go:build unit

package commands_test

import (
	"context"
	"testing"

	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/commands"
	"mentor-booking/tests/common/builder"
	"mentor-booking/tests/common/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptions(t *testing.T) {
	ctx := context.Background()
	valid := commands.PushSubscriptionParams{
		Endpoint: "https://push.example.com/send/abc",
		P256dh:   "BNcRdreALRFXTkOOUHK1EtK2wtaz5Ry4YfYCA_0QTpQtUbVlUls0VJXg7A8u-Ts1XbjhazAkj7I99e8QcYP7DkM",
		Auth:     "tBHItJI5svbpez7KI4CCXg",
	}

	t.Run("subscribe then unsubscribe", func(t *testing.T) {
		store := memstore.New()
		userID := store.AddMentee()
		cmds := commands.NewSubscriptionCommands(store, clock.NewMockClock(builder.FixedNow))

		require.NoError(t, cmds.Subscribe(ctx, userID, valid))
		subs := store.Subscriptions()
		require.Len(t, subs, 1)
		assert.Equal(t, userID, subs[0].UserID)

		require.NoError(t, cmds.Unsubscribe(ctx, userID, valid.Endpoint))
		assert.Empty(t, store.Subscriptions())
	})

	t.Run("resubscribing the same endpoint replaces it", func(t *testing.T) {
		store := memstore.New()
		userID := store.AddMentee()
		cmds := commands.NewSubscriptionCommands(store, clock.NewMockClock(builder.FixedNow))

		require.NoError(t, cmds.Subscribe(ctx, userID, valid))
		rotated := valid
		rotated.Auth = "bmV3LWF1dGgtc2VjcmV0"
		require.NoError(t, cmds.Subscribe(ctx, userID, rotated))

		subs := store.Subscriptions()
		require.Len(t, subs, 1)
		assert.Equal(t, "bmV3LWF1dGgtc2VjcmV0", subs[0].Auth)
	})

	t.Run("rejects malformed subscriptions", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(p *commands.PushSubscriptionParams)
		}{
			{name: "plain http endpoint", mutate: func(p *commands.PushSubscriptionParams) { p.Endpoint = "http://push.example.com/x" }},
			{name: "relative endpoint", mutate: func(p *commands.PushSubscriptionParams) { p.Endpoint = "/send/abc" }},
			{name: "key not base64url", mutate: func(p *commands.PushSubscriptionParams) { p.P256dh = "not base64!" }},
			{name: "empty auth", mutate: func(p *commands.PushSubscriptionParams) { p.Auth = "" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := memstore.New()
				p := valid
				tt.mutate(&p)

				err := commands.NewSubscriptionCommands(store, clock.NewMockClock(builder.FixedNow)).Subscribe(ctx, store.AddMentee(), p)

				assert.True(t, errs.Is(err, errs.ErrValidation), "got %v", err)
				assert.Empty(t, store.Subscriptions())
			})
		}
	})

	t.Run("cannot remove another user's endpoint", func(t *testing.T) {
		store := memstore.New()
		owner := store.AddMentee()
		cmds := commands.NewSubscriptionCommands(store, clock.NewMockClock(builder.FixedNow))
		require.NoError(t, cmds.Subscribe(ctx, owner, valid))

		err := cmds.Unsubscribe(ctx, store.AddMentee(), valid.Endpoint)

		assert.ErrorIs(t, err, commands.ErrSubscriptionNotFound)
		assert.Len(t, store.Subscriptions(), 1)
	})
}
