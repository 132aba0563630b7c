//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/commands"
	"mentor-booking/tests/common/builder"
	"mentor-booking/tests/common/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic   string
	key     string
	value   []byte
	headers map[string]string
}

// recordingPublisher fails the first failures calls, then records the rest.
type recordingPublisher struct {
	mu       sync.Mutex
	failures int
	sent     []published
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, value []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errs.New("broker unavailable")
	}
	p.sent = append(p.sent, published{topic: topic, key: key, value: value, headers: headers})
	return nil
}

func TestDispatchDue(t *testing.T) {
	ctx := context.Background()
	now := builder.FixedNow
	cfg := commands.OutboxConfig{Topic: "mentoring.notifications", BatchSize: 10, MaxAttempts: 3}

	t.Run("publishes due jobs keyed by reservation", func(t *testing.T) {
		store := memstore.New()
		pub := &recordingPublisher{}
		id := store.AddJob("reservation_reserved", "res-1", []byte(`{"status":"reserved"}`), now)
		store.AddJob("reservation_confirmed", "res-1", []byte(`{}`), now.Add(time.Minute))

		result, err := commands.NewOutboxCommands(store, pub, clock.NewMockClock(now), cfg, nil, discardLogger()).DispatchDue(ctx)

		require.NoError(t, err)
		assert.Equal(t, commands.DispatchResult{Sent: 1}, result)
		require.Len(t, pub.sent, 1)
		assert.Equal(t, "mentoring.notifications", pub.sent[0].topic)
		assert.Equal(t, "res-1", pub.sent[0].key)
		assert.JSONEq(t, `{"status":"reserved"}`, string(pub.sent[0].value))
		assert.Equal(t, map[string]string{"kind": "reservation_reserved", "job_id": id.String()}, pub.sent[0].headers)

		jobs := store.Jobs()
		assert.Equal(t, "sent", jobs[0].Status)
		assert.Equal(t, "queued", jobs[1].Status)
	})

	t.Run("failed publish is retried with backoff", func(t *testing.T) {
		store := memstore.New()
		pub := &recordingPublisher{failures: 2}
		clk := clock.NewMockClock(now)
		store.AddJob("reservation_expired", "res-1", []byte(`{}`), now)
		outbox := commands.NewOutboxCommands(store, pub, clk, cfg, nil, discardLogger())

		result, err := outbox.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.DispatchResult{Retried: 1}, result)
		job := store.Jobs()[0]
		assert.Equal(t, int32(1), job.Attempts)
		assert.True(t, job.RunAt.Equal(now.Add(30*time.Second)))
		assert.Equal(t, "broker unavailable", job.LastError)

		// not due yet
		result, err = outbox.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.DispatchResult{}, result)

		clk.Advance(30 * time.Second)
		result, err = outbox.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.DispatchResult{Retried: 1}, result)
		assert.True(t, store.Jobs()[0].RunAt.Equal(clk.Now().Add(60*time.Second)))

		clk.Advance(time.Minute)
		result, err = outbox.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.DispatchResult{Sent: 1}, result)
		assert.Equal(t, "sent", store.Jobs()[0].Status)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		store := memstore.New()
		pub := &recordingPublisher{failures: 100}
		clk := clock.NewMockClock(now)
		store.AddJob("reservation_expired", "res-1", []byte(`{}`), now)
		outbox := commands.NewOutboxCommands(store, pub, clk, cfg, nil, discardLogger())

		var last commands.DispatchResult
		for range cfg.MaxAttempts {
			var err error
			last, err = outbox.DispatchDue(ctx)
			require.NoError(t, err)
			clk.Advance(time.Hour)
		}

		assert.Equal(t, commands.DispatchResult{Failed: 1}, last)
		job := store.Jobs()[0]
		assert.Equal(t, "failed", job.Status)
		assert.Equal(t, cfg.MaxAttempts, job.Attempts)

		result, err := outbox.DispatchDue(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.DispatchResult{}, result)
	})

	t.Run("batch size caps one pass", func(t *testing.T) {
		store := memstore.New()
		pub := &recordingPublisher{}
		for range 3 {
			store.AddJob("reservation_reserved", "res", []byte(`{}`), now)
		}
		small := cfg
		small.BatchSize = 2

		result, err := commands.NewOutboxCommands(store, pub, clock.NewMockClock(now), small, nil, discardLogger()).DispatchDue(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Sent)
	})
}
