package commands

import (
	"context"
	"log/slog"
	"time"

	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/pkg/metrics"
	"mentor-booking/internal/usecase/shared"
)

const outboxRetryBase = 30 * time.Second

type OutboxConfig struct {
	Topic       string
	BatchSize   int32
	MaxAttempts int32
}

type DispatchResult struct {
	Sent    int
	Retried int
	Failed  int
}

type OutboxCommands interface {
	// DispatchDue publishes one batch of due notification jobs.
	DispatchDue(ctx context.Context) (DispatchResult, error)
}

type outboxCommandsImpl struct {
	uow       shared.UnitOfWork
	publisher shared.EventPublisher
	clock     clock.Clock
	cfg       OutboxConfig
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewOutboxCommands(
	uow shared.UnitOfWork,
	publisher shared.EventPublisher,
	clk clock.Clock,
	cfg OutboxConfig,
	m *metrics.Metrics,
	logger *slog.Logger,
) OutboxCommands {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &outboxCommandsImpl{
		uow:       uow,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
		metrics:   m,
		logger:    logger,
	}
}

func (o *outboxCommandsImpl) DispatchDue(ctx context.Context) (DispatchResult, error) {
	var result DispatchResult
	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = DispatchResult{}
		now := o.clock.Now()
		jobs, err := tx.Notifications().ClaimDue(ctx, tx.DB(), now, o.cfg.BatchSize)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			headers := map[string]string{"kind": job.Kind, "job_id": job.ID.String()}
			pubErr := o.publisher.Publish(ctx, o.cfg.Topic, job.Topic, job.Payload, headers)
			if pubErr == nil {
				if err := tx.Notifications().MarkSent(ctx, tx.DB(), job.ID, now); err != nil {
					return err
				}
				result.Sent++
				o.metrics.OutboxJob("sent")
				continue
			}

			attempts := job.Attempts + 1
			var retryAt *time.Time
			if attempts < o.cfg.MaxAttempts {
				at := now.Add(outboxRetryBase << (attempts - 1))
				retryAt = &at
				result.Retried++
				o.metrics.OutboxJob("retried")
			} else {
				result.Failed++
				o.metrics.OutboxJob("failed")
			}
			o.logger.WarnContext(ctx, "failed to publish notification job",
				"job_id", job.ID, "kind", job.Kind, "attempts", attempts, "error", pubErr)
			if err := tx.Notifications().MarkFailed(ctx, tx.DB(), job.ID, pubErr.Error(), retryAt, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return DispatchResult{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return result, nil
}
