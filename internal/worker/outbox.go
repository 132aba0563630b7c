package worker

import (
	"context"
	"log/slog"

	"mentor-booking/internal/usecase/commands"
)

type OutboxJob struct {
	dispatcher commands.OutboxCommands
	logger     *slog.Logger
}

func NewOutboxJob(dispatcher commands.OutboxCommands, logger *slog.Logger) *OutboxJob {
	return &OutboxJob{dispatcher: dispatcher, logger: logger}
}

func (j *OutboxJob) Name() string { return "notification-outbox" }

func (j *OutboxJob) Run(ctx context.Context) error {
	result, err := j.dispatcher.DispatchDue(ctx)
	if err != nil {
		return err
	}
	if result.Sent+result.Retried+result.Failed > 0 {
		j.logger.InfoContext(ctx, "dispatched notification jobs",
			"sent", result.Sent, "retried", result.Retried, "failed", result.Failed)
	}
	return nil
}
