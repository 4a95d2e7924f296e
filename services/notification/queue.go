package notification

import (
	"context"
	"errors"
	"fmt"

	"vehiclecare/models"
	"vehiclecare/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the queue notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands events to the asynq queue; the worker delivers them and asynq
// owns retry and backoff.
type QueueNotifier struct {
	Client   Enqueuer
	MaxRetry int
}

func NewQueueNotifier(client Enqueuer, maxRetry int) *QueueNotifier {
	return &QueueNotifier{Client: client, MaxRetry: maxRetry}
}

func (q *QueueNotifier) Emit(ctx context.Context, n models.Notification) error {
	task, opts, err := tasks.NewNotificationTask(n, q.MaxRetry)
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}
	if _, err := q.Client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// NewDeliveryHandler returns the asynq handler for notification tasks. A delivery
// error makes asynq retry the task; a malformed payload is dropped.
func NewDeliveryHandler(sink Sink, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		n, err := tasks.ParseNotificationTask(t)
		if err != nil {
			logger.Error("dropping notification task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := sink.Deliver(ctx, n); err != nil {
			return fmt.Errorf("deliver %s to %s: %w", n.Name, n.Recipient.ID, err)
		}
		return nil
	}
}
