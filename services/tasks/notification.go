package tasks

import (
	"encoding/json"
	"fmt"

	"vehiclecare/models"

	"github.com/hibiken/asynq"
)

const TypeDeliverNotification = "notification:deliver"

// NewNotificationTask wraps a notification for asynchronous delivery. The task id is
// the notification id so a re-enqueue of the same event is rejected by asynq.
func NewNotificationTask(n models.Notification, maxRetry int) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDeliverNotification, b)
	opts := []asynq.Option{asynq.MaxRetry(maxRetry)}
	if n.ID != "" {
		opts = append(opts, asynq.TaskID(n.ID))
	}

	return task, opts, nil
}

// ParseNotificationTask decodes the payload built by NewNotificationTask.
func ParseNotificationTask(t *asynq.Task) (models.Notification, error) {
	var n models.Notification
	if err := json.Unmarshal(t.Payload(), &n); err != nil {
		return n, fmt.Errorf("invalid %s payload: %w", TypeDeliverNotification, err)
	}
	return n, nil
}
