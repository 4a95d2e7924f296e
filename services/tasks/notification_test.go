package tasks

import (
	"testing"
	"time"

	"vehiclecare/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationTaskCarriesEvent(t *testing.T) {
	approved := true
	n := models.Notification{
		ID:         "n-1",
		Name:       models.EventBookingDecisionToClient,
		Recipient:  models.Recipient{Role: models.RoleClient, ID: "client-1"},
		Payload:    models.NotificationPayload{IsApproved: &approved, Booking: models.Booking{ID: "b-1", Status: models.StatusWaiting}},
		OccurredAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}

	task, opts, err := NewNotificationTask(n, 5)
	require.NoError(t, err)
	assert.Equal(t, TypeDeliverNotification, task.Type())
	assert.Len(t, opts, 2)

	decoded, err := ParseNotificationTask(task)
	require.NoError(t, err)
	assert.Equal(t, n.Name, decoded.Name)
	assert.Equal(t, n.Recipient, decoded.Recipient)
	require.NotNil(t, decoded.Payload.IsApproved)
	assert.True(t, *decoded.Payload.IsApproved)
	assert.Equal(t, "b-1", decoded.Payload.Booking.ID)
}

func TestParseNotificationTaskRejectsGarbage(t *testing.T) {
	_, err := ParseNotificationTask(asynq.NewTask(TypeDeliverNotification, []byte("{")))
	assert.Error(t, err)
}
