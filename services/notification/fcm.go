package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"vehiclecare/database"
	userRepo "vehiclecare/database/repository/user"
	"vehiclecare/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// NewFCMClient initializes the Firebase App and Messaging client.
func NewFCMClient(ctx context.Context, credentialsFile string) (*messaging.Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}
	return client, nil
}

// MessageSender is the part of *messaging.Client the sink needs.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSink pushes booking events to the recipient's device.
type FCMSink struct {
	Client MessageSender
	Users  userRepo.UserRepository
}

func NewFCMSink(client MessageSender, users userRepo.UserRepository) *FCMSink {
	return &FCMSink{Client: client, Users: users}
}

func (s *FCMSink) Name() string { return "fcm" }

// Deliver looks up the recipient's FCM token and sends a push. Recipients
// without a registered device are skipped.
func (s *FCMSink) Deliver(ctx context.Context, n models.Notification) error {
	u, err := s.Users.GetByID(ctx, n.Recipient.ID)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not find recipient %s: %w", n.Recipient.ID, err)
	}
	if u.FCMToken == "" {
		return nil
	}

	if _, err := s.Client.Send(ctx, pushMessage(u.FCMToken, n)); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}

func pushMessage(token string, n models.Notification) *messaging.Message {
	title, body := pushText(n)
	data := map[string]string{
		"event":     n.Name,
		"role":      string(n.Recipient.Role),
		"bookingId": n.Payload.Booking.ID,
		"status":    string(n.Payload.Booking.Status),
	}
	if n.Payload.IsApproved != nil {
		data["isApproved"] = strconv.FormatBool(*n.Payload.IsApproved)
	}

	return &messaging.Message{
		Token:        token,
		Notification: &messaging.Notification{Title: title, Body: body},
		Data:         data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{Aps: &messaging.Aps{Sound: "default"}},
		},
	}
}

func pushText(n models.Notification) (string, string) {
	plate := n.Payload.Booking.Vehicle.PlateNumber
	switch n.Name {
	case models.EventBookingRequestedToVendor:
		return "New booking request", fmt.Sprintf("%s is waiting for your decision.", plate)
	case models.EventBookingDecisionToClient:
		if n.Payload.IsApproved != nil && *n.Payload.IsApproved {
			return "Booking accepted", fmt.Sprintf("Your booking for %s is in the queue.", plate)
		}
		return "Booking declined", fmt.Sprintf("The station could not take %s.", plate)
	case models.EventProcessUpdated:
		if n.Payload.Status == models.StatusCompleted {
			return "Service completed", fmt.Sprintf("%s is ready for pickup.", plate)
		}
		return "Service started", fmt.Sprintf("Work on %s has begun.", plate)
	}
	return n.Name, plate
}
