package booking

import (
	"context"
	"time"

	"vehiclecare/database"
	"vehiclecare/database/repository"
	"vehiclecare/models"
	"vehiclecare/services/notification"

	"go.uber.org/zap"
)

// BookingService coordinates the booking lifecycle across the booking and station stores.
type BookingService interface {
	// SubmitBooking validates a client request and stores it as Requested.
	SubmitBooking(ctx context.Context, principal models.Principal, input models.BookingInput) (*models.Booking, error)
	// DecideBooking approves (Requested -> Waiting) or denies (delete) a request.
	DecideBooking(ctx context.Context, principal models.Principal, bookingID string, approved bool) (*models.Booking, error)
	// AdvanceBooking moves a booking out of from: Waiting -> Active or Active -> Completed.
	AdvanceBooking(ctx context.Context, principal models.Principal, bookingID string, from models.BookingStatus) (*models.Booking, error)

	GetBooking(ctx context.Context, principal models.Principal, bookingID string) (*models.Booking, error)
	// ListUnhandled returns the Requested bookings of the vendor's station.
	ListUnhandled(ctx context.Context, principal models.Principal) ([]models.Booking, error)
	ListClientBookings(ctx context.Context, principal models.Principal) ([]models.Booking, error)
	// History returns the audit trail of a booking, including denied ones.
	History(ctx context.Context, principal models.Principal, bookingID string) ([]models.BookingEvent, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repos    *repository.Repositories
	Locker   Locker
	Notifier notification.Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewBookingService(repos *repository.Repositories, locker Locker, notifier notification.Notifier, logger *zap.Logger) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repos:    repos,
		Locker:   locker,
		Notifier: notifier,
		Logger:   logger,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *DefaultBookingService) tx() database.TxRunner {
	return s.Repos.Tx
}
