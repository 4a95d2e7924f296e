package bookingRepo

import (
	"context"

	"vehiclecare/models"
)

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking. A second Requested booking with the same
	// duplicate key is rejected with database.ErrDuplicate.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Delete removes a booking by its ID.
	Delete(ctx context.Context, id string) error
	// DeleteWithStatus removes a booking only while it is still in status. It returns
	// database.ErrConflict when the status has moved on.
	DeleteWithStatus(ctx context.Context, id string, status models.BookingStatus) error
	// FindPendingDuplicate returns the Requested booking sharing key, if any.
	FindPendingDuplicate(ctx context.Context, key string) (*models.Booking, error)
	// CompareAndSetStatus moves a booking from one status to another only if it is
	// still in from. It returns database.ErrConflict when the status has moved on.
	CompareAndSetStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error)
	// ListByStation returns the station's bookings in the given statuses, oldest first.
	ListByStation(ctx context.Context, stationID string, statuses ...models.BookingStatus) ([]models.Booking, error)
	// ListByIDs returns the bookings with the given ids, in the order given.
	ListByIDs(ctx context.Context, ids []string) ([]models.Booking, error)
	// ListByClient returns a client's bookings, newest first.
	ListByClient(ctx context.Context, clientID string) ([]models.Booking, error)
}
