package stationRepo

import (
	"context"

	"vehiclecare/models"
)

// StationRepository defines methods for service station data access.
type StationRepository interface {
	// Create inserts a new station; a second station for the same owner is
	// rejected with database.ErrDuplicate.
	Create(ctx context.Context, station *models.ServiceStation) error
	// GetByID retrieves a station by its unique ID.
	GetByID(ctx context.Context, id string) (*models.ServiceStation, error)
	// GetByOwner retrieves the station owned by a vendor.
	GetByOwner(ctx context.Context, ownerID string) (*models.ServiceStation, error)
	// List returns stations filtered by approval.
	List(ctx context.Context, approved bool) ([]models.ServiceStation, error)
	// UpdateProfile replaces the vendor-editable fields. Booking lists are untouched.
	UpdateProfile(ctx context.Context, id string, input models.StationInput) (*models.ServiceStation, error)
	// SetStatus opens or closes a station.
	SetStatus(ctx context.Context, id string, status models.StationStatus) (*models.ServiceStation, error)
	// SetApproved marks a station approved by an admin.
	SetApproved(ctx context.Context, id string, approved bool) (*models.ServiceStation, error)
	// Delete removes a station by its ID.
	Delete(ctx context.Context, id string) error

	// AddToList appends bookingID to the named list unless already present.
	AddToList(ctx context.Context, id string, list models.StationList, bookingID string) error
	// RemoveFromList removes every occurrence of bookingID from the named list.
	RemoveFromList(ctx context.Context, id string, list models.StationList, bookingID string) error
	// MoveBetweenLists removes bookingID from one list and appends it to the other in
	// a single write. It returns database.ErrConflict if bookingID is already in to.
	MoveBetweenLists(ctx context.Context, id string, from, to models.StationList, bookingID string) error
	// ListContains reports whether bookingID is in the named list.
	ListContains(ctx context.Context, id string, list models.StationList, bookingID string) (bool, error)
}
