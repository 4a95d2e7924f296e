package station

import (
	"context"
	"time"

	"vehiclecare/database/repository"
	"vehiclecare/models"

	"go.uber.org/zap"
)

// StationService manages service stations for their vendors and for admins.
type StationService interface {
	// Vendor
	CreateStation(ctx context.Context, principal models.Principal, input models.StationInput) (*models.ServiceStation, error)
	GetOwnStation(ctx context.Context, principal models.Principal) (*models.StationView, error)
	UpdateStation(ctx context.Context, principal models.Principal, input models.StationInput) (*models.ServiceStation, error)
	OpenStation(ctx context.Context, principal models.Principal) (*models.ServiceStation, error)
	CloseStation(ctx context.Context, principal models.Principal) (*models.ServiceStation, error)

	// Admin
	ListStations(ctx context.Context, approved bool) ([]models.ServiceStation, error)
	ApproveStation(ctx context.Context, stationID string) (*models.ServiceStation, error)
	DeleteStation(ctx context.Context, stationID string) error
}

// DefaultStationService implements StationService.
type DefaultStationService struct {
	Repos  *repository.Repositories
	Logger *zap.Logger
	Now    func() time.Time
}

func NewStationService(repos *repository.Repositories, logger *zap.Logger) *DefaultStationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultStationService{
		Repos:  repos,
		Logger: logger,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}
