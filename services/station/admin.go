package station

import (
	"context"
	"fmt"

	"vehiclecare/models"
	"vehiclecare/services/booking"

	"go.uber.org/zap"
)

func (s *DefaultStationService) ListStations(ctx context.Context, approved bool) ([]models.ServiceStation, error) {
	stations, err := s.Repos.Stations.List(ctx, approved)
	if err != nil {
		return nil, booking.StoreError(err, "service station not found")
	}
	return stations, nil
}

func (s *DefaultStationService) ApproveStation(ctx context.Context, stationID string) (*models.ServiceStation, error) {
	st, err := s.Repos.Stations.SetApproved(ctx, stationID, true)
	if err != nil {
		return nil, booking.StoreError(err, "service station not found")
	}
	s.Logger.Info("service station approved", zap.String("stationID", stationID))
	return st, nil
}

// DeleteStation refuses while bookings are still queued or being serviced so no
// booking is left pointing at a missing station.
func (s *DefaultStationService) DeleteStation(ctx context.Context, stationID string) error {
	st, err := s.Repos.Stations.GetByID(ctx, stationID)
	if err != nil {
		return booking.StoreError(err, "service station not found")
	}
	if n := len(st.PendingBookings) + len(st.ActiveProcess); n > 0 {
		return booking.NewError(booking.ErrInvalidTransition, fmt.Sprintf("service station still has %d bookings in progress", n))
	}
	requested, err := s.Repos.Bookings.ListByStation(ctx, stationID, models.StatusRequested)
	if err != nil {
		return booking.StoreError(err, "service station not found")
	}
	if len(requested) > 0 {
		return booking.NewError(booking.ErrInvalidTransition, fmt.Sprintf("service station still has %d unhandled requests", len(requested)))
	}

	if err := s.Repos.Stations.Delete(ctx, stationID); err != nil {
		return booking.StoreError(err, "service station not found")
	}
	s.Logger.Info("service station deleted", zap.String("stationID", stationID))
	return nil
}
