package station

import (
	"context"
	"errors"
	"strings"

	"vehiclecare/database"
	"vehiclecare/models"
	"vehiclecare/services/booking"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const noStationMsg = "no service station registered for this vendor"

func (s *DefaultStationService) CreateStation(ctx context.Context, principal models.Principal, input models.StationInput) (*models.ServiceStation, error) {
	if principal.Role != models.RoleVendor {
		return nil, booking.NewError(booking.ErrForbidden, "only vendors can register a service station")
	}
	in, err := validateStationInput(input)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	st := &models.ServiceStation{
		ID:       uuid.New().String(),
		Name:     in.Name,
		Area:     in.Area,
		Vehicles: in.Vehicles,
		Services: in.Services,
		Location: in.Location,
		// New stations wait for admin approval and open once the vendor is ready.
		Status:          models.StationClosed,
		Approved:        false,
		OwnerID:         principal.ID,
		PendingBookings: []string{},
		ActiveProcess:   []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repos.Stations.Create(ctx, st); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, booking.WrapError(booking.ErrDuplicateRequest, "vendor already has a service station", err)
		}
		return nil, booking.StoreError(err, noStationMsg)
	}

	s.Logger.Info("service station registered", zap.String("stationID", st.ID), zap.String("ownerID", st.OwnerID))
	return st, nil
}

// GetOwnStation returns the vendor's station with both booking lists resolved and
// the number of requests still awaiting a decision.
func (s *DefaultStationService) GetOwnStation(ctx context.Context, principal models.Principal) (*models.StationView, error) {
	st, err := s.ownStation(ctx, principal)
	if err != nil {
		return nil, err
	}

	pending, err := s.Repos.Bookings.ListByIDs(ctx, st.PendingBookings)
	if err != nil {
		return nil, booking.StoreError(err, noStationMsg)
	}
	active, err := s.Repos.Bookings.ListByIDs(ctx, st.ActiveProcess)
	if err != nil {
		return nil, booking.StoreError(err, noStationMsg)
	}
	unhandled, err := s.Repos.Bookings.ListByStation(ctx, st.ID, models.StatusRequested)
	if err != nil {
		return nil, booking.StoreError(err, noStationMsg)
	}

	return &models.StationView{
		ServiceStation: *st,
		PendingDetails: pending,
		ActiveDetails:  active,
		UnhandledCount: len(unhandled),
	}, nil
}

// UpdateStation edits the profile only; the booking lists belong to the coordinator.
func (s *DefaultStationService) UpdateStation(ctx context.Context, principal models.Principal, input models.StationInput) (*models.ServiceStation, error) {
	st, err := s.ownStation(ctx, principal)
	if err != nil {
		return nil, err
	}
	in, err := validateStationInput(input)
	if err != nil {
		return nil, err
	}
	updated, err := s.Repos.Stations.UpdateProfile(ctx, st.ID, in)
	if err != nil {
		return nil, booking.StoreError(err, noStationMsg)
	}
	return updated, nil
}

func (s *DefaultStationService) OpenStation(ctx context.Context, principal models.Principal) (*models.ServiceStation, error) {
	return s.setStatus(ctx, principal, models.StationOpen)
}

func (s *DefaultStationService) CloseStation(ctx context.Context, principal models.Principal) (*models.ServiceStation, error) {
	return s.setStatus(ctx, principal, models.StationClosed)
}

func (s *DefaultStationService) setStatus(ctx context.Context, principal models.Principal, status models.StationStatus) (*models.ServiceStation, error) {
	st, err := s.ownStation(ctx, principal)
	if err != nil {
		return nil, err
	}
	updated, err := s.Repos.Stations.SetStatus(ctx, st.ID, status)
	if err != nil {
		return nil, booking.StoreError(err, noStationMsg)
	}
	s.Logger.Info("service station status changed", zap.String("stationID", st.ID), zap.String("status", string(status)))
	return updated, nil
}

func (s *DefaultStationService) ownStation(ctx context.Context, principal models.Principal) (*models.ServiceStation, error) {
	if principal.Role != models.RoleVendor {
		return nil, booking.NewError(booking.ErrForbidden, "only vendors own service stations")
	}
	st, err := s.Repos.Stations.GetByOwner(ctx, principal.ID)
	if err != nil {
		return nil, booking.StoreError(err, noStationMsg)
	}
	return st, nil
}

func validateStationInput(in models.StationInput) (models.StationInput, error) {
	out := models.StationInput{
		Name:     strings.TrimSpace(in.Name),
		Area:     strings.TrimSpace(in.Area),
		Vehicles: cleanList(in.Vehicles),
		Services: cleanList(in.Services),
		Location: in.Location,
	}

	var problems []string
	if out.Name == "" {
		problems = append(problems, "name is required")
	}
	if out.Area == "" {
		problems = append(problems, "area is required")
	}
	if len(out.Vehicles) == 0 {
		problems = append(problems, "Vehicles are required")
	}
	if len(out.Services) == 0 {
		problems = append(problems, "Services are required")
	}
	if loc := out.Location; loc != nil {
		if len(loc.Coordinates) != 2 ||
			loc.Coordinates[0] < -180 || loc.Coordinates[0] > 180 ||
			loc.Coordinates[1] < -90 || loc.Coordinates[1] > 90 {
			problems = append(problems, "location must be [longitude, latitude]")
		} else {
			out.Location = &models.GeoPoint{Type: "Point", Coordinates: loc.Coordinates}
		}
	}
	if len(problems) > 0 {
		return out, booking.NewError(booking.ErrValidation, strings.Join(problems, "; "))
	}
	return out, nil
}

func cleanList(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	return out
}
