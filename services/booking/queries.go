package booking

import (
	"context"

	"vehiclecare/models"
)

func (s *DefaultBookingService) GetBooking(ctx context.Context, principal models.Principal, bookingID string) (*models.Booking, error) {
	b, err := s.Repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, StoreError(err, "booking not found")
	}

	switch principal.Role {
	case models.RoleAdmin:
		return b, nil
	case models.RoleClient:
		if b.ClientID == principal.ID {
			return b, nil
		}
	case models.RoleVendor:
		if err := s.checkStationOwner(ctx, principal, b.StationID); err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, NewError(ErrForbidden, "not allowed to view this booking")
}

func (s *DefaultBookingService) ListUnhandled(ctx context.Context, principal models.Principal) ([]models.Booking, error) {
	if principal.Role != models.RoleVendor {
		return nil, NewError(ErrForbidden, "only vendors have booking requests")
	}
	st, err := s.Repos.Stations.GetByOwner(ctx, principal.ID)
	if err != nil {
		return nil, StoreError(err, "no service station registered for this vendor")
	}
	bookings, err := s.Repos.Bookings.ListByStation(ctx, st.ID, models.StatusRequested)
	if err != nil {
		return nil, StoreError(err, "booking not found")
	}
	return bookings, nil
}

func (s *DefaultBookingService) ListClientBookings(ctx context.Context, principal models.Principal) ([]models.Booking, error) {
	if principal.Role != models.RoleClient {
		return nil, NewError(ErrForbidden, "only clients have bookings")
	}
	bookings, err := s.Repos.Bookings.ListByClient(ctx, principal.ID)
	if err != nil {
		return nil, StoreError(err, "booking not found")
	}
	return bookings, nil
}

func (s *DefaultBookingService) History(ctx context.Context, principal models.Principal, bookingID string) ([]models.BookingEvent, error) {
	if principal.Role != models.RoleVendor && principal.Role != models.RoleAdmin {
		return nil, NewError(ErrForbidden, "not allowed to view booking history")
	}
	events, err := s.Repos.Events.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, StoreError(err, "booking not found")
	}
	if len(events) == 0 {
		return nil, NewError(ErrNotFound, "booking not found")
	}
	if principal.Role == models.RoleVendor {
		if err := s.checkStationOwner(ctx, principal, events[0].StationID); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *DefaultBookingService) checkStationOwner(ctx context.Context, principal models.Principal, stationID string) error {
	st, err := s.Repos.Stations.GetByID(ctx, stationID)
	if err != nil {
		return StoreError(err, "service station not found")
	}
	if st.OwnerID != principal.ID {
		return NewError(ErrForbidden, "booking belongs to another station")
	}
	return nil
}
