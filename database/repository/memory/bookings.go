package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vehiclecare/database"
	bookingRepo "vehiclecare/database/repository/booking"
	"vehiclecare/models"
)

type BookingRepo struct {
	s *Store
}

var _ bookingRepo.BookingRepository = (*BookingRepo)(nil)

func (r *BookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	done, err := r.s.begin(ctx, "bookings.Create")
	if err != nil {
		return err
	}
	defer done()

	booking.Normalize()
	if _, ok := r.s.bookings[booking.ID]; ok {
		return fmt.Errorf("booking %s: %w", booking.ID, database.ErrDuplicate)
	}
	if booking.Status == models.StatusRequested {
		for _, b := range r.s.bookings {
			if b.Status == models.StatusRequested && b.DuplicateKey == booking.DuplicateKey {
				return fmt.Errorf("error creating booking: %w", database.ErrDuplicate)
			}
		}
	}
	r.s.bookings[booking.ID] = cloneBooking(*booking)
	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	done, err := r.s.begin(ctx, "bookings.GetByID")
	if err != nil {
		return nil, err
	}
	defer done()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, database.ErrNotFound)
	}
	b = cloneBooking(b)
	return &b, nil
}

func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	done, err := r.s.begin(ctx, "bookings.Delete")
	if err != nil {
		return err
	}
	defer done()

	if _, ok := r.s.bookings[id]; !ok {
		return fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	delete(r.s.bookings, id)
	return nil
}

func (r *BookingRepo) DeleteWithStatus(ctx context.Context, id string, status models.BookingStatus) error {
	done, err := r.s.begin(ctx, "bookings.DeleteWithStatus")
	if err != nil {
		return err
	}
	defer done()

	b, ok := r.s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	if b.Status != status {
		return fmt.Errorf("booking %s is no longer %s: %w", id, status, database.ErrConflict)
	}
	delete(r.s.bookings, id)
	return nil
}

func (r *BookingRepo) FindPendingDuplicate(ctx context.Context, key string) (*models.Booking, error) {
	done, err := r.s.begin(ctx, "bookings.FindPendingDuplicate")
	if err != nil {
		return nil, err
	}
	defer done()

	for _, b := range r.s.bookings {
		if b.Status == models.StatusRequested && b.DuplicateKey == key {
			b = cloneBooking(b)
			return &b, nil
		}
	}
	return nil, nil
}

func (r *BookingRepo) CompareAndSetStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	done, err := r.s.begin(ctx, "bookings.CompareAndSetStatus")
	if err != nil {
		return nil, err
	}
	defer done()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	if b.Status != from {
		return nil, fmt.Errorf("booking %s is no longer %s: %w", id, from, database.ErrConflict)
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	b.Normalize()
	r.s.bookings[id] = b

	out := cloneBooking(b)
	return &out, nil
}

func (r *BookingRepo) ListByStation(ctx context.Context, stationID string, statuses ...models.BookingStatus) ([]models.Booking, error) {
	return r.list(ctx, "bookings.ListByStation", func(b models.Booking) bool {
		if b.StationID != stationID {
			return false
		}
		if len(statuses) == 0 {
			return true
		}
		for _, s := range statuses {
			if b.Status == s {
				return true
			}
		}
		return false
	}, func(a, b models.Booking) bool { return a.CreatedAt.Before(b.CreatedAt) })
}

func (r *BookingRepo) ListByClient(ctx context.Context, clientID string) ([]models.Booking, error) {
	return r.list(ctx, "bookings.ListByClient", func(b models.Booking) bool {
		return b.ClientID == clientID
	}, func(a, b models.Booking) bool { return a.CreatedAt.After(b.CreatedAt) })
}

func (r *BookingRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Booking, error) {
	done, err := r.s.begin(ctx, "bookings.ListByIDs")
	if err != nil {
		return nil, err
	}
	defer done()

	out := make([]models.Booking, 0, len(ids))
	for _, id := range ids {
		if b, ok := r.s.bookings[id]; ok {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *BookingRepo) list(ctx context.Context, op string, match func(models.Booking) bool, less func(a, b models.Booking) bool) ([]models.Booking, error) {
	done, err := r.s.begin(ctx, op)
	if err != nil {
		return nil, err
	}
	defer done()

	out := []models.Booking{}
	for _, b := range r.s.bookings {
		if match(b) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return less(out[i], out[j])
	})
	return out, nil
}
