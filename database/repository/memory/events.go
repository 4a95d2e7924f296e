package memory

import (
	"context"
	"time"

	eventsRepo "vehiclecare/database/repository/events"
	"vehiclecare/models"

	"github.com/google/uuid"
)

type EventRepo struct {
	s *Store
}

var _ eventsRepo.EventRepository = (*EventRepo)(nil)

func (r *EventRepo) Append(ctx context.Context, event models.BookingEvent) error {
	done, err := r.s.begin(ctx, "events.Append")
	if err != nil {
		return err
	}
	defer done()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	r.s.events = append(r.s.events, event)
	return nil
}

func (r *EventRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.BookingEvent, error) {
	done, err := r.s.begin(ctx, "events.ListByBooking")
	if err != nil {
		return nil, err
	}
	defer done()

	out := []models.BookingEvent{}
	for _, e := range r.s.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out, nil
}
