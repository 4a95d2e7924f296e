package booking

import (
	"context"
	"errors"
	"fmt"

	"vehiclecare/database"
	"vehiclecare/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultBookingService) SubmitBooking(ctx context.Context, principal models.Principal, input models.BookingInput) (*models.Booking, error) {
	if principal.Role != models.RoleClient {
		return nil, NewError(ErrForbidden, "only clients can request a booking")
	}
	now := s.Now()
	in, err := validateInput(input, now)
	if err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID: uuid.New().String(),
		Vehicle: models.Vehicle{
			Type:        in.VehicleType,
			Make:        in.VehicleMake,
			Model:       in.VehicleModel,
			PlateNumber: in.VehicleNo,
		},
		ContactNo:        in.ContactNo,
		ServiceTypes:     in.ServiceTypes,
		ClientID:         principal.ID,
		StationID:        in.StationID,
		Status:           models.StatusRequested,
		CreatedAt:        now,
		EstimatedStartAt: in.EstimatedStartAt,
		UpdatedAt:        now,
	}
	b.Normalize()

	dup, err := s.Repos.Bookings.FindPendingDuplicate(ctx, b.DuplicateKey)
	if err != nil {
		return nil, StoreError(err, "booking not found")
	}
	if dup != nil {
		return nil, NewError(ErrDuplicateRequest, "Request Already Sent")
	}

	station, err := s.Repos.Stations.GetByID(ctx, in.StationID)
	if err != nil {
		return nil, StoreError(err, "service station not found")
	}
	if err := checkStationAccepts(station, in); err != nil {
		return nil, err
	}
	if _, err := s.Repos.Users.GetByID(ctx, principal.ID); err != nil {
		return nil, StoreError(err, "client not found")
	}

	err = s.runSteps(ctx, b.ID,
		step{
			name: "create booking",
			do: func(ctx context.Context) error {
				if err := s.Repos.Bookings.Create(ctx, b); err != nil {
					if errors.Is(err, database.ErrDuplicate) {
						return WrapError(ErrDuplicateRequest, "Request Already Sent", err)
					}
					return err
				}
				return nil
			},
			undo: func(ctx context.Context) error { return s.Repos.Bookings.Delete(ctx, b.ID) },
		},
		s.auditStep(principal, b, "", models.EventCreated),
	)
	if err != nil {
		return nil, StoreError(err, "booking not found")
	}

	s.Logger.Info("booking requested",
		zap.String("bookingID", b.ID),
		zap.String("stationID", b.StationID),
		zap.String("clientID", b.ClientID))
	s.emit(ctx, models.EventBookingRequestedToVendor,
		models.Recipient{Role: models.RoleVendor, ID: station.OwnerID},
		models.NotificationPayload{Message: "New booking request", Booking: *b})

	return b, nil
}

func (s *DefaultBookingService) DecideBooking(ctx context.Context, principal models.Principal, bookingID string, approved bool) (*models.Booking, error) {
	if principal.Role != models.RoleVendor {
		return nil, NewError(ErrForbidden, "only the station owner can handle booking requests")
	}

	var result *models.Booking
	err := s.withBookingLock(ctx, bookingID, func(ctx context.Context) error {
		b, _, err := s.loadForVendor(ctx, principal, bookingID)
		if err != nil {
			return err
		}
		if b.Status.IsTerminal() {
			return NewError(ErrInvalidTransition, "booking no longer active")
		}
		// Only a Requested booking can still be approved; denial shares the same gate.
		if !b.Status.CanTransitionTo(models.StatusWaiting) {
			return NewError(ErrInvalidTransition, "booking request already handled")
		}

		if !approved {
			original := *b
			err := s.runSteps(ctx, b.ID,
				step{
					name: "delete booking",
					do: func(ctx context.Context) error {
						return s.Repos.Bookings.DeleteWithStatus(ctx, b.ID, models.StatusRequested)
					},
					undo: func(ctx context.Context) error {
						restored := original
						return s.Repos.Bookings.Create(ctx, &restored)
					},
				},
				s.auditStep(principal, b, string(models.StatusRequested), models.EventDenied),
			)
			if err != nil {
				return StoreError(err, "booking not found")
			}
			result = b
			return nil
		}

		var updated *models.Booking
		err = s.runSteps(ctx, b.ID,
			s.statusStep(b.ID, models.StatusRequested, models.StatusWaiting, &updated),
			step{
				name: "add to pendingBookings",
				do: func(ctx context.Context) error {
					return s.Repos.Stations.AddToList(ctx, b.StationID, models.ListPendingBookings, b.ID)
				},
				undo: func(ctx context.Context) error {
					return s.Repos.Stations.RemoveFromList(ctx, b.StationID, models.ListPendingBookings, b.ID)
				},
			},
			s.auditStep(principal, b, string(models.StatusRequested), string(models.StatusWaiting)),
		)
		if err != nil {
			return StoreError(err, "booking not found")
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("booking request handled",
		zap.String("bookingID", result.ID),
		zap.String("stationID", result.StationID),
		zap.Bool("approved", approved))
	s.emit(ctx, models.EventBookingDecisionToClient,
		models.Recipient{Role: models.RoleClient, ID: result.ClientID},
		models.NotificationPayload{IsApproved: &approved, Booking: *result})

	return result, nil
}

func (s *DefaultBookingService) AdvanceBooking(ctx context.Context, principal models.Principal, bookingID string, from models.BookingStatus) (*models.Booking, error) {
	if from != models.StatusWaiting && from != models.StatusActive {
		return nil, NewError(ErrUnrecognizedTransition, fmt.Sprintf("Unknown status %q", from))
	}
	if principal.Role != models.RoleVendor {
		return nil, NewError(ErrForbidden, "only the station owner can update a booking")
	}
	to, _ := from.Next()

	var result *models.Booking
	err := s.withBookingLock(ctx, bookingID, func(ctx context.Context) error {
		b, _, err := s.loadForVendor(ctx, principal, bookingID)
		if err != nil {
			return err
		}
		if b.Status != from {
			if b.Status.IsTerminal() {
				return NewError(ErrInvalidTransition, "booking no longer active")
			}
			return NewError(ErrInvalidTransition, fmt.Sprintf("booking is %s, not %s", b.Status, from))
		}

		var steps []step
		switch from {
		case models.StatusWaiting:
			serving, err := s.Repos.Stations.ListContains(ctx, b.StationID, models.ListActiveProcess, b.ID)
			if err != nil {
				return StoreError(err, "service station not found")
			}
			if serving {
				return NewError(ErrInvalidTransition, "Already Serving")
			}
			steps = append(steps, step{
				name: "move to activeProcess",
				do: func(ctx context.Context) error {
					err := s.Repos.Stations.MoveBetweenLists(ctx, b.StationID, models.ListPendingBookings, models.ListActiveProcess, b.ID)
					if errors.Is(err, database.ErrConflict) {
						return WrapError(ErrInvalidTransition, "Already Serving", err)
					}
					return err
				},
				undo: func(ctx context.Context) error {
					return s.Repos.Stations.MoveBetweenLists(ctx, b.StationID, models.ListActiveProcess, models.ListPendingBookings, b.ID)
				},
			})
		case models.StatusActive:
			steps = append(steps, step{
				name: "remove from activeProcess",
				do: func(ctx context.Context) error {
					return s.Repos.Stations.RemoveFromList(ctx, b.StationID, models.ListActiveProcess, b.ID)
				},
				undo: func(ctx context.Context) error {
					return s.Repos.Stations.AddToList(ctx, b.StationID, models.ListActiveProcess, b.ID)
				},
			})
		}

		var updated *models.Booking
		steps = append([]step{s.statusStep(b.ID, from, to, &updated)}, steps...)
		steps = append(steps, s.auditStep(principal, b, string(from), string(to)))
		if err := s.runSteps(ctx, b.ID, steps...); err != nil {
			return StoreError(err, "booking not found")
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("booking process updated",
		zap.String("bookingID", result.ID),
		zap.String("stationID", result.StationID),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	s.emit(ctx, models.EventProcessUpdated,
		models.Recipient{Role: models.RoleClient, ID: result.ClientID},
		models.NotificationPayload{Status: to, Booking: *result})

	return result, nil
}

// withBookingLock runs fn while holding the per-booking lock.
func (s *DefaultBookingService) withBookingLock(ctx context.Context, bookingID string, fn func(ctx context.Context) error) error {
	unlock, err := s.Locker.Lock(ctx, lockKey(bookingID))
	if err != nil {
		return WrapError(ErrStoreUnavailable, "booking is busy, try again", err)
	}
	defer unlock()
	return fn(ctx)
}

// loadForVendor loads a booking and its station and checks the vendor owns it.
func (s *DefaultBookingService) loadForVendor(ctx context.Context, principal models.Principal, bookingID string) (*models.Booking, *models.ServiceStation, error) {
	b, err := s.Repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, StoreError(err, "booking not found")
	}
	st, err := s.Repos.Stations.GetByID(ctx, b.StationID)
	if err != nil {
		return nil, nil, StoreError(err, "service station not found")
	}
	if st.OwnerID != principal.ID {
		return nil, nil, NewError(ErrForbidden, "booking belongs to another station")
	}
	return b, st, nil
}

func (s *DefaultBookingService) statusStep(id string, from, to models.BookingStatus, out **models.Booking) step {
	return step{
		name: "set status " + string(to),
		do: func(ctx context.Context) error {
			updated, err := s.Repos.Bookings.CompareAndSetStatus(ctx, id, from, to)
			if err != nil {
				return err
			}
			*out = updated
			return nil
		},
		undo: func(ctx context.Context) error {
			_, err := s.Repos.Bookings.CompareAndSetStatus(ctx, id, to, from)
			return err
		},
	}
}

func (s *DefaultBookingService) auditStep(actor models.Principal, b *models.Booking, from, to string) step {
	return step{
		name: "audit " + to,
		do: func(ctx context.Context) error {
			return s.Repos.Events.Append(ctx, models.BookingEvent{
				BookingID: b.ID,
				StationID: b.StationID,
				ClientID:  b.ClientID,
				From:      from,
				To:        to,
				ActorID:   actor.ID,
				CreatedAt: s.Now(),
			})
		},
	}
}

// emit publishes an event after the transition committed. Failures are logged and
// never undo the transition.
func (s *DefaultBookingService) emit(ctx context.Context, name string, to models.Recipient, payload models.NotificationPayload) {
	if s.Notifier == nil {
		return
	}
	n := models.Notification{
		ID:         uuid.New().String(),
		Name:       name,
		Recipient:  to,
		Payload:    payload,
		OccurredAt: s.Now(),
	}
	if err := s.Notifier.Emit(context.WithoutCancel(ctx), n); err != nil {
		s.Logger.Error("failed to publish booking event",
			zap.String("event", name),
			zap.String("bookingID", payload.Booking.ID),
			zap.String("recipient", to.ID),
			zap.Error(err))
	}
}
