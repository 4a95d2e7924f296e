// Package memory holds in-process implementations of the repositories. They keep
// the same semantics as the Mongo ones and back tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"vehiclecare/database"
	"vehiclecare/models"
)

type txKey struct{}

// Store owns every collection. One mutex guards all of them; a transaction holds it
// for its whole duration and restores a snapshot when fn fails.
type Store struct {
	mu            sync.Mutex
	transactional bool

	bookings map[string]models.Booking
	stations map[string]models.ServiceStation
	users    map[string]models.Principal
	events   []models.BookingEvent

	faults map[string]error
}

// Option configures a Store.
type Option func(*Store)

// WithoutTransactions makes the store behave like a standalone Mongo node:
// WithTransaction runs fn step by step and nothing is rolled back.
func WithoutTransactions() Option {
	return func(s *Store) { s.transactional = false }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		transactional: true,
		bookings:      make(map[string]models.Booking),
		stations:      make(map[string]models.ServiceStation),
		users:         make(map[string]models.Principal),
		faults:        make(map[string]error),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bookings, Stations, Users and Events expose the store through the repository interfaces.
func (s *Store) Bookings() *BookingRepo { return &BookingRepo{s: s} }
func (s *Store) Stations() *StationRepo { return &StationRepo{s: s} }
func (s *Store) Users() *UserRepo       { return &UserRepo{s: s} }
func (s *Store) Events() *EventRepo     { return &EventRepo{s: s} }

// FailNext makes the next call of op (e.g. "stations.MoveBetweenLists") return err.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

func (s *Store) Transactional() bool {
	return s.transactional
}

var _ database.TxRunner = (*Store)(nil)

func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactional || s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// begin locks the store unless ctx already runs inside one of its transactions, and
// consumes a pending fault for op.
func (s *Store) begin(ctx context.Context, op string) (func(), error) {
	release := func() {}
	if !s.inTx(ctx) {
		s.mu.Lock()
		release = s.mu.Unlock
	}
	if err := ctx.Err(); err != nil {
		release()
		return nil, err
	}
	if err, ok := s.faults[op]; ok {
		delete(s.faults, op)
		release()
		return nil, err
	}
	return release, nil
}

type snapshot struct {
	bookings map[string]models.Booking
	stations map[string]models.ServiceStation
	users    map[string]models.Principal
	events   []models.BookingEvent
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		bookings: make(map[string]models.Booking, len(s.bookings)),
		stations: make(map[string]models.ServiceStation, len(s.stations)),
		users:    make(map[string]models.Principal, len(s.users)),
		events:   append([]models.BookingEvent(nil), s.events...),
	}
	for k, v := range s.bookings {
		snap.bookings[k] = cloneBooking(v)
	}
	for k, v := range s.stations {
		snap.stations[k] = cloneStation(v)
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.bookings = snap.bookings
	s.stations = snap.stations
	s.users = snap.users
	s.events = snap.events
}

func cloneBooking(b models.Booking) models.Booking {
	b.ServiceTypes = append([]string(nil), b.ServiceTypes...)
	if b.EstimatedStartAt != nil {
		t := *b.EstimatedStartAt
		b.EstimatedStartAt = &t
	}
	return b
}

func cloneStation(st models.ServiceStation) models.ServiceStation {
	st.Vehicles = append([]string(nil), st.Vehicles...)
	st.Services = append([]string(nil), st.Services...)
	st.PendingBookings = append([]string{}, st.PendingBookings...)
	st.ActiveProcess = append([]string{}, st.ActiveProcess...)
	if st.Location != nil {
		loc := *st.Location
		loc.Coordinates = append([]float64(nil), loc.Coordinates...)
		st.Location = &loc
	}
	return st
}
