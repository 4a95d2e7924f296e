package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vehiclecare/database"
	stationRepo "vehiclecare/database/repository/station"
	"vehiclecare/models"
)

type StationRepo struct {
	s *Store
}

var _ stationRepo.StationRepository = (*StationRepo)(nil)

func (r *StationRepo) Create(ctx context.Context, station *models.ServiceStation) error {
	done, err := r.s.begin(ctx, "stations.Create")
	if err != nil {
		return err
	}
	defer done()

	if _, ok := r.s.stations[station.ID]; ok {
		return fmt.Errorf("failed to create station: %w", database.ErrDuplicate)
	}
	for _, st := range r.s.stations {
		if st.OwnerID == station.OwnerID {
			return fmt.Errorf("failed to create station: %w", database.ErrDuplicate)
		}
	}
	if station.PendingBookings == nil {
		station.PendingBookings = []string{}
	}
	if station.ActiveProcess == nil {
		station.ActiveProcess = []string{}
	}
	r.s.stations[station.ID] = cloneStation(*station)
	return nil
}

func (r *StationRepo) GetByID(ctx context.Context, id string) (*models.ServiceStation, error) {
	done, err := r.s.begin(ctx, "stations.GetByID")
	if err != nil {
		return nil, err
	}
	defer done()

	st, ok := r.s.stations[id]
	if !ok {
		return nil, fmt.Errorf("failed to fetch station: %w", database.ErrNotFound)
	}
	st = cloneStation(st)
	return &st, nil
}

func (r *StationRepo) GetByOwner(ctx context.Context, ownerID string) (*models.ServiceStation, error) {
	done, err := r.s.begin(ctx, "stations.GetByOwner")
	if err != nil {
		return nil, err
	}
	defer done()

	for _, st := range r.s.stations {
		if st.OwnerID == ownerID {
			st = cloneStation(st)
			return &st, nil
		}
	}
	return nil, fmt.Errorf("failed to fetch station: %w", database.ErrNotFound)
}

func (r *StationRepo) List(ctx context.Context, approved bool) ([]models.ServiceStation, error) {
	done, err := r.s.begin(ctx, "stations.List")
	if err != nil {
		return nil, err
	}
	defer done()

	out := []models.ServiceStation{}
	for _, st := range r.s.stations {
		if st.Approved == approved {
			out = append(out, cloneStation(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *StationRepo) UpdateProfile(ctx context.Context, id string, input models.StationInput) (*models.ServiceStation, error) {
	return r.update(ctx, "stations.UpdateProfile", id, func(st *models.ServiceStation) {
		st.Name = input.Name
		st.Area = input.Area
		st.Vehicles = append([]string(nil), input.Vehicles...)
		st.Services = append([]string(nil), input.Services...)
		if input.Location != nil {
			loc := *input.Location
			st.Location = &loc
		}
	})
}

func (r *StationRepo) SetStatus(ctx context.Context, id string, status models.StationStatus) (*models.ServiceStation, error) {
	return r.update(ctx, "stations.SetStatus", id, func(st *models.ServiceStation) { st.Status = status })
}

func (r *StationRepo) SetApproved(ctx context.Context, id string, approved bool) (*models.ServiceStation, error) {
	return r.update(ctx, "stations.SetApproved", id, func(st *models.ServiceStation) { st.Approved = approved })
}

func (r *StationRepo) Delete(ctx context.Context, id string) error {
	done, err := r.s.begin(ctx, "stations.Delete")
	if err != nil {
		return err
	}
	defer done()

	if _, ok := r.s.stations[id]; !ok {
		return fmt.Errorf("station with id %s: %w", id, database.ErrNotFound)
	}
	delete(r.s.stations, id)
	return nil
}

func (r *StationRepo) AddToList(ctx context.Context, id string, list models.StationList, bookingID string) error {
	_, err := r.update(ctx, "stations.AddToList", id, func(st *models.ServiceStation) {
		ids := st.List(list)
		if !contains(ids, bookingID) {
			setList(st, list, append(ids, bookingID))
		}
	}, list)
	return err
}

func (r *StationRepo) RemoveFromList(ctx context.Context, id string, list models.StationList, bookingID string) error {
	_, err := r.update(ctx, "stations.RemoveFromList", id, func(st *models.ServiceStation) {
		setList(st, list, without(st.List(list), bookingID))
	}, list)
	return err
}

func (r *StationRepo) MoveBetweenLists(ctx context.Context, id string, from, to models.StationList, bookingID string) error {
	if !from.IsValid() || !to.IsValid() || from == to {
		return fmt.Errorf("invalid list move %q -> %q", from, to)
	}
	done, err := r.s.begin(ctx, "stations.MoveBetweenLists")
	if err != nil {
		return err
	}
	defer done()

	st, ok := r.s.stations[id]
	if !ok {
		return fmt.Errorf("failed to fetch station: %w", database.ErrNotFound)
	}
	if contains(st.List(to), bookingID) {
		return fmt.Errorf("booking %s already in %s of station %s: %w", bookingID, to, id, database.ErrConflict)
	}
	setList(&st, from, without(st.List(from), bookingID))
	setList(&st, to, append(append([]string{}, st.List(to)...), bookingID))
	st.UpdatedAt = time.Now().UTC()
	r.s.stations[id] = st
	return nil
}

func (r *StationRepo) ListContains(ctx context.Context, id string, list models.StationList, bookingID string) (bool, error) {
	done, err := r.s.begin(ctx, "stations.ListContains")
	if err != nil {
		return false, err
	}
	defer done()

	st, ok := r.s.stations[id]
	if !ok {
		return false, fmt.Errorf("failed to fetch station: %w", database.ErrNotFound)
	}
	return contains(st.List(list), bookingID), nil
}

func (r *StationRepo) update(ctx context.Context, op, id string, mutate func(*models.ServiceStation), lists ...models.StationList) (*models.ServiceStation, error) {
	for _, l := range lists {
		if !l.IsValid() {
			return nil, fmt.Errorf("unknown station list %q", l)
		}
	}
	done, err := r.s.begin(ctx, op)
	if err != nil {
		return nil, err
	}
	defer done()

	st, ok := r.s.stations[id]
	if !ok {
		return nil, fmt.Errorf("failed to update station with id %s: %w", id, database.ErrNotFound)
	}
	st = cloneStation(st)
	mutate(&st)
	st.UpdatedAt = time.Now().UTC()
	r.s.stations[id] = st

	out := cloneStation(st)
	return &out, nil
}

func setList(st *models.ServiceStation, list models.StationList, ids []string) {
	switch list {
	case models.ListPendingBookings:
		st.PendingBookings = ids
	case models.ListActiveProcess:
		st.ActiveProcess = ids
	}
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
