package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vehiclecare/database"
	"vehiclecare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStation(t *testing.T, s *Store) *models.ServiceStation {
	t.Helper()
	st := &models.ServiceStation{ID: "st-1", Name: "Quick Lube", OwnerID: "vendor-1", Status: models.StationOpen, Approved: true}
	require.NoError(t, s.Stations().Create(context.Background(), st))
	return st
}

func TestBookingCompareAndSetStatus(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	b := &models.Booking{ID: "b-1", ClientID: "c-1", StationID: "st-1", Status: models.StatusRequested, CreatedAt: time.Now()}
	require.NoError(t, s.Bookings().Create(ctx, b))

	updated, err := s.Bookings().CompareAndSetStatus(ctx, "b-1", models.StatusRequested, models.StatusWaiting)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, updated.Status)
	assert.True(t, updated.IsApproved)
	assert.False(t, updated.IsCompleted)

	_, err = s.Bookings().CompareAndSetStatus(ctx, "b-1", models.StatusRequested, models.StatusWaiting)
	assert.ErrorIs(t, err, database.ErrConflict)

	_, err = s.Bookings().CompareAndSetStatus(ctx, "missing", models.StatusRequested, models.StatusWaiting)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestBookingDuplicateKeyOnlyWhileRequested(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	newBooking := func(id string) *models.Booking {
		return &models.Booking{
			ID: id, ClientID: "c-1", StationID: "st-1", ContactNo: "0700",
			Vehicle:      models.Vehicle{Type: "car", Make: "Toyota", Model: "Vitz", PlateNumber: "KAA123"},
			ServiceTypes: []string{"wash"}, Status: models.StatusRequested,
		}
	}
	require.NoError(t, s.Bookings().Create(ctx, newBooking("b-1")))
	assert.ErrorIs(t, s.Bookings().Create(ctx, newBooking("b-2")), database.ErrDuplicate)

	_, err := s.Bookings().CompareAndSetStatus(ctx, "b-1", models.StatusRequested, models.StatusWaiting)
	require.NoError(t, err)
	assert.NoError(t, s.Bookings().Create(ctx, newBooking("b-3")))
}

func TestStationListOperations(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedStation(t, s)
	repo := s.Stations()

	require.NoError(t, repo.AddToList(ctx, "st-1", models.ListPendingBookings, "b-1"))
	require.NoError(t, repo.AddToList(ctx, "st-1", models.ListPendingBookings, "b-1"))
	st, err := repo.GetByID(ctx, "st-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b-1"}, st.PendingBookings)

	require.NoError(t, repo.MoveBetweenLists(ctx, "st-1", models.ListPendingBookings, models.ListActiveProcess, "b-1"))
	st, _ = repo.GetByID(ctx, "st-1")
	assert.Empty(t, st.PendingBookings)
	assert.Equal(t, []string{"b-1"}, st.ActiveProcess)

	err = repo.MoveBetweenLists(ctx, "st-1", models.ListPendingBookings, models.ListActiveProcess, "b-1")
	assert.ErrorIs(t, err, database.ErrConflict)

	require.NoError(t, repo.RemoveFromList(ctx, "st-1", models.ListActiveProcess, "b-1"))
	ok, err := repo.ListContains(ctx, "st-1", models.ListActiveProcess, "b-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, repo.AddToList(ctx, "missing", models.ListPendingBookings, "b-1"), database.ErrNotFound)
}

func TestStationOnePerOwner(t *testing.T) {
	s := NewStore()
	seedStation(t, s)
	err := s.Stations().Create(context.Background(), &models.ServiceStation{ID: "st-2", OwnerID: "vendor-1"})
	assert.ErrorIs(t, err, database.ErrDuplicate)
}

func TestConcurrentAddToListKeepsEveryID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedStation(t, s)

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, s.Stations().AddToList(ctx, "st-1", models.ListPendingBookings, id))
		}(id)
	}
	wg.Wait()

	st, err := s.Stations().GetByID(ctx, "st-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, st.PendingBookings)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedStation(t, s)
	require.NoError(t, s.Bookings().Create(ctx, &models.Booking{ID: "b-1", StationID: "st-1", Status: models.StatusRequested}))

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Bookings().CompareAndSetStatus(ctx, "b-1", models.StatusRequested, models.StatusWaiting); err != nil {
			return err
		}
		if err := s.Stations().AddToList(ctx, "st-1", models.ListPendingBookings, "b-1"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	b, err := s.Bookings().GetByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRequested, b.Status)
	st, _ := s.Stations().GetByID(ctx, "st-1")
	assert.Empty(t, st.PendingBookings)
}

func TestWithoutTransactionsKeepsPartialWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithoutTransactions())
	require.NoError(t, s.Bookings().Create(ctx, &models.Booking{ID: "b-1", Status: models.StatusRequested}))
	assert.False(t, s.Transactional())

	_ = s.WithTransaction(ctx, func(ctx context.Context) error {
		_, _ = s.Bookings().CompareAndSetStatus(ctx, "b-1", models.StatusRequested, models.StatusWaiting)
		return errors.New("late failure")
	})
	b, err := s.Bookings().GetByID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, b.Status)
}

func TestFailNextIsOneShot(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedStation(t, s)
	boom := errors.New("store down")
	s.FailNext("stations.GetByID", boom)

	_, err := s.Stations().GetByID(ctx, "st-1")
	assert.ErrorIs(t, err, boom)
	_, err = s.Stations().GetByID(ctx, "st-1")
	assert.NoError(t, err)
}
