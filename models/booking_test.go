package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDuplicateKey(t *testing.T) {
	base := Booking{
		ClientID:     "client-1",
		StationID:    "station-1",
		Vehicle:      Vehicle{Type: "Car", Make: "Toyota", Model: "Corolla", PlateNumber: "kdd123a"},
		ContactNo:    "+254700000001",
		ServiceTypes: []string{"Wash", "Oil Change"},
	}

	same := base
	same.Vehicle.Make = "TOYOTA"
	same.Vehicle.PlateNumber = "KDD123A"
	same.ServiceTypes = []string{"oil change", "wash"}
	assert.Equal(t, base.ComputeDuplicateKey(), same.ComputeDuplicateKey())

	shifted := base
	shifted.Vehicle.Make = "Toyota|Corolla"
	shifted.Vehicle.Model = "X"
	other := base
	other.Vehicle.Make = "Toyota"
	other.Vehicle.Model = "Corolla|X"
	assert.NotEqual(t, shifted.ComputeDuplicateKey(), other.ComputeDuplicateKey())

	joined := base
	joined.ServiceTypes = []string{"Oil Change,Wash"}
	assert.NotEqual(t, base.ComputeDuplicateKey(), joined.ComputeDuplicateKey())
}

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{StatusRequested, StatusWaiting, true},
		{StatusWaiting, StatusActive, true},
		{StatusActive, StatusCompleted, true},
		{StatusRequested, StatusActive, false},
		{StatusWaiting, StatusWaiting, false},
		{StatusCompleted, StatusWaiting, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.True(t, StatusCompleted.IsTerminal())

	s, err := ParseBookingStatus(" unapproved ")
	assert.NoError(t, err)
	assert.Equal(t, StatusRequested, s)
	_, err = ParseBookingStatus("Paused")
	assert.Error(t, err)
}
