package models

import (
	"fmt"
	"strings"
)

// BookingStatus is the single source of truth for where a booking sits in its lifecycle.
type BookingStatus string

const (
	StatusRequested BookingStatus = "Requested"
	StatusWaiting   BookingStatus = "Waiting"
	StatusActive    BookingStatus = "Active"
	StatusCompleted BookingStatus = "Completed"
)

// legacyRequested is the value older clients send for a booking awaiting a decision.
const legacyRequested = "unapproved"

// validTransitions is the booking state machine. Denial is not a status: a denied
// booking is removed from the store.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusRequested: {StatusWaiting},
	StatusWaiting:   {StatusActive},
	StatusActive:    {StatusCompleted},
	StatusCompleted: {},
}

// IsValid reports whether s is a known status.
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Next returns the status a vendor advance moves s into.
func (s BookingStatus) Next() (BookingStatus, bool) {
	next := validTransitions[s]
	if len(next) != 1 {
		return "", false
	}
	return next[0], true
}

// IsTerminal reports whether no further transition is possible from s.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsApproved is true once a vendor has accepted the booking.
func (s BookingStatus) IsApproved() bool {
	switch s {
	case StatusWaiting, StatusActive, StatusCompleted:
		return true
	}
	return false
}

func (s BookingStatus) IsCompleted() bool {
	return s == StatusCompleted
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus accepts the canonical names case-insensitively as well as the
// legacy "unapproved" spelling of Requested.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	v := strings.TrimSpace(raw)
	if strings.EqualFold(v, legacyRequested) {
		return StatusRequested, nil
	}
	for s := range validTransitions {
		if strings.EqualFold(v, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid booking status: %q", raw)
}
