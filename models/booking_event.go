// File: models/booking_event.go
package models

import "time"

// BookingEvent is one row of a booking's audit trail. A denied booking leaves a
// final event with To set to EventDenied even though the booking itself is removed.
type BookingEvent struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	StationID string    `bson:"stationId" json:"stationId"`
	ClientID  string    `bson:"clientId" json:"clientId"`
	From      string    `bson:"from" json:"from"`
	To        string    `bson:"to" json:"to"`
	ActorID   string    `bson:"actorId" json:"actorId"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

const (
	EventCreated = "Created"
	EventDenied  = "Denied"
)
