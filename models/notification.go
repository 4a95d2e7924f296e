package models

import "time"

// Realtime event names. They match what the web client subscribes to.
const (
	EventBookingRequestedToVendor = "BookingRequestedToVendor"
	EventBookingDecisionToClient  = "HandledBookingRequestResponseToClient"
	EventProcessUpdated           = "processUpdated"
)

// Recipient addresses a notification to one principal.
type Recipient struct {
	Role Role   `json:"role"`
	ID   string `json:"id"`
}

// NotificationPayload is the body delivered with every booking event. Decisions set
// IsApproved, process updates set Status, new requests carry a Message.
type NotificationPayload struct {
	Status     BookingStatus `json:"status,omitempty"`
	IsApproved *bool         `json:"isApproved,omitempty"`
	Message    string        `json:"msg,omitempty"`
	Booking    Booking       `json:"booking"`
}

// Notification is a single real-time event.
type Notification struct {
	ID         string              `json:"id"`
	Name       string              `json:"event"`
	Recipient  Recipient           `json:"recipient"`
	Payload    NotificationPayload `json:"payload"`
	OccurredAt time.Time           `json:"occurredAt"`
}
