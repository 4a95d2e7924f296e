package models

import (
	"strings"
	"time"
)

// StationStatus is whether a station currently accepts booking requests.
type StationStatus string

const (
	StationOpen   StationStatus = "Open"
	StationClosed StationStatus = "Closed"
)

// StationList names one of the two booking reference lists embedded in a station.
type StationList string

const (
	ListPendingBookings StationList = "pendingBookings"
	ListActiveProcess   StationList = "activeProcess"
)

func (l StationList) IsValid() bool {
	return l == ListPendingBookings || l == ListActiveProcess
}

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// ServiceStation is a vendor-owned facility. PendingBookings holds approved bookings
// not yet started, ActiveProcess the ones being serviced; the two never share an id.
type ServiceStation struct {
	ID              string        `bson:"id" json:"id"`
	Name            string        `bson:"name" json:"name"`
	Area            string        `bson:"area" json:"area"`
	Vehicles        []string      `bson:"vehicles" json:"vehicles"`
	Services        []string      `bson:"services" json:"services"`
	Location        *GeoPoint     `bson:"location,omitempty" json:"location,omitempty"`
	Status          StationStatus `bson:"status" json:"status"`
	Approved        bool          `bson:"approved" json:"approved"`
	OwnerID         string        `bson:"ownerId" json:"ownerId"`
	PendingBookings []string      `bson:"pendingBookings" json:"pendingBookings"`
	ActiveProcess   []string      `bson:"activeProcess" json:"activeProcess"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// List returns the ids held in the named list.
func (s *ServiceStation) List(name StationList) []string {
	switch name {
	case ListPendingBookings:
		return s.PendingBookings
	case ListActiveProcess:
		return s.ActiveProcess
	}
	return nil
}

// Serves reports whether the station lists the vehicle type (case-insensitive).
func (s *ServiceStation) Serves(vehicleType string) bool {
	return containsFold(s.Vehicles, vehicleType)
}

// Offers reports whether the station offers the service type (case-insensitive).
func (s *ServiceStation) Offers(service string) bool {
	return containsFold(s.Services, service)
}

// StationInput carries the vendor-editable station profile.
type StationInput struct {
	Name     string    `json:"name" binding:"required"`
	Area     string    `json:"area" binding:"required"`
	Vehicles []string  `json:"vehicles" binding:"required,min=1,dive,required"`
	Services []string  `json:"services" binding:"required,min=1,dive,required"`
	Location *GeoPoint `json:"location,omitempty"`
}

// StationView is a station with its booking lists resolved to full bookings.
type StationView struct {
	ServiceStation
	PendingDetails []Booking `json:"pendingDetails"`
	ActiveDetails  []Booking `json:"activeDetails"`
	UnhandledCount int       `json:"unhandledCount"`
}

func containsFold(values []string, v string) bool {
	for _, x := range values {
		if strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}
