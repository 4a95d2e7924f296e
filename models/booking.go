package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Vehicle describes the vehicle a booking is made for.
type Vehicle struct {
	Type        string `bson:"type" json:"vehicleType"`
	Make        string `bson:"make" json:"vehicleMake"`
	Model       string `bson:"model" json:"vehicleModel"`
	PlateNumber string `bson:"plateNumber" json:"vehicleNo"`
}

// Booking is a client's request for service at one station.
// IsApproved and IsCompleted are stored for query convenience only; they are always
// derived from Status through Normalize.
type Booking struct {
	ID               string        `bson:"id" json:"id"`
	Vehicle          Vehicle       `bson:"vehicle" json:"vehicle"`
	ContactNo        string        `bson:"contactNo" json:"contactNo"`
	ServiceTypes     []string      `bson:"serviceTypes" json:"serviceTypes"`
	ClientID         string        `bson:"clientId" json:"clientId"`
	StationID        string        `bson:"stationId" json:"stationId"`
	Status           BookingStatus `bson:"status" json:"status"`
	IsApproved       bool          `bson:"isApproved" json:"isApproved"`
	IsCompleted      bool          `bson:"isCompleted" json:"isCompleted"`
	DuplicateKey     string        `bson:"duplicateKey" json:"-"`
	CreatedAt        time.Time     `bson:"createdAt" json:"createdAt"`
	EstimatedStartAt *time.Time    `bson:"estimatedStartAt,omitempty" json:"estimatedStartAt,omitempty"`
	UpdatedAt        time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Normalize recomputes the derived flags and the duplicate key.
func (b *Booking) Normalize() {
	b.IsApproved = b.Status.IsApproved()
	b.IsCompleted = b.Status.IsCompleted()
	b.DuplicateKey = b.ComputeDuplicateKey()
}

// ComputeDuplicateKey identifies "the same request": every booking field plus the
// client and the station. Service types are compared as a set. The tuple is JSON
// encoded before hashing so no field value can bleed into its neighbour.
func (b *Booking) ComputeDuplicateKey() string {
	services := append([]string(nil), b.ServiceTypes...)
	for i := range services {
		services[i] = strings.ToLower(services[i])
	}
	sort.Strings(services)

	tuple := struct {
		ClientID  string   `json:"c"`
		StationID string   `json:"s"`
		Type      string   `json:"t"`
		Make      string   `json:"mk"`
		Model     string   `json:"md"`
		Plate     string   `json:"p"`
		Contact   string   `json:"n"`
		Services  []string `json:"sv"`
	}{
		ClientID:  b.ClientID,
		StationID: b.StationID,
		Type:      strings.ToLower(b.Vehicle.Type),
		Make:      strings.ToLower(b.Vehicle.Make),
		Model:     strings.ToLower(b.Vehicle.Model),
		Plate:     strings.ToUpper(b.Vehicle.PlateNumber),
		Contact:   b.ContactNo,
		Services:  services,
	}
	// Marshalling a struct of strings cannot fail.
	raw, _ := json.Marshal(tuple)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// BookingInput is the client-supplied part of a booking request.
type BookingInput struct {
	VehicleType      string     `json:"vehicleType" binding:"required"`
	VehicleMake      string     `json:"vehicleMake" binding:"required"`
	VehicleModel     string     `json:"vehicleModel" binding:"required"`
	VehicleNo        string     `json:"vehicleNo" binding:"required"`
	ContactNo        string     `json:"contactNo" binding:"required"`
	ServiceTypes     []string   `json:"serviceType" binding:"required,min=1,dive,required"`
	StationID        string     `json:"serviceStationId" binding:"required"`
	EstimatedStartAt *time.Time `json:"estimatedStartAt,omitempty"`
}
