package repository

import (
	"vehiclecare/database"
	bookingRepo "vehiclecare/database/repository/booking"
	eventsRepo "vehiclecare/database/repository/events"
	"vehiclecare/database/repository/memory"
	stationRepo "vehiclecare/database/repository/station"
	userRepo "vehiclecare/database/repository/user"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the repository interfaces.
type (
	BookingRepository = bookingRepo.BookingRepository
	StationRepository = stationRepo.StationRepository
	UserRepository    = userRepo.UserRepository
	EventRepository   = eventsRepo.EventRepository
)

// Repositories bundles every store the services need.
type Repositories struct {
	Bookings BookingRepository
	Stations StationRepository
	Users    UserRepository
	Events   EventRepository
	Tx       database.TxRunner
}

// NewMongoRepositories builds all repositories on db. transactions selects whether
// booking transitions run inside multi-document transactions.
func NewMongoRepositories(db *mongo.Database, transactions bool) *Repositories {
	return &Repositories{
		Bookings: bookingRepo.NewMongoBookingRepo(db),
		Stations: stationRepo.NewMongoStationRepo(db),
		Users:    userRepo.NewMongoUserRepo(db),
		Events:   eventsRepo.NewMongoEventRepo(db),
		Tx:       database.NewMongoTxRunner(db.Client(), transactions),
	}
}

// NewMemoryRepositories builds all repositories on one in-process store.
func NewMemoryRepositories(opts ...memory.Option) *Repositories {
	store := memory.NewStore(opts...)
	return &Repositories{
		Bookings: store.Bookings(),
		Stations: store.Stations(),
		Users:    store.Users(),
		Events:   store.Events(),
		Tx:       store,
	}
}
