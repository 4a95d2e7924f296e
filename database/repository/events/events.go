package eventsRepo

import (
	"context"
	"fmt"
	"time"

	"vehiclecare/database"
	"vehiclecare/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository stores the audit trail of booking transitions.
type EventRepository interface {
	Append(ctx context.Context, event models.BookingEvent) error
	ListByBooking(ctx context.Context, bookingID string) ([]models.BookingEvent, error)
}

type mongoEventRepo struct {
	coll *mongo.Collection
}

// NewMongoEventRepo returns an EventRepository on the "booking_events" collection.
func NewMongoEventRepo(db *mongo.Database) EventRepository {
	repo := &mongoEventRepo{coll: db.Collection("booking_events")}

	ctx, cancel := database.NewContext(context.Background(), 10*time.Second)
	defer cancel()
	idx := mongo.IndexModel{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "createdAt", Value: 1}}}
	if _, err := repo.coll.Indexes().CreateOne(ctx, idx); err != nil {
		fmt.Printf("failed to create booking event indexes: %v\n", err)
	}
	return repo
}

// Append inserts an event, filling in its ID and timestamp when missing.
func (r *mongoEventRepo) Append(ctx context.Context, event models.BookingEvent) error {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to append booking event: %w", err)
	}
	return nil
}

func (r *mongoEventRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.BookingEvent, error) {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.BookingEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
