package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vehiclecare/database"
	"vehiclecare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	booking.Normalize()
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", database.Translate(err))
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, database.Translate(err))
	}
	return &booking, nil
}

// Delete removes a booking record from the database.
func (r *MongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting booking %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *MongoBookingRepo) DeleteWithStatus(ctx context.Context, id string, status models.BookingStatus) error {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "status": status})
	if err != nil {
		return fmt.Errorf("error deleting booking %s: %w", id, err)
	}
	if result.DeletedCount > 0 {
		return nil
	}
	return r.missOrConflict(ctx, id, status)
}

// CompareAndSetStatus updates status and the derived flags in one conditional write.
func (r *MongoBookingRepo) CompareAndSetStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{
		"status":      to,
		"isApproved":  to.IsApproved(),
		"isCompleted": to.IsCompleted(),
		"updatedAt":   time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(database.Translate(err), database.ErrNotFound) {
		return nil, fmt.Errorf("error updating booking %s status: %w", id, err)
	}

	return nil, r.missOrConflict(ctx, id, from)
}

// missOrConflict explains a conditional write that matched nothing: either the
// booking is gone or its status moved on.
func (r *MongoBookingRepo) missOrConflict(ctx context.Context, id string, expected models.BookingStatus) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error checking booking %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	return fmt.Errorf("booking %s is no longer %s: %w", id, expected, database.ErrConflict)
}
