package bookingRepo

import (
	"context"
	"errors"
	"fmt"

	"vehiclecare/database"
	"vehiclecare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindPendingDuplicate looks up a Requested booking by duplicate key. It returns
// (nil, nil) when there is none.
func (r *MongoBookingRepo) FindPendingDuplicate(ctx context.Context, key string) (*models.Booking, error) {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	filter := bson.M{"duplicateKey": key, "status": models.StatusRequested}
	var booking models.Booking
	err := r.coll.FindOne(ctx, filter).Decode(&booking)
	if errors.Is(database.Translate(err), database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("duplicate lookup failed: %w", err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) ListByStation(ctx context.Context, stationID string, statuses ...models.BookingStatus) ([]models.Booking, error) {
	filter := bson.M{"stationId": stationID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MongoBookingRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Booking, error) {
	if len(ids) == 0 {
		return []models.Booking{}, nil
	}
	found, err := r.find(ctx, bson.M{"id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}

	// $in does not preserve order; the station lists are ordered.
	byID := make(map[string]models.Booking, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}
	ordered := make([]models.Booking, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered, nil
}

func (r *MongoBookingRepo) ListByClient(ctx context.Context, clientID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"clientId": clientID}, opts)
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
