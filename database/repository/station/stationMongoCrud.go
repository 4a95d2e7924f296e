package stationRepo

import (
	"context"
	"fmt"
	"time"

	"vehiclecare/database"
	"vehiclecare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new station document.
func (r *MongoStationRepo) Create(ctx context.Context, station *models.ServiceStation) error {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	if station.PendingBookings == nil {
		station.PendingBookings = []string{}
	}
	if station.ActiveProcess == nil {
		station.ActiveProcess = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, station); err != nil {
		return fmt.Errorf("failed to create station: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoStationRepo) GetByID(ctx context.Context, id string) (*models.ServiceStation, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoStationRepo) GetByOwner(ctx context.Context, ownerID string) (*models.ServiceStation, error) {
	return r.findOne(ctx, bson.M{"ownerId": ownerID})
}

func (r *MongoStationRepo) findOne(ctx context.Context, filter bson.M) (*models.ServiceStation, error) {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	var station models.ServiceStation
	if err := r.coll.FindOne(ctx, filter).Decode(&station); err != nil {
		return nil, fmt.Errorf("failed to fetch station: %w", database.Translate(err))
	}
	return &station, nil
}

func (r *MongoStationRepo) List(ctx context.Context, approved bool) ([]models.ServiceStation, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"approved": approved}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve stations: %w", err)
	}
	defer cursor.Close(ctx)

	stations := []models.ServiceStation{}
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, fmt.Errorf("failed to decode stations: %w", err)
	}
	return stations, nil
}

func (r *MongoStationRepo) UpdateProfile(ctx context.Context, id string, input models.StationInput) (*models.ServiceStation, error) {
	set := bson.M{
		"name":     input.Name,
		"area":     input.Area,
		"vehicles": input.Vehicles,
		"services": input.Services,
	}
	if input.Location != nil {
		set["location"] = input.Location
	}
	return r.updateSet(ctx, id, set)
}

func (r *MongoStationRepo) SetStatus(ctx context.Context, id string, status models.StationStatus) (*models.ServiceStation, error) {
	return r.updateSet(ctx, id, bson.M{"status": status})
}

func (r *MongoStationRepo) SetApproved(ctx context.Context, id string, approved bool) (*models.ServiceStation, error) {
	return r.updateSet(ctx, id, bson.M{"approved": approved})
}

func (r *MongoStationRepo) updateSet(ctx context.Context, id string, set bson.M) (*models.ServiceStation, error) {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var station models.ServiceStation
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&station)
	if err != nil {
		return nil, fmt.Errorf("failed to update station with id %s: %w", id, database.Translate(err))
	}
	return &station, nil
}

func (r *MongoStationRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete station with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("station with id %s: %w", id, database.ErrNotFound)
	}
	return nil
}
