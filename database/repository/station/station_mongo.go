package stationRepo

import (
	"context"
	"fmt"
	"time"

	"vehiclecare/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStationRepo implements StationRepository using MongoDB.
type MongoStationRepo struct {
	coll *mongo.Collection
}

// NewMongoStationRepo creates a StationRepository on the "servicestations" collection.
func NewMongoStationRepo(db *mongo.Database) StationRepository {
	repo := &MongoStationRepo{coll: db.Collection("servicestations")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create station indexes: %v\n", err)
	}
	return repo
}

func (r *MongoStationRepo) ensureIndexes() error {
	ctx, cancel := database.NewContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// one station per vendor
		{Keys: bson.D{{Key: "ownerId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "approved", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "area", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}, Options: options.Index().SetSparse(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
