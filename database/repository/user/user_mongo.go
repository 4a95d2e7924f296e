package userRepo

import (
	"context"
	"fmt"
	"time"

	"vehiclecare/database"
	"vehiclecare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database) UserRepository {
	repo := &MongoUserRepo{coll: db.Collection("users")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := database.NewContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByIDWithProjection retrieves a principal by its unique ID using a projection.
// Pass nil for projection to retrieve the full document.
func (r *MongoUserRepo) GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.Principal, error) {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var principal models.Principal
	if err := r.coll.FindOne(ctx, bson.M{"id": id}, opts).Decode(&principal); err != nil {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, database.Translate(err))
	}
	return &principal, nil
}

// GetByID retrieves a principal by its unique ID (full document).
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.Principal, error) {
	return r.GetByIDWithProjection(ctx, id, nil)
}

func (r *MongoUserRepo) GetAll(ctx context.Context, role models.Role) ([]models.Principal, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	opts := options.Find().SetProjection(bson.M{"fcmToken": 0})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.Principal{}
	for cursor.Next(ctx) {
		var u models.Principal
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, u)
	}
	return users, cursor.Err()
}

func (r *MongoUserRepo) Upsert(ctx context.Context, principal *models.Principal) error {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	if principal.CreatedAt.IsZero() {
		principal.CreatedAt = time.Now().UTC()
	}
	update := bson.M{
		"$set": bson.M{
			"role":  principal.Role,
			"name":  principal.Name,
			"email": principal.Email,
		},
		"$setOnInsert": bson.M{"id": principal.ID, "createdAt": principal.CreatedAt},
	}
	if principal.FCMToken != "" {
		update["$set"].(bson.M)["fcmToken"] = principal.FCMToken
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": principal.ID}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", principal.ID, err)
	}
	return nil
}

// Delete removes a principal document by its ID.
func (r *MongoUserRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user with id %s: %w", id, database.ErrNotFound)
	}
	return nil
}
