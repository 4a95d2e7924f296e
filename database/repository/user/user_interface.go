package userRepo

import (
	"context"

	"vehiclecare/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for principal directory access.
type UserRepository interface {
	// GetByID retrieves a principal by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Principal, error)
	// GetByIDWithProjection retrieves a principal with a projection; nil returns
	// the full document.
	GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.Principal, error)
	// GetAll retrieves all principals, optionally restricted to one role.
	GetAll(ctx context.Context, role models.Role) ([]models.Principal, error)
	// Upsert creates or refreshes a directory entry.
	Upsert(ctx context.Context, principal *models.Principal) error
	// Delete removes a principal by its ID.
	Delete(ctx context.Context, id string) error
}
