package user

import (
	"context"

	userRepo "vehiclecare/database/repository/user"
	"vehiclecare/models"
)

// UserService is the principal directory used by the API.
type UserService interface {
	// ResolvePrincipal turns a verified token subject into a directory entry.
	ResolvePrincipal(ctx context.Context, id string, role models.Role) (*models.Principal, error)
	RegisterDevice(ctx context.Context, principal models.Principal, fcmToken string) error

	// Admin
	ListUsers(ctx context.Context, role models.Role) ([]models.Principal, error)
	DeleteUser(ctx context.Context, id string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}

func NewUserService(repo userRepo.UserRepository) *DefaultUserService {
	return &DefaultUserService{Repo: repo}
}
