package user

import (
	"context"
	"strings"

	"vehiclecare/models"
	"vehiclecare/services/booking"

	"go.mongodb.org/mongo-driver/bson"
)

// ResolvePrincipal loads the principal and checks the role the token claims is
// the role on record.
func (s *DefaultUserService) ResolvePrincipal(ctx context.Context, id string, role models.Role) (*models.Principal, error) {
	p, err := s.Repo.GetByIDWithProjection(ctx, id, bson.M{"fcmToken": 0})
	if err != nil {
		return nil, booking.StoreError(err, "principal not found")
	}
	if p.Role != role {
		return nil, booking.NewError(booking.ErrForbidden, "token role does not match account")
	}
	return p, nil
}

// RegisterDevice stores the FCM token push notifications are sent to.
func (s *DefaultUserService) RegisterDevice(ctx context.Context, principal models.Principal, fcmToken string) error {
	fcmToken = strings.TrimSpace(fcmToken)
	if fcmToken == "" {
		return booking.NewError(booking.ErrValidation, "fcmToken is required")
	}
	principal.FCMToken = fcmToken
	if err := s.Repo.Upsert(ctx, &principal); err != nil {
		return booking.StoreError(err, "principal not found")
	}
	return nil
}

func (s *DefaultUserService) ListUsers(ctx context.Context, role models.Role) ([]models.Principal, error) {
	if role != "" && !role.IsValid() {
		return nil, booking.NewError(booking.ErrValidation, "unknown role "+string(role))
	}
	users, err := s.Repo.GetAll(ctx, role)
	if err != nil {
		return nil, booking.StoreError(err, "principal not found")
	}
	return users, nil
}

func (s *DefaultUserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return booking.StoreError(err, "user not found")
	}
	return nil
}
