package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vehiclecare/database"
	userRepo "vehiclecare/database/repository/user"
	"vehiclecare/models"

	"go.mongodb.org/mongo-driver/bson"
)

type UserRepo struct {
	s *Store
}

var _ userRepo.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.Principal, error) {
	return r.GetByIDWithProjection(ctx, id, nil)
}

// GetByIDWithProjection honours exclusion of fcmToken only; other projections
// return the full record.
func (r *UserRepo) GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.Principal, error) {
	done, err := r.s.begin(ctx, "users.GetByID")
	if err != nil {
		return nil, err
	}
	defer done()

	p, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, database.ErrNotFound)
	}
	if v, ok := projection["fcmToken"]; ok && v == 0 {
		p.FCMToken = ""
	}
	return &p, nil
}

func (r *UserRepo) GetAll(ctx context.Context, role models.Role) ([]models.Principal, error) {
	done, err := r.s.begin(ctx, "users.GetAll")
	if err != nil {
		return nil, err
	}
	defer done()

	out := []models.Principal{}
	for _, p := range r.s.users {
		if role != "" && p.Role != role {
			continue
		}
		p.FCMToken = ""
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) Upsert(ctx context.Context, principal *models.Principal) error {
	done, err := r.s.begin(ctx, "users.Upsert")
	if err != nil {
		return err
	}
	defer done()

	if principal.CreatedAt.IsZero() {
		principal.CreatedAt = time.Now().UTC()
	}
	p := *principal
	if existing, ok := r.s.users[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
		if p.FCMToken == "" {
			p.FCMToken = existing.FCMToken
		}
	}
	r.s.users[p.ID] = p
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	done, err := r.s.begin(ctx, "users.Delete")
	if err != nil {
		return err
	}
	defer done()

	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("user with id %s: %w", id, database.ErrNotFound)
	}
	delete(r.s.users, id)
	return nil
}
