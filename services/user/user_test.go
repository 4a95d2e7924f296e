package user

import (
	"context"
	"testing"

	"vehiclecare/database/repository/memory"
	"vehiclecare/models"
	"vehiclecare/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) (*DefaultUserService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	for _, p := range []models.Principal{
		{ID: "c-1", Role: models.RoleClient, Name: "Wanjiku"},
		{ID: "v-1", Role: models.RoleVendor, Name: "Kamau"},
	} {
		p := p
		require.NoError(t, store.Users().Upsert(context.Background(), &p))
	}
	return NewUserService(store.Users()), store
}

func TestResolvePrincipal(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	p, err := svc.ResolvePrincipal(ctx, "c-1", models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, "Wanjiku", p.Name)

	_, err = svc.ResolvePrincipal(ctx, "c-1", models.RoleAdmin)
	assert.ErrorIs(t, err, booking.ErrForbidden)

	_, err = svc.ResolvePrincipal(ctx, "nobody", models.RoleClient)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestRegisterDeviceKeepsProfile(t *testing.T) {
	svc, store := seeded(t)
	ctx := context.Background()

	require.NoError(t, svc.RegisterDevice(ctx, models.Principal{ID: "v-1", Role: models.RoleVendor, Name: "Kamau"}, " tok-1 "))
	p, err := store.Users().GetByID(ctx, "v-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", p.FCMToken)

	assert.ErrorIs(t, svc.RegisterDevice(ctx, *p, ""), booking.ErrValidation)
}

func TestListAndDeleteUsers(t *testing.T) {
	svc, _ := seeded(t)
	ctx := context.Background()

	all, err := svc.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	vendors, err := svc.ListUsers(ctx, models.RoleVendor)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, "v-1", vendors[0].ID)

	_, err = svc.ListUsers(ctx, models.Role("pilot"))
	assert.ErrorIs(t, err, booking.ErrValidation)

	require.NoError(t, svc.DeleteUser(ctx, "c-1"))
	assert.ErrorIs(t, svc.DeleteUser(ctx, "c-1"), booking.ErrNotFound)
}
