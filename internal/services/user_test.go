package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
	"photoshare-backend/internal/storage/memory"
)

func TestUserUpdate(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store)
	ctx := context.Background()

	user := seedUser(t, store, "alice@example.com", models.RoleUser)

	name := "alice2"
	pw := "newpassword"
	updated, err := svc.Update(ctx, user, models.UpdateUserRequest{Username: &name, Password: &pw})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpassword")))
}

func TestUserBan(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store)
	ctx := context.Background()

	seedUser(t, store, "alice@example.com", models.RoleUser)

	require.NoError(t, svc.Ban(ctx, "alice@example.com"))
	banned, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, banned.Banned)

	err = svc.Ban(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestChangeRole(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store)
	ctx := context.Background()

	seedUser(t, store, "admin@example.com", models.RoleAdministrator)
	seedUser(t, store, "alice@example.com", models.RoleUser)

	require.NoError(t, svc.ChangeRole(ctx, "alice@example.com", models.RoleModerator))
	promoted, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, promoted.Role)

	// Administrators cannot be reassigned.
	err = svc.ChangeRole(ctx, "admin@example.com", models.RoleUser)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.ChangeRole(ctx, "nobody@example.com", models.RoleUser)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserDeleteCascadesPhotos(t *testing.T) {
	store := memory.New()
	svc := NewUserService(store)
	ctx := context.Background()

	user := seedUser(t, store, "alice@example.com", models.RoleUser)
	photo, err := store.CreatePhoto(ctx, models.Photo{UserID: user.ID, ImageURL: "/uploads/a.jpg"}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err = store.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetPhoto(ctx, photo.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
