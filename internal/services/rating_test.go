package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
	"photoshare-backend/internal/storage/memory"
)

func TestRatePhoto(t *testing.T) {
	store := memory.New()
	svc := NewRatingService(store)
	ctx := context.Background()

	owner := seedUser(t, store, "owner@example.com", models.RoleUser)
	critic := seedUser(t, store, "critic@example.com", models.RoleUser)

	photo, err := store.CreatePhoto(ctx, models.Photo{UserID: owner.ID, ImageURL: "/uploads/a.jpg"}, nil)
	require.NoError(t, err)

	_, err = svc.Rate(ctx, critic, photo.ID, 0)
	assert.Error(t, err)
	_, err = svc.Rate(ctx, critic, photo.ID, 6)
	assert.Error(t, err)

	_, err = svc.Rate(ctx, owner, photo.ID, 5)
	assert.ErrorIs(t, err, ErrOwnPhotoRating)

	rating, err := svc.Rate(ctx, critic, photo.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, rating.Stars)

	_, err = svc.Rate(ctx, critic, photo.ID, 2)
	assert.ErrorIs(t, err, ErrAlreadyRated)

	_, err = svc.Rate(ctx, critic, 9999, 3)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRatingAverage(t *testing.T) {
	store := memory.New()
	svc := NewRatingService(store)
	ctx := context.Background()

	owner := seedUser(t, store, "owner@example.com", models.RoleUser)
	a := seedUser(t, store, "a@example.com", models.RoleUser)
	b := seedUser(t, store, "b@example.com", models.RoleUser)

	photo, err := store.CreatePhoto(ctx, models.Photo{UserID: owner.ID, ImageURL: "/uploads/a.jpg"}, nil)
	require.NoError(t, err)

	empty, err := svc.ListByPhoto(ctx, photo.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.Average)

	_, err = svc.Rate(ctx, a, photo.ID, 5)
	require.NoError(t, err)
	_, err = svc.Rate(ctx, b, photo.ID, 2)
	require.NoError(t, err)

	resp, err := svc.ListByPhoto(ctx, photo.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Ratings, 2)
	assert.InDelta(t, 3.5, resp.Average, 0.0001)
}

func TestRatingDelete(t *testing.T) {
	store := memory.New()
	svc := NewRatingService(store)
	ctx := context.Background()

	owner := seedUser(t, store, "owner@example.com", models.RoleUser)
	critic := seedUser(t, store, "critic@example.com", models.RoleUser)
	bystander := seedUser(t, store, "bystander@example.com", models.RoleUser)
	moderator := seedUser(t, store, "mod@example.com", models.RoleModerator)

	photo, err := store.CreatePhoto(ctx, models.Photo{UserID: owner.ID, ImageURL: "/uploads/a.jpg"}, nil)
	require.NoError(t, err)

	rating, err := svc.Rate(ctx, critic, photo.ID, 3)
	require.NoError(t, err)

	err = svc.Delete(ctx, bystander, rating.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The author may remove their own rating.
	require.NoError(t, svc.Delete(ctx, critic, rating.ID))

	rating, err = svc.Rate(ctx, critic, photo.ID, 3)
	require.NoError(t, err)

	// Staff may remove anyone's.
	require.NoError(t, svc.Delete(ctx, moderator, rating.ID))

	err = svc.Delete(ctx, moderator, rating.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
