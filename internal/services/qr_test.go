package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
	"photoshare-backend/internal/storage/memory"
)

func TestQRGenerate(t *testing.T) {
	store := memory.New()
	dir := t.TempDir()
	svc := NewQRService(store, dir, "http://localhost:8000")
	ctx := context.Background()

	owner := seedUser(t, store, "owner@example.com", models.RoleUser)
	other := seedUser(t, store, "other@example.com", models.RoleUser)

	photo, err := store.CreatePhoto(ctx, models.Photo{
		UserID:   owner.ID,
		ImageURL: "http://localhost:8000/uploads/abc.jpg",
		PublicID: "abc",
	}, nil)
	require.NoError(t, err)

	_, err = svc.Generate(ctx, other, photo.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.Generate(ctx, owner, photo.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/uploads/abc_qr.png", updated.QRURL)

	info, err := os.Stat(filepath.Join(dir, "abc_qr.png"))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = svc.Generate(ctx, owner, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
