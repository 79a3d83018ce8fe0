package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

const qrSize = 250

// QRService renders QR codes that encode a photo's public URL. The PNG is
// stored next to the photo in the upload dir.
type QRService struct {
	store     storage.Store
	uploadDir string
	baseURL   string
}

func NewQRService(store storage.Store, uploadDir, baseURL string) *QRService {
	return &QRService{
		store:     store,
		uploadDir: uploadDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Generate creates the QR file for the photo and persists its URL.
// Only the photo owner may generate it.
func (s *QRService) Generate(ctx context.Context, user models.User, photoID int) (models.Photo, error) {
	photo, err := s.store.GetPhoto(ctx, photoID)
	if err != nil {
		return models.Photo{}, err
	}
	if photo.UserID != user.ID {
		return models.Photo{}, ErrPermissionDenied
	}

	filename := photo.PublicID + "_qr.png"
	path := filepath.Join(s.uploadDir, filename)
	if err := qrcode.WriteFile(photo.ImageURL, qrcode.Medium, qrSize, path); err != nil {
		return models.Photo{}, fmt.Errorf("write qr code: %w", err)
	}

	url := s.baseURL + "/uploads/" + filename
	updated, err := s.store.SetQRURL(ctx, photoID, url)
	if err != nil {
		// DB failed after the file was written; drop the orphan file.
		_ = os.Remove(path)
		return models.Photo{}, err
	}
	return updated, nil
}
