package services

import (
	"context"
	"strings"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

type PhotoService struct {
	store storage.Store
}

func NewPhotoService(store storage.Store) *PhotoService {
	return &PhotoService{store: store}
}

// Create stores photo metadata. The image file itself has already been
// written by the handler; publicID is its storage key.
func (s *PhotoService) Create(ctx context.Context, userID int, imageURL, publicID, description string, tags []string) (models.Photo, error) {
	titles := NormalizeTags(tags)
	if len(titles) > models.MaxTagsPerPhoto {
		return models.Photo{}, ErrTooManyTags
	}
	return s.store.CreatePhoto(ctx, models.Photo{
		UserID:      userID,
		ImageURL:    imageURL,
		PublicID:    publicID,
		Description: description,
	}, titles)
}

// List returns the caller's photos; administrators see everyone's.
func (s *PhotoService) List(ctx context.Context, user models.User, skip, limit int) ([]models.Photo, error) {
	userID := user.ID
	if user.IsAdmin() {
		userID = 0
	}
	return s.store.ListPhotos(ctx, userID, skip, limit)
}

// Get returns the photo when the caller owns it or is an administrator;
// otherwise it behaves as if the photo does not exist.
func (s *PhotoService) Get(ctx context.Context, user models.User, id int) (models.Photo, error) {
	photo, err := s.store.GetPhoto(ctx, id)
	if err != nil {
		return models.Photo{}, err
	}
	if !user.IsAdmin() && photo.UserID != user.ID {
		return models.Photo{}, storage.ErrNotFound
	}
	return photo, nil
}

func (s *PhotoService) Update(ctx context.Context, user models.User, id int, req models.PhotoUpdateRequest) (models.Photo, error) {
	photo, err := s.store.GetPhoto(ctx, id)
	if err != nil {
		return models.Photo{}, err
	}
	if !user.IsAdmin() && photo.UserID != user.ID {
		return models.Photo{}, ErrPermissionDenied
	}

	if req.Description != nil {
		photo.Description = *req.Description
	}
	var titles []string
	if req.Tags != nil {
		titles = NormalizeTags(req.Tags)
		if len(titles) > models.MaxTagsPerPhoto {
			return models.Photo{}, ErrTooManyTags
		}
	}
	return s.store.UpdatePhoto(ctx, photo, titles)
}

// Delete removes the photo record and returns it so the caller can clean up
// the stored files.
func (s *PhotoService) Delete(ctx context.Context, user models.User, id int) (models.Photo, error) {
	photo, err := s.store.GetPhoto(ctx, id)
	if err != nil {
		return models.Photo{}, err
	}
	if !user.IsAdmin() && photo.UserID != user.ID {
		return models.Photo{}, ErrPermissionDenied
	}
	if err := s.store.DeletePhoto(ctx, id); err != nil {
		return models.Photo{}, err
	}
	return photo, nil
}

// Like records a like; reports false when the user already liked the photo.
func (s *PhotoService) Like(ctx context.Context, userID, photoID int) (bool, error) {
	if _, err := s.store.GetPhoto(ctx, photoID); err != nil {
		return false, err
	}
	return s.store.AddLike(ctx, photoID, userID)
}

// Unlike removes userID's like from the photo.
func (s *PhotoService) Unlike(ctx context.Context, userID, photoID int) (bool, error) {
	if _, err := s.store.GetPhoto(ctx, photoID); err != nil {
		return false, err
	}
	return s.store.RemoveLike(ctx, photoID, userID)
}

// NormalizeTags flattens comma-separated form values, trims whitespace and
// drops empties and duplicates, preserving order.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]bool)
	var titles []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			title := strings.TrimSpace(part)
			if title == "" {
				continue
			}
			key := strings.ToLower(title)
			if seen[key] {
				continue
			}
			seen[key] = true
			titles = append(titles, title)
		}
	}
	return titles
}
