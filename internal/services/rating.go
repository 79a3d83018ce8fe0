package services

import (
	"context"
	"errors"
	"fmt"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

type RatingService struct {
	store storage.Store
}

func NewRatingService(store storage.Store) *RatingService {
	return &RatingService{store: store}
}

// Rate scores a photo 1-5. A user rates a photo at most once and never their
// own photo.
func (s *RatingService) Rate(ctx context.Context, user models.User, photoID, stars int) (models.Rating, error) {
	if stars < 1 || stars > 5 {
		return models.Rating{}, fmt.Errorf("stars must be between 1 and 5")
	}
	photo, err := s.store.GetPhoto(ctx, photoID)
	if err != nil {
		return models.Rating{}, err
	}
	if photo.UserID == user.ID {
		return models.Rating{}, ErrOwnPhotoRating
	}

	rating, err := s.store.CreateRating(ctx, models.Rating{
		PhotoID: photoID,
		UserID:  user.ID,
		Stars:   stars,
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return models.Rating{}, ErrAlreadyRated
	}
	return rating, err
}

// ListByPhoto returns all ratings for the photo together with the average.
func (s *RatingService) ListByPhoto(ctx context.Context, photoID int) (models.RatingListResponse, error) {
	ratings, err := s.store.ListRatingsByPhoto(ctx, photoID)
	if err != nil {
		return models.RatingListResponse{}, err
	}
	resp := models.RatingListResponse{Ratings: ratings}
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Stars
		}
		resp.Average = float64(sum) / float64(len(ratings))
	}
	return resp, nil
}

// Delete removes a rating; allowed for its author and for staff.
func (s *RatingService) Delete(ctx context.Context, user models.User, id int) error {
	rating, err := s.store.GetRating(ctx, id)
	if err != nil {
		return err
	}
	if rating.UserID != user.ID && !user.IsStaff() {
		return ErrPermissionDenied
	}
	return s.store.DeleteRating(ctx, id)
}
