package services

import (
	"context"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

type CommentService struct {
	store storage.Store
}

func NewCommentService(store storage.Store) *CommentService {
	return &CommentService{store: store}
}

func (s *CommentService) Create(ctx context.Context, userID, photoID int, text string) (models.Comment, error) {
	if _, err := s.store.GetPhoto(ctx, photoID); err != nil {
		return models.Comment{}, err
	}
	return s.store.CreateComment(ctx, models.Comment{
		PhotoID: photoID,
		UserID:  userID,
		Text:    text,
	})
}

func (s *CommentService) ListByPhoto(ctx context.Context, photoID int) ([]models.Comment, error) {
	return s.store.ListCommentsByPhoto(ctx, photoID)
}

func (s *CommentService) Get(ctx context.Context, id int) (models.Comment, error) {
	return s.store.GetComment(ctx, id)
}

// Update edits a comment; only its author may do so.
func (s *CommentService) Update(ctx context.Context, user models.User, id int, text string) (models.Comment, error) {
	comment, err := s.store.GetComment(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}
	if comment.UserID != user.ID {
		return models.Comment{}, ErrPermissionDenied
	}
	return s.store.UpdateComment(ctx, id, text)
}

// Delete removes a comment; restricted to administrators and moderators.
func (s *CommentService) Delete(ctx context.Context, user models.User, id int) (models.Comment, error) {
	comment, err := s.store.GetComment(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}
	if !user.IsStaff() {
		return models.Comment{}, ErrPermissionDenied
	}
	if err := s.store.DeleteComment(ctx, id); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}
