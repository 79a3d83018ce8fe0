package services

import (
	"context"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

type TagService struct {
	store storage.Store
}

func NewTagService(store storage.Store) *TagService {
	return &TagService{store: store}
}

func (s *TagService) Create(ctx context.Context, userID int, title string) (models.Tag, error) {
	return s.store.CreateTag(ctx, title, userID)
}

// My lists the tags created by the caller.
func (s *TagService) My(ctx context.Context, userID, skip, limit int) ([]models.Tag, error) {
	return s.store.ListTags(ctx, userID, skip, limit)
}

// All lists every tag; restricted to administrators at the route level.
func (s *TagService) All(ctx context.Context, skip, limit int) ([]models.Tag, error) {
	return s.store.ListTags(ctx, 0, skip, limit)
}

func (s *TagService) Get(ctx context.Context, id int) (models.Tag, error) {
	return s.store.GetTag(ctx, id)
}

func (s *TagService) Update(ctx context.Context, id int, title string) (models.Tag, error) {
	return s.store.UpdateTag(ctx, id, title)
}

func (s *TagService) Delete(ctx context.Context, id int) error {
	return s.store.DeleteTag(ctx, id)
}
