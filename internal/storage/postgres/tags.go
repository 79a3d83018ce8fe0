package postgres

import (
	"context"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

func (s *Store) CreateTag(ctx context.Context, title string, userID int) (models.Tag, error) {
	var t models.Tag
	err := s.pool.QueryRow(ctx, `INSERT INTO tags (title, user_id) VALUES ($1, $2)
		RETURNING id, title, user_id, created_at`, title, userID).
		Scan(&t.ID, &t.Title, &t.UserID, &t.CreatedAt)
	if err != nil {
		return models.Tag{}, mapError(err)
	}
	return t, nil
}

func (s *Store) ListTags(ctx context.Context, userID, skip, limit int) ([]models.Tag, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title, user_id, created_at FROM tags
		WHERE $1 = 0 OR user_id = $1
		ORDER BY created_at
		OFFSET $2 LIMIT $3`, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Title, &t.UserID, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) GetTag(ctx context.Context, id int) (models.Tag, error) {
	var t models.Tag
	err := s.pool.QueryRow(ctx, `SELECT id, title, user_id, created_at FROM tags WHERE id = $1`, id).
		Scan(&t.ID, &t.Title, &t.UserID, &t.CreatedAt)
	if err != nil {
		return models.Tag{}, mapError(err)
	}
	return t, nil
}

func (s *Store) UpdateTag(ctx context.Context, id int, title string) (models.Tag, error) {
	var t models.Tag
	err := s.pool.QueryRow(ctx, `UPDATE tags SET title = $2 WHERE id = $1
		RETURNING id, title, user_id, created_at`, id, title).
		Scan(&t.ID, &t.Title, &t.UserID, &t.CreatedAt)
	if err != nil {
		return models.Tag{}, mapError(err)
	}
	return t, nil
}

func (s *Store) DeleteTag(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
