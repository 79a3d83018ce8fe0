package postgres

import (
	"context"
	"time"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

func (s *Store) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	query := `INSERT INTO comments (photo_id, user_id, text) VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := s.pool.QueryRow(ctx, query, comment.PhotoID, comment.UserID, comment.Text).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return models.Comment{}, mapError(err)
	}
	return comment, nil
}

func (s *Store) ListCommentsByPhoto(ctx context.Context, photoID int) ([]models.Comment, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, photo_id, user_id, text, created_at, updated_at
		FROM comments WHERE photo_id = $1 ORDER BY created_at`, photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PhotoID, &c.UserID, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) GetComment(ctx context.Context, id int) (models.Comment, error) {
	var c models.Comment
	err := s.pool.QueryRow(ctx, `SELECT id, photo_id, user_id, text, created_at, updated_at
		FROM comments WHERE id = $1`, id).
		Scan(&c.ID, &c.PhotoID, &c.UserID, &c.Text, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Comment{}, mapError(err)
	}
	return c, nil
}

func (s *Store) UpdateComment(ctx context.Context, id int, text string) (models.Comment, error) {
	var c models.Comment
	err := s.pool.QueryRow(ctx, `UPDATE comments SET text = $2, updated_at = $3 WHERE id = $1
		RETURNING id, photo_id, user_id, text, created_at, updated_at`, id, text, time.Now().UTC()).
		Scan(&c.ID, &c.PhotoID, &c.UserID, &c.Text, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Comment{}, mapError(err)
	}
	return c, nil
}

func (s *Store) DeleteComment(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
