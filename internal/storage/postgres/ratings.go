package postgres

import (
	"context"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

func (s *Store) CreateRating(ctx context.Context, rating models.Rating) (models.Rating, error) {
	query := `INSERT INTO ratings (photo_id, user_id, stars) VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := s.pool.QueryRow(ctx, query, rating.PhotoID, rating.UserID, rating.Stars).
		Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		return models.Rating{}, mapError(err)
	}
	return rating, nil
}

func (s *Store) ListRatingsByPhoto(ctx context.Context, photoID int) ([]models.Rating, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, photo_id, user_id, stars, created_at
		FROM ratings WHERE photo_id = $1 ORDER BY created_at`, photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.PhotoID, &r.UserID, &r.Stars, &r.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (s *Store) GetRating(ctx context.Context, id int) (models.Rating, error) {
	var r models.Rating
	err := s.pool.QueryRow(ctx, `SELECT id, photo_id, user_id, stars, created_at
		FROM ratings WHERE id = $1`, id).
		Scan(&r.ID, &r.PhotoID, &r.UserID, &r.Stars, &r.CreatedAt)
	if err != nil {
		return models.Rating{}, mapError(err)
	}
	return r, nil
}

func (s *Store) DeleteRating(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
