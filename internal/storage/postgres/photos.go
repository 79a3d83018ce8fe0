package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

const photoColumns = `p.id, p.user_id, p.image_url, p.public_id, p.description, p.qr_url, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM photo_likes l WHERE l.photo_id = p.id) AS likes`

func (s *Store) CreatePhoto(ctx context.Context, photo models.Photo, tags []string) (models.Photo, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Photo{}, err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO photos (user_id, image_url, public_id, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, query, photo.UserID, photo.ImageURL, photo.PublicID, photo.Description).
		Scan(&photo.ID, &photo.CreatedAt, &photo.UpdatedAt)
	if err != nil {
		return models.Photo{}, mapError(err)
	}

	photo.Tags, err = attachTags(ctx, tx, photo.ID, photo.UserID, tags)
	if err != nil {
		return models.Photo{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Photo{}, err
	}
	return photo, nil
}

func (s *Store) GetPhoto(ctx context.Context, id int) (models.Photo, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photos p WHERE p.id = $1`, id)
	photo, err := scanPhoto(row)
	if err != nil {
		return models.Photo{}, mapError(err)
	}
	photo.Tags, err = s.photoTags(ctx, photo.ID)
	if err != nil {
		return models.Photo{}, err
	}
	return photo, nil
}

func (s *Store) ListPhotos(ctx context.Context, userID, skip, limit int) ([]models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos p
		WHERE $1 = 0 OR p.user_id = $1
		ORDER BY p.created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := s.pool.Query(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range photos {
		photos[i].Tags, err = s.photoTags(ctx, photos[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return photos, nil
}

func (s *Store) UpdatePhoto(ctx context.Context, photo models.Photo, tags []string) (models.Photo, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Photo{}, err
	}
	defer tx.Rollback(ctx)

	photo.UpdatedAt = time.Now().UTC()
	tag, err := tx.Exec(ctx, `UPDATE photos SET description = $2, updated_at = $3 WHERE id = $1`,
		photo.ID, photo.Description, photo.UpdatedAt)
	if err != nil {
		return models.Photo{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Photo{}, storage.ErrNotFound
	}

	if tags != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM photo_2_tag WHERE photo_id = $1`, photo.ID); err != nil {
			return models.Photo{}, err
		}
		photo.Tags, err = attachTags(ctx, tx, photo.ID, photo.UserID, tags)
		if err != nil {
			return models.Photo{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Photo{}, err
	}
	if tags == nil {
		photo.Tags, err = s.photoTags(ctx, photo.ID)
		if err != nil {
			return models.Photo{}, err
		}
	}
	return photo, nil
}

func (s *Store) DeletePhoto(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) SetQRURL(ctx context.Context, id int, url string) (models.Photo, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE photos SET qr_url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return models.Photo{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Photo{}, storage.ErrNotFound
	}
	return s.GetPhoto(ctx, id)
}

func (s *Store) AddLike(ctx context.Context, photoID, userID int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `INSERT INTO photo_likes (photo_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, photoID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) RemoveLike(ctx context.Context, photoID, userID int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM photo_likes WHERE photo_id = $1 AND user_id = $2`, photoID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// attachTags upserts tag titles and links them to the photo.
func attachTags(ctx context.Context, tx pgx.Tx, photoID, userID int, titles []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(titles))
	for _, title := range titles {
		var t models.Tag
		err := tx.QueryRow(ctx, `INSERT INTO tags (title, user_id) VALUES ($1, $2)
			ON CONFLICT (lower(title)) DO UPDATE SET title = tags.title
			RETURNING id, title, user_id, created_at`, title, userID).
			Scan(&t.ID, &t.Title, &t.UserID, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `INSERT INTO photo_2_tag (photo_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, photoID, t.ID)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func (s *Store) photoTags(ctx context.Context, photoID int) ([]models.Tag, error) {
	rows, err := s.pool.Query(ctx, `SELECT t.id, t.title, t.user_id, t.created_at
		FROM tags t
		JOIN photo_2_tag pt ON pt.tag_id = t.id
		WHERE pt.photo_id = $1
		ORDER BY t.title`, photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]models.Tag, 0)
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Title, &t.UserID, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func scanPhoto(row rowScanner) (models.Photo, error) {
	var p models.Photo
	err := row.Scan(&p.ID, &p.UserID, &p.ImageURL, &p.PublicID, &p.Description, &p.QRURL,
		&p.CreatedAt, &p.UpdatedAt, &p.Likes)
	return p, err
}
