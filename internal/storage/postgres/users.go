package postgres

import (
	"context"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

const userColumns = `id, username, email, password_hash, avatar, role, refresh_token, confirmed_email, banned, created_at`

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	// The first row gets the Administrator role inside the INSERT itself, so
	// two concurrent first signups cannot both read an empty table and agree
	// on the role beforehand.
	query := `INSERT INTO users (username, email, password_hash, avatar, role)
		VALUES ($1, $2, $3, $4,
			CASE WHEN EXISTS (SELECT 1 FROM users) THEN $5::varchar ELSE 'Administrator' END)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash, user.Avatar, user.Role)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return created, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `UPDATE users SET username = $2, password_hash = $3 WHERE id = $1 RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.ID, user.Username, user.PasswordHash)
	updated, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return updated, nil
}

func (s *Store) UpdateRefreshToken(ctx context.Context, userID int, token string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET refresh_token = $2 WHERE id = $1`, userID, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ConfirmEmail(ctx context.Context, email string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET confirmed_email = TRUE WHERE email = $1`, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) SetBanned(ctx context.Context, email string, banned bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET banned = $2 WHERE email = $1`, email, banned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) SetRole(ctx context.Context, email string, role models.Role) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET role = $2 WHERE email = $1`, email, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) SetAvatar(ctx context.Context, userID int, url string) (models.User, error) {
	query := `UPDATE users SET avatar = $2 WHERE id = $1 RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, userID, url)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Avatar, &u.Role,
		&u.RefreshToken, &u.ConfirmedEmail, &u.Banned, &u.CreatedAt)
	return u, err
}
