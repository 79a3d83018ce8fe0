package storage

import (
	"context"
	"errors"

	"photoshare-backend/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on unique-constraint violations
	// (email, tag title, one rating per user per photo).
	ErrDuplicate = errors.New("already exists")
)

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	UpdateRefreshToken(ctx context.Context, userID int, token string) error
	ConfirmEmail(ctx context.Context, email string) error
	SetBanned(ctx context.Context, email string, banned bool) error
	SetRole(ctx context.Context, email string, role models.Role) error
	SetAvatar(ctx context.Context, userID int, url string) (models.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type PhotoStore interface {
	// CreatePhoto inserts the photo and attaches tags, creating missing ones.
	CreatePhoto(ctx context.Context, photo models.Photo, tags []string) (models.Photo, error)
	GetPhoto(ctx context.Context, id int) (models.Photo, error)
	// ListPhotos returns photos for one user, or for everyone when userID is 0.
	ListPhotos(ctx context.Context, userID, skip, limit int) ([]models.Photo, error)
	UpdatePhoto(ctx context.Context, photo models.Photo, tags []string) (models.Photo, error)
	DeletePhoto(ctx context.Context, id int) error
	SetQRURL(ctx context.Context, id int, url string) (models.Photo, error)
	// AddLike records a like; reports false when the user already liked the photo.
	AddLike(ctx context.Context, photoID, userID int) (bool, error)
	// RemoveLike reports false when there was no like to remove.
	RemoveLike(ctx context.Context, photoID, userID int) (bool, error)
}

type TagStore interface {
	CreateTag(ctx context.Context, title string, userID int) (models.Tag, error)
	// ListTags returns tags created by one user, or all tags when userID is 0.
	ListTags(ctx context.Context, userID, skip, limit int) ([]models.Tag, error)
	GetTag(ctx context.Context, id int) (models.Tag, error)
	UpdateTag(ctx context.Context, id int, title string) (models.Tag, error)
	DeleteTag(ctx context.Context, id int) error
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	ListCommentsByPhoto(ctx context.Context, photoID int) ([]models.Comment, error)
	GetComment(ctx context.Context, id int) (models.Comment, error)
	UpdateComment(ctx context.Context, id int, text string) (models.Comment, error)
	DeleteComment(ctx context.Context, id int) error
}

type RatingStore interface {
	CreateRating(ctx context.Context, rating models.Rating) (models.Rating, error)
	ListRatingsByPhoto(ctx context.Context, photoID int) ([]models.Rating, error)
	GetRating(ctx context.Context, id int) (models.Rating, error)
	DeleteRating(ctx context.Context, id int) error
}

// Store bundles all repositories plus a connectivity probe for the
// healthcheck endpoint.
type Store interface {
	UserStore
	PhotoStore
	TagStore
	CommentStore
	RatingStore
	Ping(ctx context.Context) error
}
