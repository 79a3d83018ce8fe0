package services

import "errors"

var (
	ErrUserExists         = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrUserBanned         = errors.New("user is banned")
	ErrInvalidToken       = errors.New("invalid token")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrTooManyTags        = errors.New("too many tags provided")
	ErrAlreadyRated       = errors.New("already rated this photo")
	ErrOwnPhotoRating     = errors.New("cannot rate own photo")
)
