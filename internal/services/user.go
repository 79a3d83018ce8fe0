package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

type UserService struct {
	store storage.Store
}

func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Profile(ctx context.Context, userID int) (models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// Update changes username and/or password of the account.
func (s *UserService) Update(ctx context.Context, user models.User, req models.UpdateUserRequest) (models.User, error) {
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = string(hash)
	}
	return s.store.UpdateUser(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, userID int) error {
	return s.store.DeleteUser(ctx, userID)
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID int, url string) (models.User, error) {
	return s.store.SetAvatar(ctx, userID, url)
}

// Ban locks a user out; their tokens stop resolving on the next request.
func (s *UserService) Ban(ctx context.Context, email string) error {
	return s.store.SetBanned(ctx, email, true)
}

// ChangeRole assigns a new role. Administrators cannot be reassigned.
func (s *UserService) ChangeRole(ctx context.Context, email string, role models.Role) error {
	target, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if target.Role == models.RoleAdministrator {
		return ErrPermissionDenied
	}
	return s.store.SetRole(ctx, email, role)
}
