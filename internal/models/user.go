package models

import "time"

// Role of a user. The first registered user becomes Administrator.
type Role string

const (
	RoleUser          Role = "User"
	RoleModerator     Role = "Moderator"
	RoleAdministrator Role = "Administrator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdministrator:
		return true
	}
	return false
}

type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Avatar         string    `json:"avatar"`
	Role           Role      `json:"role"`
	RefreshToken   string    `json:"-"`
	ConfirmedEmail bool      `json:"confirmed_email"`
	Banned         bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsStaff reports whether the user may moderate other users' content.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdministrator || u.Role == RoleModerator
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type RegisterResponse struct {
	User   *User  `json:"user"`
	Detail string `json:"detail"`
}

type RequestEmail struct {
	Email string `json:"email"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type ChangeRoleRequest struct {
	Role Role `json:"role"`
}
