package services

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/storage"
)

const (
	scopeAccess  = "access"
	scopeRefresh = "refresh"
	scopeEmail   = "email"

	emailTokenTTL = 7 * 24 * time.Hour
)

// AuthService owns registration, login, token issuing and the email
// confirmation flow.
type AuthService struct {
	store     storage.UserStore
	blacklist TokenBlacklist
	mailer    Mailer
	log       zerolog.Logger

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	baseURL    string
}

func NewAuthService(store storage.UserStore, blacklist TokenBlacklist, mailer Mailer,
	log zerolog.Logger, secret string, accessTTL, refreshTTL time.Duration, baseURL string) *AuthService {
	return &AuthService{
		store:      store,
		blacklist:  blacklist,
		mailer:     mailer,
		log:        log,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Register creates the account and kicks off the confirmation mail. The very
// first account becomes Administrator.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := models.RoleUser
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		role = models.RoleAdministrator
	}

	user, err := s.store.CreateUser(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Avatar:       GravatarURL(req.Email),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.sendConfirmationAsync(user)
	return &user, nil
}

// Login verifies credentials and returns a fresh token pair. The refresh
// token is persisted so it can be matched on rotation.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Banned {
		return nil, ErrUserBanned
	}
	if !user.ConfirmedEmail {
		return nil, ErrEmailNotConfirmed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, user)
}

// Refresh rotates the token pair. A refresh token that does not match the
// stored one invalidates the stored token and fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	email, _, err := s.parseToken(refreshToken, scopeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if user.RefreshToken != refreshToken {
		_ = s.store.UpdateRefreshToken(ctx, user.ID, "")
		return nil, ErrInvalidToken
	}
	return s.issueTokens(ctx, user)
}

// Logout blacklists the access token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	_, exp, err := s.parseToken(accessToken, scopeAccess)
	if err != nil {
		return ErrInvalidToken
	}
	return s.blacklist.Add(ctx, accessToken, time.Until(exp))
}

// ConfirmEmail marks the address from the token as confirmed. The returned
// flag reports whether it had been confirmed before.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	email, _, err := s.parseToken(token, scopeEmail)
	if err != nil {
		return false, ErrInvalidToken
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return false, ErrInvalidToken
	}
	if user.ConfirmedEmail {
		return true, nil
	}
	return false, s.store.ConfirmEmail(ctx, email)
}

// RequestEmailConfirmation re-sends the confirmation mail unless the address
// is already confirmed.
func (s *AuthService) RequestEmailConfirmation(ctx context.Context, email string) (bool, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user.ConfirmedEmail {
		return true, nil
	}
	s.sendConfirmationAsync(user)
	return false, nil
}

// CurrentUser resolves a bearer access token to its user, rejecting
// blacklisted tokens and banned users.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (models.User, error) {
	blacklisted, err := s.blacklist.Contains(ctx, accessToken)
	if err != nil {
		return models.User{}, err
	}
	if blacklisted {
		return models.User{}, ErrInvalidToken
	}

	email, _, err := s.parseToken(accessToken, scopeAccess)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}
	if user.Banned {
		return models.User{}, ErrUserBanned
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user models.User) (*models.AuthResponse, error) {
	access, err := s.signToken(user.Email, scopeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user.Email, scopeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) signToken(email, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   email,
		"scope": scope,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AuthService) parseToken(tokenString, wantScope string) (string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", time.Time{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", time.Time{}, ErrInvalidToken
	}
	if scope, _ := claims["scope"].(string); scope != wantScope {
		return "", time.Time{}, ErrInvalidToken
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return "", time.Time{}, ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", time.Time{}, ErrInvalidToken
	}
	return email, exp.Time, nil
}

// EmailToken signs a confirmation token for the address.
func (s *AuthService) EmailToken(email string) (string, error) {
	return s.signToken(email, scopeEmail, emailTokenTTL)
}

func (s *AuthService) sendConfirmationAsync(user models.User) {
	token, err := s.EmailToken(user.Email)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to sign email token")
		return
	}
	link := s.baseURL + "/api/auth/confirmed_email/" + token

	go func() {
		if err := s.mailer.SendConfirmation(user.Email, user.Username, link); err != nil {
			s.log.Error().Err(err).Str("email", user.Email).Msg("failed to send confirmation mail")
		}
	}()
}

// GravatarURL derives the avatar assigned to new accounts.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", sum)
}
