package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"
)

// Protected resolves the bearer token to its user and stores both in locals.
// Blacklisted tokens and banned users are rejected here.
func Protected(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
		}

		user, err := auth.CurrentUser(c.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrUserBanned) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User is banned"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("user", user)
		c.Locals("user_id", user.ID)
		c.Locals("token", token)
		return c.Next()
	}
}

// RequireRoles guards a route group; it must run after Protected.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Operation forbidden"})
	}
}

// CurrentUser returns the user stored by Protected.
func CurrentUser(c *fiber.Ctx) models.User {
	user, _ := c.Locals("user").(models.User)
	return user
}

// pageParams reads the skip/limit query params; negative values fall back
// to 0 and the default limit.
func pageParams(c *fiber.Ctx, defaultLimit int) (skip, limit int) {
	skip = c.QueryInt("skip", 0)
	if skip < 0 {
		skip = 0
	}
	limit = c.QueryInt("limit", defaultLimit)
	if limit < 0 {
		limit = defaultLimit
	}
	return skip, limit
}

// bearerToken reads the token from the Authorization header or the
// access_token query param.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return c.Query("access_token")
}
