package handlers

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"
	"photoshare-backend/internal/storage"
)

// MeHandler returns the authenticated user's profile.
func MeHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		profile, err := userService.Profile(c.Context(), user.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(profile)
	}
}

func UpdateUserHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)

		var req models.UpdateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		updated, err := userService.Update(c.Context(), user, req)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(updated)
	}
}

func DeleteUserHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if err := userService.Delete(c.Context(), user.ID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not Found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(user)
	}
}

// UploadAvatarHandler replaces the user's avatar (field name: "avatar").
func UploadAvatarHandler(userService *services.UserService, uploadDir, baseURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
		}

		if err := os.MkdirAll(uploadDir, 0755); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create upload dir"})
		}

		ext := filepath.Ext(fileHeader.Filename)
		filename := "avatar_" + uuid.New().String() + ext
		destPath := filepath.Join(uploadDir, filename)

		if err := c.SaveFile(fileHeader, destPath); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
		}

		updated, err := userService.UpdateAvatar(c.Context(), user.ID, uploadURL(baseURL, filename))
		if err != nil {
			_ = os.Remove(destPath)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(updated)
	}
}

// BanUserHandler locks an account; admin only (enforced by RequireRoles).
func BanUserHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.Params("email")
		if err := userService.Ban(c.Context(), email); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Account doesn't exists"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "User banned"})
	}
}

// ChangeRoleHandler assigns a role; admin only. Administrators cannot be
// reassigned.
func ChangeRoleHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.Params("email")

		var req models.ChangeRoleRequest
		if err := c.BodyParser(&req); err != nil || !req.Role.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
		}

		if err := userService.ChangeRole(c.Context(), email, req.Role); err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Account doesn't exists"})
			case errors.Is(err, services.ErrPermissionDenied):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Operation forbidden"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "Role updated"})
	}
}
