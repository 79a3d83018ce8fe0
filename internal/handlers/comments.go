package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"
	"photoshare-backend/internal/storage"
)

func CreateCommentHandler(commentService *services.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		photoID, err := c.ParamsInt("photo_id")
		if err != nil || photoID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		var req models.CommentRequest
		if err := c.BodyParser(&req); err != nil || req.Text == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
		}

		comment, err := commentService.Create(c.Context(), user.ID, photoID, req.Text)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	}
}

func ListCommentsHandler(commentService *services.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		photoID, err := c.ParamsInt("photo_id")
		if err != nil || photoID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		comments, err := commentService.ListByPhoto(c.Context(), photoID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if comments == nil {
			comments = []models.Comment{}
		}
		return c.JSON(comments)
	}
}

func GetCommentHandler(commentService *services.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid comment id"})
		}

		comment, err := commentService.Get(c.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(comment)
	}
}

// UpdateCommentHandler edits a comment; authors only.
func UpdateCommentHandler(commentService *services.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid comment id"})
		}

		var req models.CommentRequest
		if err := c.BodyParser(&req); err != nil || req.Text == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
		}

		comment, err := commentService.Update(c.Context(), user, id, req.Text)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
			case errors.Is(err, services.ErrPermissionDenied):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to edit this comment"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(comment)
	}
}

// DeleteCommentHandler removes a comment; admins and moderators only.
func DeleteCommentHandler(commentService *services.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid comment id"})
		}

		comment, err := commentService.Delete(c.Context(), user, id)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
			case errors.Is(err, services.ErrPermissionDenied):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Permission denied to delete comment"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(comment)
	}
}
