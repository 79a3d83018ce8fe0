package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"
	"photoshare-backend/internal/storage"
)

func CreateTagHandler(tagService *services.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)

		var req models.TagRequest
		if err := c.BodyParser(&req); err != nil || req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
		}

		tag, err := tagService.Create(c.Context(), user.ID, req.Title)
		if err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tag already exists"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(tag)
	}
}

func MyTagsHandler(tagService *services.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		skip, limit := pageParams(c, 100)

		tags, err := tagService.My(c.Context(), user.ID, skip, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if tags == nil {
			tags = []models.Tag{}
		}
		return c.JSON(tags)
	}
}

// AllTagsHandler lists every tag; admin only (enforced by RequireRoles).
func AllTagsHandler(tagService *services.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		skip, limit := pageParams(c, 100)

		tags, err := tagService.All(c.Context(), skip, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if tags == nil {
			tags = []models.Tag{}
		}
		return c.JSON(tags)
	}
}

func GetTagHandler(tagService *services.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid tag id"})
		}

		tag, err := tagService.Get(c.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not Found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(tag)
	}
}

func UpdateTagHandler(tagService *services.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid tag id"})
		}

		var req models.TagRequest
		if err := c.BodyParser(&req); err != nil || req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
		}

		tag, err := tagService.Update(c.Context(), id, req.Title)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not Found"})
			case errors.Is(err, storage.ErrDuplicate):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tag already exists"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(tag)
	}
}

func DeleteTagHandler(tagService *services.TagService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid tag id"})
		}

		if err := tagService.Delete(c.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not Found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
