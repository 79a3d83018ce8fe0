package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"
	"photoshare-backend/internal/storage"
)

func CreateRatingHandler(ratingService *services.RatingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		photoID, err := c.ParamsInt("photo_id")
		if err != nil || photoID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		var req models.RatingRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		rating, err := ratingService.Rate(c.Context(), user, photoID, req.Stars)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
			case errors.Is(err, services.ErrAlreadyRated):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Already rated this photo"})
			case errors.Is(err, services.ErrOwnPhotoRating):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot rate own photo"})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(rating)
	}
}

func ListRatingsHandler(ratingService *services.RatingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		photoID, err := c.ParamsInt("photo_id")
		if err != nil || photoID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		resp, err := ratingService.ListByPhoto(c.Context(), photoID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if resp.Ratings == nil {
			resp.Ratings = []models.Rating{}
		}
		return c.JSON(resp)
	}
}

// DeleteRatingHandler removes a rating; allowed for its author and staff.
func DeleteRatingHandler(ratingService *services.RatingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid rating id"})
		}

		if err := ratingService.Delete(c.Context(), user, id); err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Rating not found"})
			case errors.Is(err, services.ErrPermissionDenied):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to delete this rating"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
