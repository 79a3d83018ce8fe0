package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photoshare-backend/internal/metrics"
	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"
	"photoshare-backend/internal/storage"
)

// UploadPhotoHandler handles the multipart photo upload (field name: "image").
func UploadPhotoHandler(photoService *services.PhotoService, uploadDir, baseURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
		}

		if err := os.MkdirAll(uploadDir, 0755); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create upload dir"})
		}

		// Unique public id, extension preserved
		ext := filepath.Ext(fileHeader.Filename)
		publicID := uuid.New().String()
		filename := publicID + ext
		destPath := filepath.Join(uploadDir, filename)

		if err := c.SaveFile(fileHeader, destPath); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
		}

		imageURL := uploadURL(baseURL, filename)
		description := c.FormValue("description")
		form, err := c.MultipartForm()
		var tags []string
		if err == nil && form != nil {
			tags = form.Value["tags"]
		}

		photo, err := photoService.Create(c.Context(), user.ID, imageURL, publicID, description, tags)
		if err != nil {
			// Try to cleanup file if DB insert fails
			_ = os.Remove(destPath)
			metrics.RecordUpload(false)
			if errors.Is(err, services.ErrTooManyTags) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Too many tags provided"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		metrics.RecordUpload(true)
		return c.Status(fiber.StatusCreated).JSON(photo)
	}
}

func ListPhotosHandler(photoService *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		skip, limit := pageParams(c, 10)

		photos, err := photoService.List(c.Context(), user, skip, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if photos == nil {
			photos = []models.Photo{}
		}
		return c.JSON(models.PhotoListResponse{Photos: photos})
	}
}

func GetPhotoHandler(photoService *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		photo, err := photoService.Get(c.Context(), user, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(photo)
	}
}

func UpdatePhotoHandler(photoService *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		var req models.PhotoUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		photo, err := photoService.Update(c.Context(), user, id, req)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
			case errors.Is(err, services.ErrPermissionDenied):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Permission denied"})
			case errors.Is(err, services.ErrTooManyTags):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Too many tags provided"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(photo)
	}
}

// DeletePhotoHandler removes the photo record plus its stored files.
func DeletePhotoHandler(photoService *services.PhotoService, uploadDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		photo, err := photoService.Delete(c.Context(), user, id)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
			case errors.Is(err, services.ErrPermissionDenied):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Permission denied"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		_ = os.Remove(filepath.Join(uploadDir, filepath.Base(photo.ImageURL)))
		if photo.QRURL != "" {
			_ = os.Remove(filepath.Join(uploadDir, filepath.Base(photo.QRURL)))
		}
		return c.JSON(photo)
	}
}

// QRPhotoHandler generates a QR code pointing at the photo.
func QRPhotoHandler(qrService *services.QRService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		photo, err := qrService.Generate(c.Context(), user, id)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
			case errors.Is(err, services.ErrPermissionDenied):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Permission denied"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(photo)
	}
}

func LikePhotoHandler(photoService *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		liked, err := photoService.Like(c.Context(), user.ID, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if !liked {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Already liked"})
		}
		return c.JSON(fiber.Map{"message": "OK"})
	}
}

// UnlikePhotoHandler removes the caller's like. Staff may remove another
// user's like with ?user_id=.
func UnlikePhotoHandler(photoService *services.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid photo id"})
		}

		targetID := user.ID
		if other := c.QueryInt("user_id", 0); other != 0 && other != user.ID {
			if !user.IsStaff() {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Permission denied"})
			}
			targetID = other
		}

		removed, err := photoService.Unlike(c.Context(), targetID, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if !removed {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Not liked"})
		}
		return c.JSON(fiber.Map{"message": "OK"})
	}
}

func uploadURL(baseURL, filename string) string {
	if baseURL == "" {
		return "/uploads/" + filename
	}
	return fmt.Sprintf("%s/uploads/%s", baseURL, filename)
}
