package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"
)

// SignupHandler creates an account and triggers the confirmation mail.
func SignupHandler(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}
		if req.Email == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
		}

		user, err := auth.Register(c.Context(), req)
		if err != nil {
			if errors.Is(err, services.ErrUserExists) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Account already exists"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}

		return c.Status(fiber.StatusCreated).JSON(models.RegisterResponse{
			User:   user,
			Detail: "User successfully created",
		})
	}
}

func LoginHandler(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		res, err := auth.Login(c.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserBanned):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User is banned"})
			case errors.Is(err, services.ErrEmailNotConfirmed):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Email not confirmed"})
			case errors.Is(err, services.ErrInvalidCredentials):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(res)
	}
}

// RefreshHandler rotates the token pair from a bearer refresh token.
func RefreshHandler(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
		}

		res, err := auth.Refresh(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid refresh token"})
		}
		return c.JSON(res)
	}
}

// LogoutHandler blacklists the current access token. Runs behind Protected.
func LogoutHandler(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals("token").(string)
		if err := auth.Logout(c.Context(), token); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "Successfully logged out"})
	}
}

func ConfirmEmailHandler(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		already, err := auth.ConfirmEmail(c.Context(), c.Params("token"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Verification error"})
		}
		if already {
			return c.JSON(fiber.Map{"message": "Your email is already confirmed"})
		}
		return c.JSON(fiber.Map{"message": "Email confirmed"})
	}
}

func RequestEmailHandler(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RequestEmail
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}

		already, err := auth.RequestEmailConfirmation(c.Context(), req.Email)
		if err != nil {
			// Do not leak whether the address exists.
			return c.JSON(fiber.Map{"message": "Check your email for confirmation."})
		}
		if already {
			return c.JSON(fiber.Map{"message": "Your email is already confirmed"})
		}
		return c.JSON(fiber.Map{"message": "Check your email for confirmation."})
	}
}
