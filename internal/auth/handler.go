package auth

import (
	"strings"
	"time"

	"epicure-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /jwt
func TokenHandler(secret string, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body TokenRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validation.Struct(body); err != nil {
			return err
		}

		token, err := GenerateToken(secret, body.Email, ttl)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create token")
		}

		return c.JSON(fiber.Map{
			"token": token,
		})
	}
}
