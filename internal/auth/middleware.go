package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const CtxEmailKey = "user_email"

func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized access")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok || claims.Email == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		c.Locals(CtxEmailKey, claims.Email)
		return c.Next()
	}
}

// EmailFrom returns the email of the authenticated caller, if any.
func EmailFrom(c *fiber.Ctx) (string, bool) {
	email, ok := c.Locals(CtxEmailKey).(string)
	return email, ok && email != ""
}

// RequireQueryEmail rejects requests whose ?email= is not the caller's own.
// It must run after JWTMiddleware.
func RequireQueryEmail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, ok := EmailFrom(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized access")
		}
		if q := c.Query("email"); q != "" && !strings.EqualFold(q, email) {
			return fiber.NewError(fiber.StatusForbidden, "Forbidden access")
		}
		return c.Next()
	}
}
