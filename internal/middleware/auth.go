package middleware

import (
	"errors"

	"github.com/caresync/caresync/internal/config"
	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/identity"
	"github.com/caresync/caresync/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// CurrentUser resolves the token subject to an active account and
// stores it on the context. Runs after JWTProtected on every protected
// route, so handlers always derive role and identity from the database
// row, never from request fields.
func CurrentUser(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := identity.UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid or expired token",
			})
		}

		user, err := authService.ResolveSubject(userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: true, Message: "Unauthorized: invalid or expired token",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}

		identity.SetCurrent(c, user)
		return c.Next()
	}
}
