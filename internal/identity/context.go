package identity

import (
	"errors"
	"strconv"

	"github.com/caresync/caresync/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const currentUserKey = "current_user"

// UserID extracts the subject user id from the verified JWT claims in
// the Fiber context.
func UserID(c *fiber.Ctx) (uint, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return 0, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("missing sub claim")
	}

	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, errors.New("malformed sub claim")
	}
	return uint(id), nil
}

// SetCurrent stores the resolved user on the request context.
func SetCurrent(c *fiber.Ctx, user *models.User) {
	c.Locals(currentUserKey, user)
}

// Current returns the user resolved by the current-user middleware, or
// nil when the request is unauthenticated.
func Current(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}
