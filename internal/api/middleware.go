package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Nirmalamangrati/BackendOfPostflow/internal/auth"
)

// TokenVerifier resolves a bearer credential to a caller identity.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

const localUserID = "user_id"

// RequireAuth rejects requests without a valid bearer token and stores the
// caller id in locals for handlers.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No token provided"})
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}
		claims, err := verifier.Verify(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}
		c.Locals(localUserID, claims.ID)
		return c.Next()
	}
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}
