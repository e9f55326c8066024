package middleware

import (
	"vinemarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin allows only callers whose token carries the admin claim.
// Must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !id.Admin {
			return response.Forbidden(c, "User is Forbidden from performing this action")
		}
		return c.Next()
	}
}
