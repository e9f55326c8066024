package middleware

import (
	"context"
	"strings"

	"vinemarket-backend/internal/domain"
	"vinemarket-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const identityLocal = "identity"

// TokenVerifier turns a bearer token into a verified identity.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*domain.Identity, error)
}

// OptionalAuth attaches the caller's identity when a valid bearer token is
// present. Anonymous requests and bad tokens pass through without one.
func OptionalAuth(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v == nil {
			return c.Next()
		}
		token, ok := bearerToken(c)
		if !ok {
			return c.Next()
		}
		id, err := v.Verify(c.UserContext(), token)
		if err != nil {
			log.Debug().Err(err).Str("trace_id", GetTraceID(c)).Msg("Ignoring invalid ID token")
			return c.Next()
		}
		SetIdentity(c, id)
		return c.Next()
	}
}

// RequireAuth verifies the bearer token. Returns 401 with standard error format if it is missing or invalid.
func RequireAuth(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetIdentity(c) != nil {
			return c.Next()
		}
		token, ok := bearerToken(c)
		if !ok {
			return response.Unauthorized(c, "Authorization header must be in Bearer format")
		}
		if v == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		id, err := v.Verify(c.UserContext(), token)
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired ID token")
		}
		SetIdentity(c, id)
		return c.Next()
	}
}

// SetIdentity stores the verified caller on the request.
func SetIdentity(c *fiber.Ctx, id *domain.Identity) {
	c.Locals(identityLocal, id)
}

// GetIdentity returns the verified caller (nil if anonymous).
func GetIdentity(c *fiber.Ctx) *domain.Identity {
	id, _ := c.Locals(identityLocal).(*domain.Identity)
	return id
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
