// Package middleware provides request middleware for the API surface.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/penaltybox/penaltybox/internal/auth"
	"github.com/penaltybox/penaltybox/internal/models"
)

// identityKey is the fiber.Ctx locals key for the authenticated identity.
const identityKey = "identity"

// Identity extracts the authenticated identity from the request context.
// The zero Identity and false are returned for unauthenticated requests.
func Identity(c *fiber.Ctx) (models.Identity, bool) {
	identity, ok := c.Locals(identityKey).(models.Identity)
	return identity, ok
}

// SetIdentity stores an identity on the request context. Exposed for
// tests that bypass token validation.
func SetIdentity(c *fiber.Ctx, identity models.Identity) {
	c.Locals(identityKey, identity)
}

// RequireAuth validates the Bearer token and stores the caller's identity
// on the request context. Requests without a valid token are rejected.
func RequireAuth(jwtManager *auth.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, auth.ErrMissingToken.Error())
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, auth.ErrInvalidToken.Error())
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, auth.ErrInvalidToken.Error())
		}

		SetIdentity(c, claims.Identity())
		return c.Next()
	}
}

// RequireAdmin allows only instance admins through. Must run after
// RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := Identity(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, auth.ErrMissingToken.Error())
		}
		if !identity.Admin {
			return fiber.NewError(fiber.StatusForbidden, "admin required")
		}
		return c.Next()
	}
}
