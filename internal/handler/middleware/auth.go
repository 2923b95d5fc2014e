package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LocalsUserID is the fiber.Ctx locals key holding the authenticated user id.
const LocalsUserID = "user_id"

// TokenAuthenticator verifies a bearer token and returns its user id.
type TokenAuthenticator interface {
	Authenticate(token string) (uuid.UUID, error)
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(auth TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or malformed authorization header"})
		}

		userID, err := auth.Authenticate(token)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("rejected bearer token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(LocalsUserID, userID)
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(auth TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if userID, err := auth.Authenticate(token); err == nil {
				c.Locals(LocalsUserID, userID)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id, or uuid.Nil for an anonymous request.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, ok := c.Locals(LocalsUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
