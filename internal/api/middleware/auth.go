package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"patient-management-service/internal/services"
)

// SubjectKey is the fiber Locals key holding the authenticated subject.
const SubjectKey = "subject"

// RequireJWT rejects requests without a valid bearer token. A nil auth
// service disables the check.
func RequireJWT(auth services.AuthServiceContract) fiber.Handler {
	if auth == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return services.ErrUnauthorized
		}
		subject, err := auth.Verify(strings.TrimSpace(token))
		if err != nil {
			return services.ErrUnauthorized
		}
		c.Locals(SubjectKey, subject)
		return c.Next()
	}
}
