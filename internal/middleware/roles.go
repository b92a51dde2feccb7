package middleware

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	app_errors "github.com/neolist/neolist/internal/errors"
)

// RequireRoles prüft, ob die Rolle in c.Locals("role") eine der erlaubten ist.
// Ohne Rolle gibt es 401, mit falscher Rolle 403.
func RequireRoles(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role == "" {
			return unauthorized("auth.unauthorized", nil)
		}

		if slices.Contains(allowedRoles, role) {
			return c.Next()
		}
		return app_errors.Forbidden("auth.forbidden_role")
	}
}
