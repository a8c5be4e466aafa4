package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireAdmin gates admin routes. The session must carry the admin role AND
// be on the allowlist; a matching role alone is never enough. Runs after
// RequireSession.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := SessionFromCtx(c)
		if session == nil {
			return unauthorized(c)
		}

		if !session.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: admin access required",
			})
		}

		return c.Next()
	}
}
