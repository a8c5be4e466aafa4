package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/csrf"
)

// CSRFHeaderName is required on every state-mutating authenticated customer
// route.
const CSRFHeaderName = "X-CSRF-Token"

// RequireCSRF recomputes the expected token from the session's CSRF secret
// and compares it against the request header. Missing or mismatched tokens
// are an authorization failure, never a server error. Runs after
// RequireSession.
func RequireCSRF() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := SessionFromCtx(c)
		if session == nil {
			return unauthorized(c)
		}

		if !csrf.Verify(c.Get(CSRFHeaderName), session.CSRFSecret) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: invalid CSRF token",
			})
		}

		return c.Next()
	}
}
