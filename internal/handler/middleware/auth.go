package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/service"
)

// SessionCookieName carries the bearer token for customer-facing sessions.
// Admin API clients send the same token as an Authorization bearer instead.
const SessionCookieName = "sbs_session"

// SessionCookieMaxAge matches the server-side session TTL.
const SessionCookieMaxAge = 30 * 24 * time.Hour

const (
	localsSession = "session"
	localsToken   = "session_token"
)

// TokenFromRequest extracts the bearer token from the session cookie or, for
// API clients, the Authorization header. Cookie wins when both are present.
func TokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookieName); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// SetSessionCookie attaches the session cookie to a response.
func SetSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionCookieMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie so a stale or invalid cookie
// is never silently retried.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SessionFromCtx returns the session resolved by RequireSession, or nil on
// routes that did not pass through it.
func SessionFromCtx(c *fiber.Ctx) *domain.AuthSession {
	session, _ := c.Locals(localsSession).(*domain.AuthSession)
	return session
}

// TokenFromCtx returns the raw bearer token stored by RequireSession.
func TokenFromCtx(c *fiber.Ctx) string {
	token, _ := c.Locals(localsToken).(string)
	return token
}

func unauthorized(c *fiber.Ctx) error {
	ClearSessionCookie(c)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

// RequireSession resolves the request's bearer token to a live session and
// stores it in locals. Authentication failures respond 401 and clear the
// session cookie.
func RequireSession(sessions *service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)
		if token == "" {
			return unauthorized(c)
		}

		session, err := sessions.Read(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to resolve session",
			})
		}
		if session == nil {
			return unauthorized(c)
		}

		sessions.Touch(c.Context(), token)

		c.Locals(localsSession, session)
		c.Locals(localsToken, token)
		return c.Next()
	}
}
