package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/csrf"
)

func newGateApp(session *domain.AuthSession, gate fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if session != nil {
			c.Locals(localsSession, session)
		}
		return c.Next()
	})
	app.Get("/guarded", gate, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func testSession(role domain.Role, allowlisted bool) *domain.AuthSession {
	return &domain.AuthSession{
		UserID:        uuid.New(),
		Email:         "user@example.com",
		Name:          "User",
		Role:          role,
		IsAllowlisted: allowlisted,
		CSRFSecret:    "secret-value",
		ExpiresAt:     time.Now().Add(time.Hour),
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		session    *domain.AuthSession
		wantStatus int
	}{
		{"admin on allowlist", testSession(domain.RoleAdmin, true), fiber.StatusOK},
		{"admin off allowlist", testSession(domain.RoleAdmin, false), fiber.StatusForbidden},
		{"customer on allowlist", testSession(domain.RoleCustomer, true), fiber.StatusForbidden},
		{"customer off allowlist", testSession(domain.RoleCustomer, false), fiber.StatusForbidden},
		{"no session", nil, fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			app := newGateApp(tt.session, RequireAdmin())

			resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

// Legacy allowlist values were loose integers; anything nonzero counted.
func TestAllowlistedFromLegacy(t *testing.T) {
	t.Parallel()

	assert.False(t, domain.AllowlistedFromLegacy(0))
	assert.True(t, domain.AllowlistedFromLegacy(1))
	assert.True(t, domain.AllowlistedFromLegacy(7))
	assert.True(t, domain.AllowlistedFromLegacy(-1))
}

func TestRequireCSRF(t *testing.T) {
	t.Parallel()

	session := testSession(domain.RoleCustomer, false)
	expected := csrf.Derive(session.CSRFSecret)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", expected, fiber.StatusOK},
		{"missing header", "", fiber.StatusForbidden},
		{"wrong token", csrf.Derive("other-secret"), fiber.StatusForbidden},
		{"raw secret instead of derived token", session.CSRFSecret, fiber.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			app := newGateApp(session, RequireCSRF())

			req := httptest.NewRequest("GET", "/guarded", nil)
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequireCSRFWithoutSession(t *testing.T) {
	t.Parallel()

	app := newGateApp(nil, RequireCSRF())

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/token", func(c *fiber.Ctx) error {
		return c.SendString(TokenFromRequest(c))
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/token", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "cookie-token", string(body))
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/token", nil)
		req.Header.Set("Authorization", "Bearer header-token")

		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "header-token", string(body))
	})

	t.Run("malformed header ignored", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/token", nil)
		req.Header.Set("Authorization", "Basic abc123")

		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Empty(t, string(body))
	})
}
