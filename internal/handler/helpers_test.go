package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/handler/middleware"
)

func errorApp(err error) *fiber.App {
	app := fiber.New()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return respondError(c, err)
	})
	return app
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestRespondErrorStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", domain.ErrValidation, fiber.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, fiber.StatusForbidden},
		{"not found", domain.ErrNotFound, fiber.StatusNotFound},
		{"email taken", domain.ErrEmailTaken, fiber.StatusConflict},
		{"account locked", domain.ErrAccountLocked, fiber.StatusLocked},
		{"unknown error", errors.New("pq: connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			app := errorApp(tt.err)

			resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

// Every authentication-failure 401 must clear the session cookie, so a client
// holding a stale or wrong cookie never retries it. Bad credentials and
// unresolvable sessions behave the same way.
func TestRespondErrorClearsSessionCookieOn401(t *testing.T) {
	t.Parallel()

	for _, authErr := range []error{domain.ErrInvalidCredentials, domain.ErrUnauthorized} {
		authErr := authErr
		t.Run(authErr.Error(), func(t *testing.T) {
			t.Parallel()
			app := errorApp(authErr)

			req := httptest.NewRequest("GET", "/fail", nil)
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "stale-token"})

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			cookie := sessionCookie(t, resp)
			require.NotNil(t, cookie, "401 must send an expiring session cookie")
			assert.Empty(t, cookie.Value)
			assert.True(t, cookie.Expires.Before(time.Now()), "session cookie must be expired")
		})
	}
}

// Non-authentication errors must leave the client's session cookie alone.
func TestRespondErrorKeepsCookieOnOtherStatuses(t *testing.T) {
	t.Parallel()

	app := errorApp(domain.ErrNotFound)

	req := httptest.NewRequest("GET", "/fail", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "live-token"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Nil(t, sessionCookie(t, resp))
}
