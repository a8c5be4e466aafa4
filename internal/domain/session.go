package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the stored session row. TokenRef holds the SHA-256 of the bearer
// token under the modern schema, or the plaintext token itself under the
// legacy schema. Callers never see which.
type Session struct {
	TokenRef   string    `json:"-" db:"token_ref"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	CSRFSecret string    `json:"-" db:"csrf_secret"`
	IPAddress  string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  string    `json:"user_agent,omitempty" db:"user_agent"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at" db:"last_seen_at"`
}

// AuthSession is a session resolved for a request, joined with the owning
// user's identity fields. Handlers must treat CSRFSecret as write-once and
// never forward it outside the CSRF check.
type AuthSession struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Email         string    `json:"email" db:"email"`
	Name          string    `json:"name" db:"name"`
	Role          Role      `json:"role" db:"role"`
	IsAllowlisted bool      `json:"is_allowlisted" db:"is_allowlisted"`
	CSRFSecret    string    `json:"-" db:"csrf_secret"`
	ExpiresAt     time.Time `json:"expires_at" db:"expires_at"`
}

// IsAdmin reports whether the session may use admin routes: the admin role is
// required and the allowlist is checked in addition to it, never instead.
func (s *AuthSession) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin && s.IsAllowlisted
}

// SessionCredentials is what login hands back to the client: the bearer token
// and the CSRF secret, identical in shape whichever schema stored them.
type SessionCredentials struct {
	Token      string `json:"token"`
	CSRFSecret string `json:"csrf_secret"`
}
