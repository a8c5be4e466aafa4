package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
)

// ErrSchemaUnsupported wraps structural database failures: the statement
// referenced a table or column the currently-deployed schema does not have.
// The session manager treats it as "try the other layout", never as a data
// error.
var ErrSchemaUnsupported = errors.New("session schema element not deployed")

// SchemaCapability is the session storage strategy, probed once at startup
// instead of being rediscovered per call.
type SchemaCapability int

const (
	LegacyOnly SchemaCapability = iota
	ModernOnly
	Both
)

func (c SchemaCapability) HasModern() bool { return c == ModernOnly || c == Both }
func (c SchemaCapability) HasLegacy() bool { return c == LegacyOnly || c == Both }

func (c SchemaCapability) String() string {
	switch c {
	case LegacyOnly:
		return "legacy-only"
	case ModernOnly:
		return "modern-only"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

type SessionRepository interface {
	// CreateModern persists a session under the modern layout: a session row
	// keyed by the token hash plus a lookup row mapping hash to user. Both
	// writes happen in one short transaction so a structural failure leaves
	// no partial state behind.
	CreateModern(ctx context.Context, session *domain.Session) error

	// CreateLegacy persists a session under the legacy layout, storing the
	// plaintext token in the primary row. withCSRF includes the csrf_secret
	// column, which exists once the modern migration has run; without it the
	// insert touches only columns the original legacy schema has.
	CreateLegacy(ctx context.Context, session *domain.Session, withCSRF bool) error

	// ReadModern resolves a token hash via the lookup table, joining user
	// identity fields and filtering out expired rows. Returns (nil, nil)
	// when no live session matches.
	ReadModern(ctx context.Context, tokenHash string) (*domain.AuthSession, error)

	// ReadLegacy resolves a plaintext token against the primary session row.
	// withCSRF selects the csrf_secret column, which only exists once the
	// modern migration has run.
	ReadLegacy(ctx context.Context, token string, withCSRF bool) (*domain.AuthSession, error)

	// DeleteLookup removes the secondary lookup row for a token hash.
	DeleteLookup(ctx context.Context, tokenHash string) error

	// DeleteSession removes the primary session row matching either the
	// plaintext token or its hash.
	DeleteSession(ctx context.Context, token, tokenHash string) error

	// DeleteByUser removes every session row (and lookup row, where the
	// table exists) belonging to a user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	// Touch updates the last-activity timestamp on the primary row.
	Touch(ctx context.Context, token, tokenHash string) error
}
