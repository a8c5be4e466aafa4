package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
)

type sessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Postgres error codes for undefined table / undefined column. Any statement
// failing with one of these hit a schema element that is not deployed yet.
const (
	pqUndefinedTable  = "42P01"
	pqUndefinedColumn = "42703"
)

func wrapStructural(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == pqUndefinedTable || pqErr.Code == pqUndefinedColumn) {
		return fmt.Errorf("%s: %w (%s)", op, repository.ErrSchemaUnsupported, pqErr.Code)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CreateModern inserts the hash-keyed session row and its lookup row inside
// one transaction. A structural failure rolls the whole write back, so the
// legacy fallback never races a half-written modern session.
func (r *sessionRepository) CreateModern(ctx context.Context, session *domain.Session) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sessionQuery := `
		INSERT INTO sessions (
			token_ref, user_id, csrf_secret, ip_address,
			user_agent, expires_at, created_at, last_seen_at
		) VALUES (
			:token_ref, :user_id, :csrf_secret, :ip_address,
			:user_agent, :expires_at, :created_at, :last_seen_at
		)`

	if _, err := tx.NamedExecContext(ctx, sessionQuery, session); err != nil {
		return wrapStructural("failed to create modern session", err)
	}

	lookupQuery := `
		INSERT INTO session_lookups (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)`

	if _, err := tx.ExecContext(ctx, lookupQuery, session.TokenRef, session.UserID, session.ExpiresAt); err != nil {
		return wrapStructural("failed to create session lookup", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session create: %w", err)
	}
	return nil
}

// CreateLegacy inserts the plaintext-token session row. The csrf_secret
// column is included only when withCSRF says it exists; otherwise the insert
// touches only columns the original legacy schema has.
func (r *sessionRepository) CreateLegacy(ctx context.Context, session *domain.Session, withCSRF bool) error {
	query := `
		INSERT INTO sessions (
			token_ref, user_id, ip_address, user_agent,
			expires_at, created_at, last_seen_at
		) VALUES (
			:token_ref, :user_id, :ip_address, :user_agent,
			:expires_at, :created_at, :last_seen_at
		)`
	if withCSRF {
		query = `
		INSERT INTO sessions (
			token_ref, user_id, csrf_secret, ip_address,
			user_agent, expires_at, created_at, last_seen_at
		) VALUES (
			:token_ref, :user_id, :csrf_secret, :ip_address,
			:user_agent, :expires_at, :created_at, :last_seen_at
		)`
	}

	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return wrapStructural("failed to create legacy session", err)
	}
	return nil
}

type authSessionRow struct {
	UserID         uuid.UUID `db:"user_id"`
	Email          string    `db:"email"`
	Name           string    `db:"name"`
	Role           string    `db:"role"`
	IsAllowlisted  bool      `db:"is_allowlisted"`
	AdminAllowlist int64     `db:"admin_allowlist"`
	CSRFSecret     string    `db:"csrf_secret"`
	ExpiresAt      time.Time `db:"expires_at"`
}

func (row *authSessionRow) toAuthSession(legacy bool) *domain.AuthSession {
	allowlisted := row.IsAllowlisted
	if legacy {
		allowlisted = domain.AllowlistedFromLegacy(row.AdminAllowlist)
	}
	return &domain.AuthSession{
		UserID:        row.UserID,
		Email:         row.Email,
		Name:          row.Name,
		Role:          domain.Role(row.Role),
		IsAllowlisted: allowlisted,
		CSRFSecret:    row.CSRFSecret,
		ExpiresAt:     row.ExpiresAt,
	}
}

// ReadModern resolves a token hash through the lookup table, joining user
// fields in the same query and filtering expired sessions.
func (r *sessionRepository) ReadModern(ctx context.Context, tokenHash string) (*domain.AuthSession, error) {
	query := `
		SELECT s.user_id, u.email, u.name, u.role, u.is_allowlisted,
		       0 AS admin_allowlist, s.csrf_secret, s.expires_at
		FROM session_lookups l
		JOIN sessions s ON s.token_ref = l.token_hash
		JOIN users u ON u.id = l.user_id
		WHERE l.token_hash = $1 AND s.expires_at > $2`

	var row authSessionRow
	err := r.db.GetContext(ctx, &row, query, tokenHash, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStructural("failed to read modern session", err)
	}

	return row.toAuthSession(false), nil
}

// ReadLegacy resolves a plaintext token against the primary session row. The
// csrf_secret column is selected only when withCSRF says the column exists.
func (r *sessionRepository) ReadLegacy(ctx context.Context, token string, withCSRF bool) (*domain.AuthSession, error) {
	csrfExpr := "'' AS csrf_secret"
	if withCSRF {
		csrfExpr = "s.csrf_secret"
	}

	query := fmt.Sprintf(`
		SELECT s.user_id, u.email, u.name, u.role, FALSE AS is_allowlisted,
		       u.admin_allowlist, %s, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_ref = $1 AND s.expires_at > $2`, csrfExpr)

	var row authSessionRow
	err := r.db.GetContext(ctx, &row, query, token, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStructural("failed to read legacy session", err)
	}

	return row.toAuthSession(true), nil
}

// DeleteLookup removes the secondary lookup row. Missing rows are a no-op.
func (r *sessionRepository) DeleteLookup(ctx context.Context, tokenHash string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_lookups WHERE token_hash = $1`, tokenHash); err != nil {
		return wrapStructural("failed to delete session lookup", err)
	}
	return nil
}

// DeleteSession removes the primary row whichever layout stored it: the
// token_ref matches either the plaintext token or its hash.
func (r *sessionRepository) DeleteSession(ctx context.Context, token, tokenHash string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_ref IN ($1, $2)`, token, tokenHash); err != nil {
		return wrapStructural("failed to delete session", err)
	}
	return nil
}

// DeleteByUser removes every session belonging to a user. The lookup table
// is cleaned up when deployed; its absence is not an error.
func (r *sessionRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_lookups WHERE user_id = $1`, userID); err != nil {
		wrapped := wrapStructural("failed to delete user session lookups", err)
		if !errors.Is(wrapped, repository.ErrSchemaUnsupported) {
			return wrapped
		}
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// Touch updates the last-activity timestamp, matching either token form.
func (r *sessionRepository) Touch(ctx context.Context, token, tokenHash string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE sessions SET last_seen_at = $1 WHERE token_ref IN ($2, $3)`, time.Now(), token, tokenHash); err != nil {
		return wrapStructural("failed to touch session", err)
	}
	return nil
}
