package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
)

// SessionService creates, resolves and destroys bearer-token sessions across
// the two session storage layouts. The layout strategy is fixed at
// construction from the startup schema probe; per-call structural failures
// still fall back to the legacy layout so a mid-deploy schema change cannot
// strand logins.
type SessionService struct {
	sessions   repository.SessionRepository
	capability repository.SchemaCapability
	ttl        time.Duration
}

func NewSessionService(sessions repository.SessionRepository, capability repository.SchemaCapability, ttl time.Duration) *SessionService {
	return &SessionService{
		sessions:   sessions,
		capability: capability,
		ttl:        ttl,
	}
}

// Capability reports the storage strategy the service was built with.
func (s *SessionService) Capability() repository.SchemaCapability {
	return s.capability
}

// Create issues a new session for a user: a 256-bit bearer token plus an
// independent 256-bit CSRF secret. The caller receives the same pair
// whichever layout stored it.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID, ip, userAgent string) (*domain.SessionCredentials, error) {
	token, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	csrfSecret, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate csrf secret: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		UserID:     userID,
		CSRFSecret: csrfSecret,
		IPAddress:  ip,
		UserAgent:  userAgent,
		ExpiresAt:  now.Add(s.ttl),
		CreatedAt:  now,
		LastSeenAt: now,
	}

	if s.capability.HasModern() {
		modern := *session
		modern.TokenRef = hashToken(token)
		err := s.sessions.CreateModern(ctx, &modern)
		if err == nil {
			return &domain.SessionCredentials{Token: token, CSRFSecret: csrfSecret}, nil
		}
		if !errors.Is(err, repository.ErrSchemaUnsupported) || !s.capability.HasLegacy() {
			return nil, err
		}
		log.Printf("[SCHEMA_FALLBACK] session create falling back to legacy layout: %v", err)
	}

	legacy := *session
	legacy.TokenRef = token

	// The csrf_secret column survives even when the lookup table is what went
	// missing, so the legacy write keeps the independent secret whenever the
	// capability says the column is deployed.
	if s.capability.HasModern() {
		err := s.sessions.CreateLegacy(ctx, &legacy, true)
		if err == nil {
			return &domain.SessionCredentials{Token: token, CSRFSecret: csrfSecret}, nil
		}
		if !errors.Is(err, repository.ErrSchemaUnsupported) {
			return nil, err
		}
		log.Printf("[SCHEMA_FALLBACK] legacy session create retrying without csrf column: %v", err)
	}

	legacy.CSRFSecret = ""
	if err := s.sessions.CreateLegacy(ctx, &legacy, false); err != nil {
		return nil, err
	}

	// Without the csrf_secret column there is nowhere to keep an independent
	// secret, so reads will reconstruct it from the token. Hand back the same
	// value the read path will derive.
	return &domain.SessionCredentials{Token: token, CSRFSecret: token}, nil
}

// Read resolves a bearer token to a live session joined with the owning
// user's identity fields. Returns (nil, nil) for unknown, expired or empty
// tokens.
func (s *SessionService) Read(ctx context.Context, token string) (*domain.AuthSession, error) {
	if token == "" {
		return nil, nil
	}

	if s.capability.HasModern() {
		session, err := s.sessions.ReadModern(ctx, hashToken(token))
		if err == nil && session != nil {
			return session, nil
		}
		if err != nil {
			if !errors.Is(err, repository.ErrSchemaUnsupported) || !s.capability.HasLegacy() {
				return nil, err
			}
			log.Printf("[SCHEMA_FALLBACK] session read falling back to legacy layout: %v", err)
		}
		// A miss also falls through: sessions issued under the legacy layout
		// before the migration are stored by plaintext token and cannot be
		// found by hash.
		if !s.capability.HasLegacy() {
			return nil, nil
		}
	}

	session, err := s.readLegacy(ctx, token)
	if err != nil || session == nil {
		return nil, err
	}

	if session.CSRFSecret == "" {
		// Interim measure while csrf_secret is not deployed or backfilled:
		// the token doubles as the CSRF secret. Weaker than an independent
		// secret, removed by migration 0002's backfill.
		log.Printf("[SCHEMA_FALLBACK] legacy session has no csrf secret, defaulting to token")
		session.CSRFSecret = token
	}

	return session, nil
}

func (s *SessionService) readLegacy(ctx context.Context, token string) (*domain.AuthSession, error) {
	withCSRF := s.capability.HasModern()
	session, err := s.sessions.ReadLegacy(ctx, token, withCSRF)
	if err != nil && withCSRF && errors.Is(err, repository.ErrSchemaUnsupported) {
		// The csrf_secret column vanished between the probe and this call.
		session, err = s.sessions.ReadLegacy(ctx, token, false)
	}
	return session, err
}

// Destroy deletes a session wherever it lives. The two sub-deletions are
// isolated: a structural failure of one is logged and never stops the other,
// and destroying an unknown token is a silent no-op. An error surfaces only
// when the session row deletion itself fails for a non-structural reason.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	tokenHash := hashToken(token)

	var failures []error

	if s.capability.HasModern() {
		if err := s.sessions.DeleteLookup(ctx, tokenHash); err != nil {
			log.Printf("[SESSION] warning: lookup delete failed during destroy: %v", err)
			if !errors.Is(err, repository.ErrSchemaUnsupported) {
				failures = append(failures, err)
			}
		}
	}

	if err := s.sessions.DeleteSession(ctx, token, tokenHash); err != nil {
		log.Printf("[SESSION] warning: session delete failed during destroy: %v", err)
		if !errors.Is(err, repository.ErrSchemaUnsupported) {
			failures = append(failures, err)
		}
		return errors.Join(failures...)
	}

	return nil
}

// DestroyAllForUser removes every session a user owns, e.g. after a password
// change.
func (s *SessionService) DestroyAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.DeleteByUser(ctx, userID)
}

// Touch records session activity. Best effort: failures are logged, never
// surfaced.
func (s *SessionService) Touch(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessions.Touch(ctx, token, hashToken(token)); err != nil {
		log.Printf("[SESSION] warning: failed to touch session: %v", err)
	}
}

// hashToken computes the one-way reference stored for a bearer token under
// the modern layout.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
