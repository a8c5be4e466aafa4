package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
)

func structuralErr(what string) error {
	return fmt.Errorf("%s: %w", what, repository.ErrSchemaUnsupported)
}

type fakeUser struct {
	email          string
	role           domain.Role
	adminAllowlist int64
}

// fakeSessionRepo is an in-memory SessionRepository. Sessions live in one map
// keyed by token_ref, mirroring the real table; the lookups map mirrors the
// secondary table. The fail* hooks inject structural failures per operation.
type fakeSessionRepo struct {
	sessions map[string]*domain.Session
	lookups  map[string]uuid.UUID
	users    map[uuid.UUID]fakeUser

	csrfColumn bool // whether sessions.csrf_secret "exists"

	failCreateModern error
	failReadModern   error
	failDeleteLookup error
	failDeleteSess   error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:   map[string]*domain.Session{},
		lookups:    map[string]uuid.UUID{},
		users:      map[uuid.UUID]fakeUser{},
		csrfColumn: true,
	}
}

func (f *fakeSessionRepo) addUser(role domain.Role, adminAllowlist int64) uuid.UUID {
	id := uuid.New()
	f.users[id] = fakeUser{email: id.String() + "@example.com", role: role, adminAllowlist: adminAllowlist}
	return id
}

func (f *fakeSessionRepo) CreateModern(ctx context.Context, session *domain.Session) error {
	if f.failCreateModern != nil {
		return f.failCreateModern
	}
	copied := *session
	f.sessions[session.TokenRef] = &copied
	f.lookups[session.TokenRef] = session.UserID
	return nil
}

func (f *fakeSessionRepo) CreateLegacy(ctx context.Context, session *domain.Session, withCSRF bool) error {
	if withCSRF && !f.csrfColumn {
		return structuralErr("csrf_secret column missing")
	}
	copied := *session
	if !withCSRF {
		copied.CSRFSecret = "" // insert without the csrf_secret column
	}
	f.sessions[session.TokenRef] = &copied
	return nil
}

func (f *fakeSessionRepo) auth(session *domain.Session, legacy bool, csrf string) *domain.AuthSession {
	u := f.users[session.UserID]
	allowlisted := domain.AllowlistedFromLegacy(u.adminAllowlist)
	return &domain.AuthSession{
		UserID:        session.UserID,
		Email:         u.email,
		Role:          u.role,
		IsAllowlisted: allowlisted,
		CSRFSecret:    csrf,
		ExpiresAt:     session.ExpiresAt,
	}
}

func (f *fakeSessionRepo) ReadModern(ctx context.Context, tokenHash string) (*domain.AuthSession, error) {
	if f.failReadModern != nil {
		return nil, f.failReadModern
	}
	if _, ok := f.lookups[tokenHash]; !ok {
		return nil, nil
	}
	session, ok := f.sessions[tokenHash]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return f.auth(session, false, session.CSRFSecret), nil
}

func (f *fakeSessionRepo) ReadLegacy(ctx context.Context, token string, withCSRF bool) (*domain.AuthSession, error) {
	if withCSRF && !f.csrfColumn {
		return nil, structuralErr("csrf_secret column missing")
	}
	session, ok := f.sessions[token]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	csrf := ""
	if withCSRF {
		csrf = session.CSRFSecret
	}
	return f.auth(session, true, csrf), nil
}

func (f *fakeSessionRepo) DeleteLookup(ctx context.Context, tokenHash string) error {
	if f.failDeleteLookup != nil {
		return f.failDeleteLookup
	}
	delete(f.lookups, tokenHash)
	return nil
}

func (f *fakeSessionRepo) DeleteSession(ctx context.Context, token, tokenHash string) error {
	if f.failDeleteSess != nil {
		return f.failDeleteSess
	}
	delete(f.sessions, token)
	delete(f.sessions, tokenHash)
	return nil
}

func (f *fakeSessionRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	for ref, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, ref)
		}
	}
	for hash, uid := range f.lookups {
		if uid == userID {
			delete(f.lookups, hash)
		}
	}
	return nil
}

func (f *fakeSessionRepo) Touch(ctx context.Context, token, tokenHash string) error {
	return nil
}

func newService(repo *fakeSessionRepo, capability repository.SchemaCapability) *SessionService {
	return NewSessionService(repo, capability, 30*24*time.Hour)
}

func TestCreateReadModern(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.Both)

	creds, err := svc.Create(context.Background(), userID, "203.0.113.7", "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, creds.Token)
	require.NotEmpty(t, creds.CSRFSecret)
	assert.NotEqual(t, creds.Token, creds.CSRFSecret, "csrf secret must be independent of the token")

	session, err := svc.Read(context.Background(), creds.Token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, creds.CSRFSecret, session.CSRFSecret)

	// Stored reference is a hash, never the plaintext token.
	_, plaintextStored := repo.sessions[creds.Token]
	assert.False(t, plaintextStored)
}

func TestReadTamperedToken(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.Both)

	creds, err := svc.Create(context.Background(), userID, "", "")
	require.NoError(t, err)

	// Flip one nibble of the valid token.
	tampered := []byte(creds.Token)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}

	session, err := svc.Read(context.Background(), string(tampered))
	require.NoError(t, err)
	assert.Nil(t, session)

	session, err = svc.Read(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestCreateFallsBackToLegacy(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	repo.csrfColumn = false
	repo.failCreateModern = structuralErr("session_lookups missing")
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.Both)

	creds, err := svc.Create(context.Background(), userID, "", "")
	require.NoError(t, err)
	require.NotEmpty(t, creds.Token)

	// With neither the lookup table nor the csrf_secret column deployed the
	// row stores the plaintext token and nothing can hold a separate secret,
	// so the returned secret matches what reads reconstruct.
	_, plaintextStored := repo.sessions[creds.Token]
	assert.True(t, plaintextStored)
	assert.Equal(t, creds.Token, creds.CSRFSecret)

	session, err := svc.Read(context.Background(), creds.Token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, creds.Token, session.CSRFSecret)
}

func TestCreateLegacyFallbackKeepsCSRFSecret(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	repo.failCreateModern = structuralErr("session_lookups missing")
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.Both)

	creds, err := svc.Create(context.Background(), userID, "", "")
	require.NoError(t, err)

	// Only the lookup table is gone; the csrf_secret column still exists, so
	// the legacy row keeps an independent secret instead of the token.
	_, plaintextStored := repo.sessions[creds.Token]
	assert.True(t, plaintextStored)
	assert.NotEqual(t, creds.Token, creds.CSRFSecret)

	session, err := svc.Read(context.Background(), creds.Token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, creds.CSRFSecret, session.CSRFSecret)
}

func TestCreateModernFailureWithoutLegacySurfaces(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	repo.failCreateModern = structuralErr("session_lookups missing")
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.ModernOnly)

	_, err := svc.Create(context.Background(), userID, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrSchemaUnsupported)
}

func TestLegacyOnlyRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	repo.csrfColumn = false
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.LegacyOnly)

	creds, err := svc.Create(context.Background(), userID, "", "")
	require.NoError(t, err)

	session, err := svc.Read(context.Background(), creds.Token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, creds.Token, session.CSRFSecret)
}

func TestReadFallsBackOnStructuralError(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.Both)

	creds, err := svc.Create(context.Background(), userID, "", "")
	require.NoError(t, err)

	// The lookup table disappears after creation; the modern read now fails
	// structurally and the session is unreachable by hash, so the legacy
	// fallback runs and (correctly) finds nothing.
	repo.failReadModern = structuralErr("session_lookups dropped")
	session, err := svc.Read(context.Background(), creds.Token)
	require.NoError(t, err)
	assert.Nil(t, session)

	// A legacy-stored session stays resolvable through the same fallback.
	legacy := &domain.Session{
		TokenRef:  "legacy-token",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.CreateLegacy(context.Background(), legacy, false))

	session, err = svc.Read(context.Background(), "legacy-token")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "legacy-token", session.CSRFSecret)
}

func TestReadExpiredSession(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.Both)

	expired := &domain.Session{
		TokenRef:   hashToken("expired-token"),
		UserID:     userID,
		CSRFSecret: "secret",
		ExpiresAt:  time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.CreateModern(context.Background(), expired))

	session, err := svc.Read(context.Background(), "expired-token")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestDestroy(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.Both)

	creds, err := svc.Create(context.Background(), userID, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Destroy(context.Background(), creds.Token))

	session, err := svc.Read(context.Background(), creds.Token)
	require.NoError(t, err)
	assert.Nil(t, session)

	// Destroying again, or destroying garbage, is a silent no-op.
	require.NoError(t, svc.Destroy(context.Background(), creds.Token))
	require.NoError(t, svc.Destroy(context.Background(), "never-existed"))
}

func TestDestroySurvivesLookupTableLoss(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.Both)

	creds, err := svc.Create(context.Background(), userID, "", "")
	require.NoError(t, err)

	// The secondary lookup table becomes unavailable before logout. The
	// primary-row deletion must still run and succeed.
	repo.failDeleteLookup = structuralErr("session_lookups dropped")
	require.NoError(t, svc.Destroy(context.Background(), creds.Token))

	_, hashStored := repo.sessions[hashToken(creds.Token)]
	assert.False(t, hashStored, "primary session row must be gone")
}

func TestDestroyPrimaryFailureSurfaces(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	userID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.Both)

	creds, err := svc.Create(context.Background(), userID, "", "")
	require.NoError(t, err)

	repo.failDeleteSess = fmt.Errorf("connection reset")
	err = svc.Destroy(context.Background(), creds.Token)
	require.Error(t, err)
}

func TestDestroyAllForUser(t *testing.T) {
	t.Parallel()

	repo := newFakeSessionRepo()
	userID := repo.addUser(domain.RoleCustomer, 0)
	otherID := repo.addUser(domain.RoleCustomer, 0)
	svc := newService(repo, repository.Both)

	mine, err := svc.Create(context.Background(), userID, "", "")
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), otherID, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.DestroyAllForUser(context.Background(), userID))

	session, err := svc.Read(context.Background(), mine.Token)
	require.NoError(t, err)
	assert.Nil(t, session)

	session, err = svc.Read(context.Background(), other.Token)
	require.NoError(t, err)
	require.NotNil(t, session, "other users' sessions must survive")
}
