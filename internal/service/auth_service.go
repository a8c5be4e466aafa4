package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/thesbsofficial/unity-v3-sub000/internal/config"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/email"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/hash"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/token"
)

// LoginLimiter throttles failed login attempts per account.
type LoginLimiter interface {
	IsLocked(ctx context.Context, email string) (bool, error)
	RegisterFailure(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

type AuthService struct {
	userRepo     repository.UserRepository
	sessions     *SessionService
	limiter      LoginLimiter
	emailService email.EmailService
	cfg          *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessions *SessionService,
	limiter LoginLimiter,
	emailService email.EmailService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		sessions:     sessions,
		limiter:      limiter,
		emailService: emailService,
		cfg:          cfg,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserDTO struct {
	ID    uuid.UUID   `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

type AuthResponse struct {
	User       *UserDTO `json:"user"`
	Token      string   `json:"token"`
	CSRFSecret string   `json:"csrf_secret"`
}

// Register creates a new customer account. New credentials are always PBKDF2;
// the legacy verification schemes exist only for rows that predate it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, ip, userAgent string) (*AuthResponse, error) {
	derived, err := hash.HashWithIterations(req.Password, s.cfg.Auth.PBKDF2Iterations)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:                 uuid.New(),
		Email:              req.Email,
		Name:               req.Name,
		PasswordHash:       derived.Hash,
		PasswordSalt:       derived.Salt,
		PasswordHashType:   derived.Algorithm,
		PasswordIterations: derived.Iterations,
		Role:               domain.RoleCustomer,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user, ip, userAgent)
}

// Login verifies credentials against whichever hash scheme the stored record
// uses and issues a session. Records still on a legacy scheme are upgraded to
// PBKDF2 in place once the password has verified.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*AuthResponse, error) {
	locked, err := s.limiter.IsLocked(ctx, req.Email)
	if err != nil {
		log.Printf("[AUTH] warning: lockout check failed: %v", err)
	} else if locked {
		return nil, domain.ErrAccountLocked
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	record := hash.Record{
		Hash:       user.PasswordHash,
		Salt:       user.PasswordSalt,
		Algorithm:  user.PasswordHashType,
		Iterations: user.PasswordIterations,
	}

	if !hash.Verify(req.Password, record) {
		if _, err := s.limiter.RegisterFailure(ctx, req.Email); err != nil {
			log.Printf("[AUTH] warning: failed to record login failure: %v", err)
		}
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, req.Email); err != nil {
		log.Printf("[AUTH] warning: failed to reset login failures: %v", err)
	}

	if hash.NeedsRehash(record) {
		s.rehash(ctx, user, req.Password)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("[AUTH] warning: failed to update last login: %v", err)
	}

	return s.issueSession(ctx, user, ip, userAgent)
}

// rehash upgrades a verified legacy credential to the current PBKDF2
// parameters. Best effort: the login already succeeded.
func (s *AuthService) rehash(ctx context.Context, user *domain.User, password string) {
	derived, err := hash.HashWithIterations(password, s.cfg.Auth.PBKDF2Iterations)
	if err != nil {
		log.Printf("[AUTH] warning: failed to rehash credential: %v", err)
		return
	}
	err = s.userRepo.UpdateCredential(ctx, user.ID, derived.Hash, derived.Salt, derived.Algorithm, derived.Iterations)
	if err != nil {
		log.Printf("[AUTH] warning: failed to persist rehashed credential: %v", err)
		return
	}
	log.Printf("[AUTH] upgraded credential for user %s to %s", user.ID, derived.Algorithm)
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User, ip, userAgent string) (*AuthResponse, error) {
	creds, err := s.sessions.Create(ctx, user.ID, ip, userAgent)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: &UserDTO{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
		Token:      creds.Token,
		CSRFSecret: creds.CSRFSecret,
	}, nil
}

// Logout destroys the presented session. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionToken string) error {
	return s.sessions.Destroy(ctx, sessionToken)
}

// ChangePassword verifies the old password, stores a fresh PBKDF2 hash and
// destroys every session the user holds.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	record := hash.Record{
		Hash:       user.PasswordHash,
		Salt:       user.PasswordSalt,
		Algorithm:  user.PasswordHashType,
		Iterations: user.PasswordIterations,
	}
	if !hash.Verify(oldPassword, record) {
		return domain.ErrInvalidCredentials
	}

	derived, err := hash.HashWithIterations(newPassword, s.cfg.Auth.PBKDF2Iterations)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepo.UpdateCredential(ctx, user.ID, derived.Hash, derived.Salt, derived.Algorithm, derived.Iterations)
	if err != nil {
		return err
	}

	return s.sessions.DestroyAllForUser(ctx, user.ID)
}

// ForgotPassword emails a signed reset link. It deliberately reports success
// for unknown addresses so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	resetToken, err := token.GenerateReset(user.ID.String(), []byte(s.cfg.Auth.ResetTokenSecret), s.cfg.Auth.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	return s.emailService.SendPasswordReset(ctx, user.Email, user.Name, resetToken)
}

// ResetPassword consumes a signed reset token, stores the new credential and
// destroys all existing sessions.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	userIDStr, err := token.ParseReset(resetToken, []byte(s.cfg.Auth.ResetTokenSecret))
	if err != nil {
		return domain.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return domain.ErrUnauthorized
	}

	derived, err := hash.HashWithIterations(newPassword, s.cfg.Auth.PBKDF2Iterations)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepo.UpdateCredential(ctx, userID, derived.Hash, derived.Salt, derived.Algorithm, derived.Iterations)
	if err != nil {
		return err
	}

	return s.sessions.DestroyAllForUser(ctx, userID)
}
