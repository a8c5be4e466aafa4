package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateCredential replaces the stored password hash material. Used by
	// password change, password reset, and the transparent rehash of legacy
	// records on successful login.
	UpdateCredential(ctx context.Context, id uuid.UUID, hash, salt, hashType string, iterations int) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
