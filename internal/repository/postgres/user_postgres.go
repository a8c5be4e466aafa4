package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const pqUniqueViolation = "23505"

// Create inserts a new user. A duplicate email surfaces as domain.ErrEmailTaken.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, email, name, password_hash, password_salt,
			password_hash_type, password_iterations, role,
			created_at, updated_at
		) VALUES (
			:id, :email, :name, :password_hash, :password_salt,
			:password_hash_type, :password_iterations, :role,
			:created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := userSelect + ` WHERE id = $1`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := userSelect + ` WHERE lower(email) = $1`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// The allowlist flag is read through the legacy integer column so the query
// works on both schema generations; migration 0002 keeps the two in sync.
const userSelect = `
	SELECT id, email, name, password_hash, password_salt,
	       password_hash_type, password_iterations, role,
	       (admin_allowlist <> 0) AS is_allowlisted,
	       created_at, updated_at, last_login_at
	FROM users`

// UpdateCredential replaces the stored password hash material.
func (r *userRepository) UpdateCredential(ctx context.Context, id uuid.UUID, hash, salt, hashType string, iterations int) error {
	query := `
		UPDATE users
		SET password_hash = $2,
			password_salt = $3,
			password_hash_type = $4,
			password_iterations = $5,
			updated_at = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, hash, salt, hashType, iterations, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// UpdateLastLogin stamps the last successful login time.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login_at = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
