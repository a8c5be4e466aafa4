package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Hash algorithm tags stored in users.password_hash_type. Empty means the row
// predates the tag column and must be classified by the verifier.
const (
	HashTypePBKDF2 = "pbkdf2"
	HashTypeBcrypt = "bcrypt"
	HashTypeSHA256 = "sha256"
)

type User struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Email              string     `json:"email" db:"email"`
	Name               string     `json:"name" db:"name"`
	PasswordHash       string     `json:"-" db:"password_hash"`
	PasswordSalt       string     `json:"-" db:"password_salt"`
	PasswordHashType   string     `json:"-" db:"password_hash_type"`
	PasswordIterations int        `json:"-" db:"password_iterations"`
	Role               Role       `json:"role" db:"role"`
	IsAllowlisted      bool       `json:"is_allowlisted" db:"is_allowlisted"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	LastLoginAt        *time.Time `json:"last_login_at" db:"last_login_at"`
}

// AllowlistedFromLegacy maps the historical admin_allowlist integer column to
// the strict boolean. Old rows hold either the literal 1 or a raw user id, so
// any nonzero value counts as allowlisted. New rows carry users.is_allowlisted
// directly; this shim exists only for reads against the legacy schema.
func AllowlistedFromLegacy(v int64) bool {
	return v != 0
}
