// Package hash produces and verifies password hashes. New records are always
// PBKDF2-HMAC-SHA256; verification additionally understands the two hash
// formats found in rows written before the migration to PBKDF2 (bcrypt and
// unsalted SHA-256), so stored legacy hashes keep authenticating without a
// mass password reset.
package hash

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 iteration count for new hashes.
	DefaultIterations = 120_000
	// MinIterations is the floor applied when deriving new hashes.
	MinIterations = 100_000

	saltLength = 16
	keyLength  = 32
)

// Algorithm tags persisted alongside the hash.
const (
	AlgorithmPBKDF2 = "pbkdf2"
	AlgorithmBcrypt = "bcrypt"
	AlgorithmSHA256 = "sha256"
)

// Record is a stored credential as read from the database. Algorithm may be
// empty for rows written before the tag column existed.
type Record struct {
	Hash       string
	Salt       string
	Algorithm  string
	Iterations int
}

// Derived is a freshly computed credential ready for persistence.
type Derived struct {
	Hash       string
	Salt       string
	Algorithm  string
	Iterations int
}

var hex64 = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// Hash derives a new PBKDF2 credential with a random salt.
func Hash(password string) (*Derived, error) {
	return HashWithIterations(password, DefaultIterations)
}

// HashWithIterations derives a new PBKDF2 credential with a caller-chosen
// iteration count, clamped to MinIterations.
func HashWithIterations(password string, iterations int) (*Derived, error) {
	if iterations < MinIterations {
		iterations = MinIterations
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return &Derived{
		Hash:       hex.EncodeToString(key),
		Salt:       hex.EncodeToString(salt),
		Algorithm:  AlgorithmPBKDF2,
		Iterations: iterations,
	}, nil
}

// Verify reports whether password matches the stored record. Dispatch order:
// bcrypt (tagged, or a hash carrying a bcrypt prefix), then legacy unsalted
// SHA-256 (tagged, or a bare 64-hex hash with no salt), then PBKDF2 with the
// record's own salt and iteration count. Malformed records verify as false;
// nothing escapes this boundary.
func Verify(password string, rec Record) bool {
	switch {
	case rec.Algorithm == AlgorithmBcrypt || hasBcryptPrefix(rec.Hash):
		return bcrypt.CompareHashAndPassword([]byte(rec.Hash), []byte(password)) == nil

	case rec.Algorithm == AlgorithmSHA256 || (rec.Algorithm == "" && rec.Salt == "" && hex64.MatchString(rec.Hash)):
		stored, err := hex.DecodeString(rec.Hash)
		if err != nil {
			return false
		}
		sum := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare(stored, sum[:]) == 1

	default:
		return verifyPBKDF2(password, rec)
	}
}

func verifyPBKDF2(password string, rec Record) bool {
	stored, err := hex.DecodeString(rec.Hash)
	if err != nil || len(stored) == 0 {
		return false
	}
	salt, err := hex.DecodeString(rec.Salt)
	if err != nil {
		return false
	}

	iterations := rec.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	// Derive to the stored length so hashes written with an older key size
	// still verify.
	key := pbkdf2.Key([]byte(password), salt, iterations, len(stored), sha256.New)
	return hmac.Equal(stored, key)
}

// NeedsRehash reports whether a record that just verified should be upgraded
// to the current PBKDF2 parameters on its next successful login.
func NeedsRehash(rec Record) bool {
	if rec.Algorithm != AlgorithmPBKDF2 {
		return true
	}
	return rec.Iterations < MinIterations
}

func hasBcryptPrefix(h string) bool {
	return strings.HasPrefix(h, "$2a$") ||
		strings.HasPrefix(h, "$2b$") ||
		strings.HasPrefix(h, "$2y$")
}
