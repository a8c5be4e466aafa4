package token

import (
	"testing"
	"time"
)

func TestGenerateAndParseReset(t *testing.T) {
	t.Parallel()

	secret := []byte("reset-signing-secret")

	tok, err := GenerateReset("user-42", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateReset error: %v", err)
	}

	uid, err := ParseReset(tok, secret)
	if err != nil {
		t.Fatalf("ParseReset error: %v", err)
	}
	if uid != "user-42" {
		t.Fatalf("user id mismatch: got %q want %q", uid, "user-42")
	}
}

func TestParseReset_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("s")
	tok, err := GenerateReset("u1", secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateReset error: %v", err)
	}

	if _, err := ParseReset(tok, secret); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseReset_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateReset("u2", []byte("right"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateReset error: %v", err)
	}

	if _, err := ParseReset(tok, []byte("wrong")); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseReset_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseReset("not.a.token", []byte("k")); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
