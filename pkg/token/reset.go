// Package token issues and checks short-lived signed tokens for password
// reset links. The token is stateless: nothing is stored server-side, the
// claim set carries the user id and expiry under an HS256 signature.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid reset token")
	ErrTokenExpired = errors.New("reset token expired")
)

type resetClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// GenerateReset signs a password-reset token for userID valid for ttl.
func GenerateReset(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &resetClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "password-reset",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseReset validates the signature and expiry and returns the user id the
// token was issued for.
func ParseReset(tokenString string, secret []byte) (string, error) {
	claims := &resetClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !tok.Valid || claims.Subject != "password-reset" || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
