package csrf

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDeterministic(t *testing.T) {
	t.Parallel()

	secret := "0123456789abcdef0123456789abcdef"
	assert.Equal(t, Derive(secret), Derive(secret))
	assert.Len(t, Derive(secret), 64)
}

func TestDeriveNoCollisions(t *testing.T) {
	t.Parallel()

	seen := make(map[string]string, 10_000)
	buf := make([]byte, 32)
	for i := 0; i < 10_000; i++ {
		_, err := rand.Read(buf)
		require.NoError(t, err)
		secret := hex.EncodeToString(buf)

		token := Derive(secret)
		if prev, ok := seen[token]; ok && prev != secret {
			t.Fatalf("collision: secrets %q and %q both derive %q", prev, secret, token)
		}
		seen[token] = secret
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	secret := "per-session-secret"
	token := Derive(secret)

	assert.True(t, Verify(token, secret))
	assert.False(t, Verify(token, "other-secret"))
	assert.False(t, Verify("", secret), "missing header must fail closed")
	assert.False(t, Verify(token+"0", secret))
	assert.False(t, Verify(token, ""))
}
