package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func record(d *Derived) Record {
	return Record{Hash: d.Hash, Salt: d.Salt, Algorithm: d.Algorithm, Iterations: d.Iterations}
}

func TestHashRoundTrip(t *testing.T) {
	t.Parallel()

	d, err := Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.Equal(t, AlgorithmPBKDF2, d.Algorithm)
	assert.GreaterOrEqual(t, d.Iterations, MinIterations)
	assert.NotEmpty(t, d.Salt)

	assert.True(t, Verify("correct horse battery staple", record(d)))
	assert.False(t, Verify("correct horse battery stapler", record(d)))
	assert.False(t, Verify("", record(d)))
}

func TestHashSaltsDiffer(t *testing.T) {
	t.Parallel()

	a, err := Hash("same password")
	require.NoError(t, err)
	b, err := Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestVerifyBcryptLegacy(t *testing.T) {
	t.Parallel()

	hashed, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)

	// Tagged bcrypt.
	tagged := Record{Hash: string(hashed), Algorithm: AlgorithmBcrypt}
	assert.True(t, Verify("old-password", tagged))
	assert.False(t, Verify("Old-password", tagged))

	// Untagged: recognized by the $2a$/$2b$ prefix alone.
	untagged := Record{Hash: string(hashed)}
	assert.True(t, Verify("old-password", untagged))
	assert.False(t, Verify("wrong", untagged))
}

func TestVerifyUnsaltedSHA256Legacy(t *testing.T) {
	t.Parallel()

	sum := sha256.Sum256([]byte("password"))
	rec := Record{Hash: hex.EncodeToString(sum[:])} // 64 lowercase hex, no salt, no tag

	assert.True(t, Verify("password", rec))
	assert.False(t, Verify("Password", rec))

	// An explicit tag must win even when a salt is present.
	tagged := Record{Hash: hex.EncodeToString(sum[:]), Salt: "deadbeef", Algorithm: AlgorithmSHA256}
	assert.True(t, Verify("password", tagged))
}

func TestVerifyPBKDF2UntaggedWithSalt(t *testing.T) {
	t.Parallel()

	d, err := Hash("pw with salt")
	require.NoError(t, err)

	// Rows written before the tag column: salt + iterations, no algorithm.
	rec := Record{Hash: d.Hash, Salt: d.Salt, Iterations: d.Iterations}
	assert.True(t, Verify("pw with salt", rec))
	assert.False(t, Verify("pw with salt!", rec))
}

func TestVerifyMalformedRecords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rec  Record
	}{
		{"empty record", Record{}},
		{"garbage hash", Record{Hash: "zz-not-hex", Salt: "also-not-hex"}},
		{"bad salt", Record{Hash: "abcd", Salt: "nothex!", Algorithm: AlgorithmPBKDF2, Iterations: DefaultIterations}},
		{"bad sha256 hex", Record{Hash: strings.Repeat("zz", 32), Algorithm: AlgorithmSHA256}},
		{"truncated bcrypt", Record{Hash: "$2a$10$short", Algorithm: AlgorithmBcrypt}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, Verify("anything", tc.rec))
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	t.Parallel()

	d, err := Hash("pw")
	require.NoError(t, err)
	assert.False(t, NeedsRehash(record(d)))

	assert.True(t, NeedsRehash(Record{Hash: "abcd", Algorithm: AlgorithmBcrypt}))
	assert.True(t, NeedsRehash(Record{Hash: "abcd", Algorithm: AlgorithmSHA256}))
	assert.True(t, NeedsRehash(Record{Hash: d.Hash, Salt: d.Salt, Iterations: d.Iterations})) // untagged
	assert.True(t, NeedsRehash(Record{Hash: d.Hash, Salt: d.Salt, Algorithm: AlgorithmPBKDF2, Iterations: 50_000}))
}
