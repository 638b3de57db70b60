package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	codec, err := NewCodec(Config{
		SigningMethod: MethodHS256,
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return codec
}

func TestIssueAndDecodeRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	subject := uuid.NewString()

	for _, typ := range []Type{TypeAccess, TypeRefresh} {
		encoded, err := codec.Issue(subject, typ)
		require.NoError(t, err)
		require.NotEmpty(t, encoded)

		claims, err := codec.Decode(encoded, typ, true)
		require.NoError(t, err)

		assert.Equal(t, subject, claims.Subject)
		assert.Equal(t, typ, claims.Type())
		_, err = uuid.Parse(claims.ID)
		assert.NoError(t, err, "jti must be a fresh random identifier")

		require.NotNil(t, claims.IssuedAt)
		require.NotNil(t, claims.ExpiresAt)
		assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time), "exp must be after iat")
		assert.Zero(t, claims.IssuedAt.Nanosecond(), "timestamps are whole-second epoch values")
	}
}

func TestIssueDefaultTTLPerType(t *testing.T) {
	codec := newTestCodec(t)

	access, err := codec.Issue("u1", TypeAccess)
	require.NoError(t, err)
	refresh, err := codec.Issue("u1", TypeRefresh)
	require.NoError(t, err)

	accessClaims, err := codec.Decode(access, TypeAccess, true)
	require.NoError(t, err)
	refreshClaims, err := codec.Decode(refresh, TypeRefresh, true)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, accessClaims.ExpiresAt.Sub(accessClaims.IssuedAt.Time))
	assert.Equal(t, 7*24*time.Hour, refreshClaims.ExpiresAt.Sub(refreshClaims.IssuedAt.Time))
}

func TestJTIUniqueAcrossIssuances(t *testing.T) {
	codec := newTestCodec(t)

	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		encoded, err := codec.Issue("same-subject", TypeAccess)
		require.NoError(t, err)

		claims, err := codec.Decode(encoded, TypeAccess, true)
		require.NoError(t, err)
		require.False(t, seen[claims.ID], "jti reused across issuances")
		seen[claims.ID] = true
	}
}

func TestDecodeTypeMismatch(t *testing.T) {
	codec := newTestCodec(t)

	refresh, err := codec.Issue("u1", TypeRefresh)
	require.NoError(t, err)
	_, err = codec.Decode(refresh, TypeAccess, true)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	access, err := codec.Issue("u1", TypeAccess)
	require.NoError(t, err)
	_, err = codec.Decode(access, TypeRefresh, true)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDecodeTypeMismatchBeatsBadSignature(t *testing.T) {
	codec := newTestCodec(t)

	refresh, err := codec.Issue("u1", TypeRefresh)
	require.NoError(t, err)

	// Corrupt the signature; the type check must still win.
	tampered := refresh[:len(refresh)-2] + "xx"
	_, err = codec.Decode(tampered, TypeAccess, true)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDecodeExpired(t *testing.T) {
	codec := newTestCodec(t)

	encoded, err := codec.IssueWithTTL("u1", TypeAccess, -time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode(encoded, TypeAccess, true)
	assert.ErrorIs(t, err, ErrExpired)

	claims, err := codec.Decode(encoded, TypeAccess, false)
	require.NoError(t, err, "expiry bypass must decode expired tokens")
	assert.Equal(t, "u1", claims.Subject)
}

func TestDecodeMalformed(t *testing.T) {
	codec := newTestCodec(t)

	for _, encoded := range []string{"", "garbage", "invalid.jwt.token", "a.b"} {
		_, err := codec.Decode(encoded, TypeAccess, true)
		assert.ErrorIs(t, err, ErrInvalidSignature, "input %q", encoded)
	}
}

func TestDecodeTamperedSignature(t *testing.T) {
	codec := newTestCodec(t)

	encoded, err := codec.Issue("u1", TypeAccess)
	require.NoError(t, err)

	tampered := encoded[:len(encoded)-2] + "xx"
	_, err = codec.Decode(tampered, TypeAccess, true)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecodeForeignSecret(t *testing.T) {
	codec := newTestCodec(t)

	foreign, err := NewCodec(Config{
		SigningMethod: MethodHS256,
		AccessSecret:  []byte("other-access-secret"),
		RefreshSecret: []byte("other-refresh-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)

	encoded, err := foreign.Issue("u1", TypeAccess)
	require.NoError(t, err)

	_, err = codec.Decode(encoded, TypeAccess, true)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecodeCrossTypeSecretSwap(t *testing.T) {
	codec := newTestCodec(t)

	// A token claiming "access" but signed with the refresh secret must fail
	// signature verification, not sneak through on the refresh key.
	claims := Claims{
		TokenType: string(TypeAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("refresh-secret-for-tests"))
	require.NoError(t, err)

	_, err = codec.Decode(encoded, TypeAccess, true)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecodeRejectsUnexpectedAlgorithm(t *testing.T) {
	codec := newTestCodec(t)

	claims := Claims{
		TokenType: string(TypeAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).
		SignedString([]byte("access-secret-for-tests"))
	require.NoError(t, err)

	_, err = codec.Decode(encoded, TypeAccess, true)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestNewCodecValidation(t *testing.T) {
	base := Config{
		SigningMethod: MethodHS256,
		AccessSecret:  []byte("a-secret"),
		RefreshSecret: []byte("r-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing access secret", func(c *Config) { c.AccessSecret = nil }},
		{"missing refresh secret", func(c *Config) { c.RefreshSecret = nil }},
		{"identical secrets", func(c *Config) { c.RefreshSecret = c.AccessSecret }},
		{"zero access ttl", func(c *Config) { c.AccessTTL = 0 }},
		{"negative refresh ttl", func(c *Config) { c.RefreshTTL = -time.Hour }},
		{"unsupported method", func(c *Config) { c.SigningMethod = "rs256" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := NewCodec(cfg)
			assert.Error(t, err)
		})
	}

	codec, err := NewCodec(Config{
		AccessSecret:  []byte("a-secret"),
		RefreshSecret: []byte("r-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)
	assert.Equal(t, "HS256", codec.method().Alg(), "signing method defaults to hs256")
}
