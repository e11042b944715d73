package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, p := range []string{"pw1", "", "zażółć gęślą jaźń", strings.Repeat("x", MaxPasswordBytes)} {
		h, err := HashPassword(p, bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, p, h)
		assert.True(t, VerifyPassword(h, p), "plaintext %q must verify", p)
		assert.False(t, VerifyPassword(h, p+"!"), "different plaintext must not verify")
	}
}

func TestVerifyPassword_RejectsInputPastBcryptLimit(t *testing.T) {
	t.Parallel()

	p := strings.Repeat("x", MaxPasswordBytes)
	h, err := HashPassword(p, bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(h, p))
	assert.False(t, VerifyPassword(h, p+"WRONG-SUFFIX"))
	assert.False(t, (&BcryptHasher{Cost: bcrypt.MinCost}).Verify(h, p+"x"))
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword(a, "same"))
	assert.True(t, VerifyPassword(b, "same"))
}

func TestBcryptHasher_DefaultCostIsTen(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(0)
	require.NoError(t, err)
	assert.Equal(t, 10, h.Cost)

	hash, err := h.Hash("pw1")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
	assert.True(t, h.Verify(hash, "pw1"))
	assert.False(t, h.Verify(hash, "pw2"))
}

func TestBcryptHasher_RejectsBadCost(t *testing.T) {
	t.Parallel()

	_, err := NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()
	assert.False(t, VerifyPassword("not-a-hash", "pw"))
}

func parse(t *testing.T, token, secret string) *Claims {
	t.Helper()
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	return claims
}

func TestNewAccessToken_Claims(t *testing.T) {
	t.Parallel()

	before := time.Now()
	tok, err := NewAccessToken("secret", 7, "x", DefaultTokenTTL)
	require.NoError(t, err)

	claims := parse(t, tok.Token, "secret")
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "x", claims.Username)
	assert.Equal(t, "7", claims.Subject)
	assert.WithinDuration(t, before.Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.WithinDuration(t, tok.Exp, claims.ExpiresAt.Time, time.Second)
}

func TestNewAccessToken_WrongSecretRejected(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("right", 1, "a", time.Hour)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tok.Token, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte("wrong"), nil
	})
	assert.Error(t, err)
}

func TestNewAccessToken_ExpiredRejected(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("secret", 1, "a", -time.Minute)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tok.Token, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTIssuer(t *testing.T) {
	t.Parallel()

	_, err := NewJWTIssuer("", time.Hour)
	assert.Error(t, err)

	iss, err := NewJWTIssuer("k", 0)
	require.NoError(t, err)
	tok, err := iss.Issue(3, "bob")
	require.NoError(t, err)

	claims := parse(t, tok.Token, "k")
	assert.Equal(t, uint64(3), claims.UserID)
	assert.Equal(t, "bob", claims.Username)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}
