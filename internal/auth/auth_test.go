package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)

	assert.NotEqual(t, "admin123", hash)
	assert.True(t, VerifyPassword("admin123", hash))
	assert.False(t, VerifyPassword("admin124", hash))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	assert.False(t, VerifyPassword("x", "not-a-bcrypt-hash"))
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 24*time.Hour)
	tok, err := issuer.Issue("ana", RoleManager)
	require.NoError(t, err)

	claims, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username())
	assert.Equal(t, RoleManager, claims.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := issuer.Issue("ana", RoleWorker)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := NewTokenIssuer("other-secret", time.Hour).Issue("ana", RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenIssuer(testSecret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.MapClaims{"sub": "ana", "role": RoleAdmin, "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer(testSecret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingSubject(t *testing.T) {
	claims := jwt.MapClaims{"role": RoleAdmin, "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenIssuer(testSecret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := NewTokenIssuer(testSecret, time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRolePredicates(t *testing.T) {
	assert.True(t, IsAdmin(RoleAdmin))
	assert.False(t, IsAdmin(RoleManager))
	assert.True(t, IsAdminOrManager(RoleAdmin))
	assert.True(t, IsAdminOrManager(RoleManager))
	assert.False(t, IsAdminOrManager(RoleWorker))
	assert.False(t, IsAdminOrManager("supervisor"))
}
