package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/internal/config"
	"vidtube/internal/models"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(config.SecurityConfig{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    240 * time.Hour,
	})
}

var testUser = models.User{ID: "2aUyqjCzEIiEcYMKj7TZtw1yS8L", Username: "u1", Email: "u1@x.com", FullName: "User One"}

func TestIssueAndParse(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.Issue(testUser)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	access, err := issuer.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, access.UserID)
	assert.Equal(t, "u1", access.Username)
	assert.Equal(t, "u1@x.com", access.Email)

	refresh, err := issuer.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, refresh.UserID)
	assert.NotEmpty(t, refresh.ID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	issuer := newTestIssuer()
	pair, err := issuer.Issue(testUser)
	require.NoError(t, err)

	_, err = issuer.ParseRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokensAreUniqueWithinTheSameInstant(t *testing.T) {
	issuer := newTestIssuer()
	fixed := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	first, err := issuer.Issue(testUser)
	require.NoError(t, err)
	second, err := issuer.Issue(testUser)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := newTestIssuer()
	issued := time.Now().Add(-300 * time.Hour)
	issuer.now = func() time.Time { return issued }

	pair, err := issuer.Issue(testUser)
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.ParseRefreshToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = issuer.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	issuer := newTestIssuer()
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS512, RefreshClaims{
		UserID: testUser.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("not-the-secret"))
	require.NoError(t, err)

	_, err = issuer.ParseRefreshToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWithoutExpiryRejected(t *testing.T) {
	issuer := newTestIssuer()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, RefreshClaims{UserID: testUser.ID}).
		SignedString([]byte("refresh-secret"))
	require.NoError(t, err)

	_, err = issuer.ParseRefreshToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRequiresUserID(t *testing.T) {
	_, err := newTestIssuer().Issue(models.User{})
	assert.Error(t, err)
}

func TestRefreshTokenMatches(t *testing.T) {
	stored := HashRefreshToken("token-a")

	assert.True(t, RefreshTokenMatches("token-a", stored))
	assert.False(t, RefreshTokenMatches("token-b", stored))
	assert.False(t, RefreshTokenMatches("token-a", nil))
	assert.False(t, RefreshTokenMatches("", stored))
}
