package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	appErr "github.com/langchain-flow/engine/pkg/errors"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery", hash)

	require.True(t, ComparePassword("correct horse battery", hash))
	require.False(t, ComparePassword("wrong password", hash))
}

func TestGeneratePairSharesClaims(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 7*24*time.Hour)
	userID := uuid.New()

	pair, err := tm.GeneratePair(userID, "ada")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.Equal(t, int64(3600), pair.ExpiresIn)

	access, err := tm.Verify(pair.AccessToken)
	require.NoError(t, err)
	refresh, err := tm.Verify(pair.RefreshToken)
	require.NoError(t, err)

	require.Equal(t, userID.String(), access.UserID)
	require.Equal(t, "ada", access.Username)
	require.Equal(t, access.UserID, refresh.UserID)
	require.Equal(t, access.Username, refresh.Username)

	// The refresh token must outlive the access token.
	require.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 7*24*time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tm.Generate(uuid.New(), "ada", time.Hour)
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Verify(token)
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 7*24*time.Hour)
	other := NewTokenManager([]byte("ffffffffffffffffffffffffffffffff"), time.Hour, 7*24*time.Hour)

	token, err := tm.Generate(uuid.New(), "ada", time.Hour)
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestDecodeToleratesGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 7*24*time.Hour)
	require.Nil(t, tm.Decode("not a token"))

	token, err := tm.Generate(uuid.New(), "ada", time.Hour)
	require.NoError(t, err)
	claims := tm.Decode(token)
	require.NotNil(t, claims)
	require.Equal(t, "ada", claims.Username)
}
