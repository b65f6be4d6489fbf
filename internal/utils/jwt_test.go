// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	userID := uuid.New()
	token, err := GenerateJWT(userID, "alice", "creator", "0x1111111111111111111111111111111111111111", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "creator", claims.UserType)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", claims.WalletAddress)
	assert.Equal(t, "forkyoudaddy", claims.Issuer)
}

func TestJWTExpiredTokenRejected(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(uuid.New(), "alice", "creator", "", -1)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTWrongSecretRejected(t *testing.T) {
	SetJWTSecret("first-secret")
	token, err := GenerateJWT(uuid.New(), "alice", "creator", "", 1)
	require.NoError(t, err)

	SetJWTSecret("second-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	userID := uuid.New()
	token, err := GenerateRefreshToken(userID, 1)
	require.NoError(t, err)

	subject, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), subject)
}
