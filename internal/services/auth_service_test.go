// internal/services/auth_service_test.go
package services

import (
	"crypto/ecdsa"
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

func authTestService(t *testing.T) *AuthService {
	t.Helper()

	utils.SetJWTSecret("test-secret")
	cfg := &config.Config{}
	cfg.JWT.AccessTokenTTL = 1
	cfg.JWT.RefreshTokenTTL = 24

	return NewAuthService(openTestDB(t, usersTableDDL), cfg, nil)
}

func newWallet(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, utils.NormalizeAddress(crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func signChallenge(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	sig, err := crypto.Sign(crypto.Keccak256([]byte(prefixed)), key)
	require.NoError(t, err)
	return hexutil.Encode(sig)
}

func TestWalletChallengeCreatesNoAccount(t *testing.T) {
	svc := authTestService(t)
	_, wallet := newWallet(t)

	message, err := svc.WalletChallenge(&WalletChallengeRequest{WalletAddress: wallet})
	require.NoError(t, err)
	assert.Contains(t, message, "Nonce:")

	// No row until a signature proves ownership of the address.
	var count int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWalletLoginCreatesAccountAfterProof(t *testing.T) {
	svc := authTestService(t)
	key, wallet := newWallet(t)

	message, err := svc.WalletChallenge(&WalletChallengeRequest{WalletAddress: wallet})
	require.NoError(t, err)

	resp, err := svc.WalletLogin(&WalletLoginRequest{
		WalletAddress: wallet,
		Signature:     signChallenge(t, key, message),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, wallet, resp.User.WalletAddress)
	assert.Equal(t, "user_"+wallet[2:10], resp.User.Username)
	assert.NotEmpty(t, resp.AccessToken)

	var count int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWalletLoginWithoutChallenge(t *testing.T) {
	svc := authTestService(t)
	key, wallet := newWallet(t)

	_, err := svc.WalletLogin(&WalletLoginRequest{
		WalletAddress: wallet,
		Signature:     signChallenge(t, key, "never issued"),
	})
	assert.ErrorContains(t, err, "no pending challenge")
}

func TestWalletLoginBadSignatureCreatesNoAccount(t *testing.T) {
	svc := authTestService(t)
	_, wallet := newWallet(t)
	otherKey, _ := newWallet(t)

	message, err := svc.WalletChallenge(&WalletChallengeRequest{WalletAddress: wallet})
	require.NoError(t, err)

	_, err = svc.WalletLogin(&WalletLoginRequest{
		WalletAddress: wallet,
		Signature:     signChallenge(t, otherKey, message),
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWalletLoginUsernameCollisionFallsBackToFullSuffix(t *testing.T) {
	svc := authTestService(t)
	key, wallet := newWallet(t)

	// Another account already owns the short generated name.
	squatter := models.User{
		Username:      "user_" + wallet[2:10],
		WalletAddress: "0x" + strings.Repeat("ff", 20),
		UserType:      models.UserTypeCreator,
		Status:        models.UserStatusActive,
	}
	require.NoError(t, svc.db.Create(&squatter).Error)

	message, err := svc.WalletChallenge(&WalletChallengeRequest{WalletAddress: wallet})
	require.NoError(t, err)

	resp, err := svc.WalletLogin(&WalletLoginRequest{
		WalletAddress: wallet,
		Signature:     signChallenge(t, key, message),
	})
	require.NoError(t, err)
	assert.Equal(t, "user_"+wallet[2:], resp.User.Username)
}
