// internal/utils/wallet_test.go
package utils

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signMessage(t *testing.T, message string) (address, signature string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	hash := crypto.Keccak256([]byte(prefixed))

	sig, err := crypto.Sign(hash, key)
	require.NoError(t, err)

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestVerifyWalletSignature(t *testing.T) {
	message := "Sign this message to authenticate with ForkYouDaddy.\n\nNonce: abc123"
	address, signature := signMessage(t, message)

	assert.NoError(t, VerifyWalletSignature(address, message, signature))
}

func TestVerifyWalletSignatureLegacyRecoveryID(t *testing.T) {
	message := "nonce test"
	address, signature := signMessage(t, message)

	// Most wallets report V as 27/28 instead of 0/1
	sig, err := hexutil.Decode(signature)
	require.NoError(t, err)
	sig[64] += 27

	assert.NoError(t, VerifyWalletSignature(address, message, hexutil.Encode(sig)))
}

func TestVerifyWalletSignatureWrongSigner(t *testing.T) {
	message := "nonce test"
	_, signature := signMessage(t, message)
	otherAddress, _ := signMessage(t, message)

	err := VerifyWalletSignature(otherAddress, message, signature)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyWalletSignatureTamperedMessage(t *testing.T) {
	address, signature := signMessage(t, "original message")

	err := VerifyWalletSignature(address, "tampered message", signature)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyWalletSignatureMalformedInputs(t *testing.T) {
	address, _ := signMessage(t, "msg")

	assert.Error(t, VerifyWalletSignature("not-an-address", "msg", "0x00"))
	assert.Error(t, VerifyWalletSignature(address, "msg", "junk"))
	assert.Error(t, VerifyWalletSignature(address, "msg", "0x0102"))
}
