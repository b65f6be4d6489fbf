// internal/utils/wallet.go
package utils

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrSignatureMismatch = errors.New("signature does not match the claimed address")

// VerifyWalletSignature checks a personal_sign signature over message
// against address. The message is hashed with the Ethereum signed
// message prefix before recovery.
func VerifyWalletSignature(address, message, signature string) error {
	if !IsWalletAddress(address) {
		return errors.New("malformed wallet address")
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return fmt.Errorf("malformed signature: %w", err)
	}
	if len(sig) != 65 {
		return errors.New("malformed signature: wrong length")
	}

	// Wallets return V as 27/28, recovery wants 0/1
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	hash := crypto.Keccak256([]byte(prefixed))

	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return fmt.Errorf("signature recovery failed: %w", err)
	}

	recovered := crypto.PubkeyToAddress(*pubKey)
	if NormalizeAddress(recovered.Hex()) != NormalizeAddress(address) {
		return ErrSignatureMismatch
	}
	return nil
}
