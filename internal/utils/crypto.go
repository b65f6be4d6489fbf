// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"regexp"
	"strings"
)

var addressPattern = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

func GenerateVerificationCode() (string, error) {
	return GenerateRandomString(32)
}

// GenerateWalletNonce makes the one-time challenge a wallet signs at
// login.
func GenerateWalletNonce() (string, error) {
	return GenerateRandomString(32)
}

func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// ContentFingerprint hashes raw content bytes for dedup and registry
// metadata.
func ContentFingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IsWalletAddress reports whether s looks like a hex Ethereum address.
func IsWalletAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// NormalizeAddress lowercases an address so it can be compared and used
// as a cache key. Returns "" for malformed input.
func NormalizeAddress(s string) string {
	if !IsWalletAddress(s) {
		return ""
	}
	return strings.ToLower(s)
}
