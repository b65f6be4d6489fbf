// internal/utils/crypto_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashStringIsStable(t *testing.T) {
	assert.Equal(t, HashString("hello"), HashString("hello"))
	assert.NotEqual(t, HashString("hello"), HashString("world"))
	assert.Len(t, HashString("hello"), 64)
}

func TestContentFingerprint(t *testing.T) {
	data := []byte("some content bytes")
	assert.Equal(t, ContentFingerprint(data), ContentFingerprint(data))
	assert.NotEqual(t, ContentFingerprint(data), ContentFingerprint([]byte("other")))
	assert.Len(t, ContentFingerprint(data), 64)
}

func TestIsWalletAddress(t *testing.T) {
	assert.True(t, IsWalletAddress("0x1111111111111111111111111111111111111111"))
	assert.True(t, IsWalletAddress("0xAbCdEf1234567890aBcDeF1234567890abcdef12"))

	assert.False(t, IsWalletAddress(""))
	assert.False(t, IsWalletAddress("0x123"))
	assert.False(t, IsWalletAddress("1111111111111111111111111111111111111111"))
	assert.False(t, IsWalletAddress("0xZZ11111111111111111111111111111111111111"))
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t,
		"0xabcdef1234567890abcdef1234567890abcdef12",
		NormalizeAddress("0xAbCdEf1234567890aBcDeF1234567890abcdef12"))
	assert.Empty(t, NormalizeAddress("not an address"))
}
