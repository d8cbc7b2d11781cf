package secret

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_NonDeterministic(t *testing.T) {
	h := NewHasher("pepper")

	h1, err := h.HashPassword("Str0ng!Pw")
	require.NoError(t, err)
	h2, err := h.HashPassword("Str0ng!Pw")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)

	for _, hash := range []string{h1, h2} {
		ok, err := h.ComparePassword("Str0ng!Pw", hash)
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := h.ComparePassword("wrong", h1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashPassword_PepperMatters(t *testing.T) {
	h := NewHasher("pepper")
	other := NewHasher("other")

	hash, err := h.HashPassword("Str0ng!Pw")
	require.NoError(t, err)

	ok, err := other.ComparePassword("Str0ng!Pw", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHashOpaqueToken_Deterministic(t *testing.T) {
	h := NewHasher("")
	require.Equal(t, h.HashOpaqueToken("abc"), h.HashOpaqueToken("abc"))
	require.NotEqual(t, h.HashOpaqueToken("abc"), h.HashOpaqueToken("abd"))
	require.Len(t, h.HashOpaqueToken("abc"), 64)
}

func TestNewEphemeralToken(t *testing.T) {
	h := NewHasher("")
	tok, err := h.NewEphemeralToken(20 * time.Minute)
	require.NoError(t, err)

	require.Len(t, tok.Plaintext, 64)
	require.Equal(t, h.HashOpaqueToken(tok.Plaintext), tok.Hash)
	require.WithinDuration(t, time.Now().Add(20*time.Minute), tok.ExpiresAt, 5*time.Second)

	other, err := h.NewEphemeralToken(20 * time.Minute)
	require.NoError(t, err)
	require.NotEqual(t, tok.Plaintext, other.Plaintext)
}
