package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	passphrase := []byte("secret-passphrase")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(passphrase, salt)
	key2 := DeriveKey(passphrase, salt)

	assert.True(t, bytes.Equal(key1, key2), "same inputs must give the same key")
	assert.Len(t, key1, 32)
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	passphrase := []byte("secret-passphrase")

	key1 := DeriveKey(passphrase, []byte("salt-1"))
	key2 := DeriveKey(passphrase, []byte("salt-2"))

	assert.False(t, bytes.Equal(key1, key2))
}

func TestAEAD_SealOpenRoundTrip(t *testing.T) {
	a, err := NewAEAD(DeriveKey([]byte("pw"), NewSalt()))
	require.NoError(t, err)

	sealed, err := a.Seal([]byte(`{"username":"alice"}`))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(sealed, sealedPrefix))
	assert.NotContains(t, string(sealed), "alice")

	opened, err := a.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"username":"alice"}`, string(opened))
}

func TestAEAD_SealUsesFreshNonce(t *testing.T) {
	a, err := NewAEAD(DeriveKey([]byte("pw"), []byte("salt")))
	require.NoError(t, err)

	s1, err := a.Seal([]byte("same"))
	require.NoError(t, err)
	s2, err := a.Seal([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}

func TestAEAD_OpenPassesThroughPlaintext(t *testing.T) {
	a, err := NewAEAD(DeriveKey([]byte("pw"), []byte("salt")))
	require.NoError(t, err)

	out, err := a.Open([]byte(`[1,2,3]`))
	require.NoError(t, err)
	assert.Equal(t, `[1,2,3]`, string(out))
}

func TestAEAD_OpenWithWrongKeyFails(t *testing.T) {
	salt := []byte("salt")
	a, err := NewAEAD(DeriveKey([]byte("right"), salt))
	require.NoError(t, err)
	b, err := NewAEAD(DeriveKey([]byte("wrong"), salt))
	require.NoError(t, err)

	sealed, err := a.Seal([]byte("data"))
	require.NoError(t, err)

	_, err = b.Open(sealed)
	require.ErrorIs(t, err, ErrOpen)

	_, err = b.Open(append([]byte(nil), sealedPrefix...))
	require.ErrorIs(t, err, ErrOpen)
}

func TestPlain(t *testing.T) {
	var p Plain
	out, err := p.Seal([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), out)

	out, err = p.Open([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), out)

	_, err = p.Open(append(append([]byte(nil), sealedPrefix...), 1, 2, 3))
	require.ErrorIs(t, err, ErrOpen)
}

func TestNewAEAD_BadKey(t *testing.T) {
	_, err := NewAEAD([]byte("short"))
	require.Error(t, err)
}
