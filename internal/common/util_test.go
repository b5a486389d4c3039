package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeByteArray(t *testing.T) {
	buf := []byte("passphrase")
	WipeByteArray(buf)
	assert.Equal(t, make([]byte, len("passphrase")), buf)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestGenerateRandByteArray(t *testing.T) {
	for _, n := range []int{0, 16, 32} {
		buf := GenerateRandByteArray(n)
		require.NotNil(t, buf)
		assert.Len(t, buf, n)
	}

	a, b := GenerateRandByteArray(32), GenerateRandByteArray(32)
	assert.NotEqual(t, a, b, "two 32-byte draws should differ")
}
