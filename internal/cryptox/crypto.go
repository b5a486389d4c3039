// Package cryptox seals values before they reach the local store.
//
// A passphrase is stretched with Argon2id into an AES-256 key; values are then
// sealed with AES-GCM using a fresh random nonce per write. Sealed blobs carry
// a short prefix so that plaintext written before sealing was enabled can still
// be read back.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/aliaskeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

var sealedPrefix = []byte("ak1:")

// ErrOpen is returned when a sealed blob cannot be authenticated, typically
// because the passphrase changed.
var ErrOpen = errors.New("cannot open sealed value")

// Sealer transforms values on their way into and out of storage.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(stored []byte) ([]byte, error)
}

// DeriveKey stretches passphrase with Argon2id into a 32-byte key.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// NewSalt returns a random salt suitable for DeriveKey.
func NewSalt() []byte {
	return common.GenerateRandByteArray(16)
}

// Plain is the identity Sealer used when no passphrase is configured.
type Plain struct{}

func (Plain) Seal(plaintext []byte) ([]byte, error) { return plaintext, nil }

func (Plain) Open(stored []byte) ([]byte, error) {
	if bytes.HasPrefix(stored, sealedPrefix) {
		return nil, ErrOpen
	}
	return stored, nil
}

// AEAD seals values with AES-GCM.
type AEAD struct {
	gcm cipher.AEAD
}

// NewAEAD builds an AEAD sealer from a 16, 24 or 32 byte key.
func NewAEAD(key []byte) (*AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AEAD{gcm: gcm}, nil
}

// Seal returns prefix || nonce || ciphertext.
func (a *AEAD) Seal(plaintext []byte) ([]byte, error) {
	nonce := common.GenerateRandByteArray(a.gcm.NonceSize())

	out := make([]byte, 0, len(sealedPrefix)+len(nonce)+len(plaintext)+a.gcm.Overhead())
	out = append(out, sealedPrefix...)
	out = append(out, nonce...)
	return a.gcm.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal. Values without the sealed prefix are returned as-is.
func (a *AEAD) Open(stored []byte) ([]byte, error) {
	if !bytes.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	body := stored[len(sealedPrefix):]
	ns := a.gcm.NonceSize()
	if len(body) < ns {
		return nil, ErrOpen
	}
	plaintext, err := a.gcm.Open(nil, body[:ns], body[ns:], nil)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}
