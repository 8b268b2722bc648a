package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/carTloyal123/shoppi/internal/common"
)

var ErrSealedTooShort = errors.New("sealed value too short")

// Seal encrypts plaintext with AES-GCM under key (16, 24 or 32 bytes).
// A fresh nonce is generated per call and prepended to the ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. It fails if the value was tampered with or sealed
// under a different key.
func Open(sealed, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	n := aesgcm.NonceSize()
	if len(sealed) < n {
		return nil, ErrSealedTooShort
	}
	return aesgcm.Open(nil, sealed[:n], sealed[n:], nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
