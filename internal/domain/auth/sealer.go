package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const sealVersion = "v1."

var errSealedToken = errors.New("sealed token is malformed")

// tokenSealer encrypts provider refresh tokens at rest with AES-GCM. The provider subject is
// bound as additional data, so a sealed token only opens for the identity it was issued to.
type tokenSealer struct {
	aead cipher.AEAD
}

func newTokenSealer(key string) (*tokenSealer, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("token encryption key must be 16, 24, or 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &tokenSealer{aead: aead}, nil
}

func (t *tokenSealer) seal(plaintext, subject string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, t.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	payload := t.aead.Seal(nonce, nonce, []byte(plaintext), []byte(subject))
	return sealVersion + base64.RawURLEncoding.EncodeToString(payload), nil
}

func (t *tokenSealer) open(sealed, subject string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	encoded, ok := strings.CutPrefix(sealed, sealVersion)
	if !ok {
		return "", errSealedToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", errSealedToken
	}
	size := t.aead.NonceSize()
	if len(payload) < size {
		return "", errSealedToken
	}
	plaintext, err := t.aead.Open(nil, payload[:size], payload[size:], []byte(subject))
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
