package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// PKCE is the per-attempt secret set of an authorization code flow. State and Verifier stay
// with the browser; Challenge goes to the provider.
type PKCE struct {
	State     string
	Verifier  string
	Challenge string
}

// NewPKCE draws a fresh state and verifier.
func NewPKCE() (PKCE, error) {
	state, err := randomToken(32)
	if err != nil {
		return PKCE{}, err
	}
	verifier, err := randomToken(32)
	if err != nil {
		return PKCE{}, err
	}
	return PKCE{State: state, Verifier: verifier, Challenge: S256Challenge(verifier)}, nil
}

// S256Challenge derives the code challenge for verifier.
func S256Challenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func randomToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
