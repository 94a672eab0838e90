package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Byte lengths of the random material backing the PKCE verifier and the
// CSRF state token. RFC 7636 wants a 43-128 character verifier; 64 random
// bytes encode to 86 characters.
const (
	verifierBytes = 64
	stateBytes    = 32
)

// pkcePair holds the per-attempt PKCE material. The challenge goes into the
// authorization URL, the verifier into the code exchange. A fresh pair is
// generated for every consent attempt.
type pkcePair struct {
	Verifier  string
	Challenge string
}

func newPKCEPair() (pkcePair, error) {
	verifier, err := randomToken(verifierBytes)
	if err != nil {
		return pkcePair{}, fmt.Errorf("generating code verifier: %w", err)
	}
	sum := sha256.Sum256([]byte(verifier))
	return pkcePair{
		Verifier:  verifier,
		Challenge: base64.RawURLEncoding.EncodeToString(sum[:]),
	}, nil
}

// newStateToken returns the random state parameter used to bind the
// callback to this attempt. The callback listener refuses any callback
// whose state does not match.
func newStateToken() (string, error) {
	return randomToken(stateBytes)
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
