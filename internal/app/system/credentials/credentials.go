// Package credentials verifies the administrator secret at login. The
// Verifier interface keeps the login handler ignorant of where the secret
// lives; deployments choose the plain-config verifier or the bcrypt one.
package credentials

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a submitted secret. Implementations must be safe for
// concurrent use and must not leak timing information about the expected
// value.
type Verifier interface {
	Verify(secret string) bool
}

// StaticVerifier compares against a secret held in configuration, in
// constant time.
type StaticVerifier struct {
	secret string
}

// NewStatic creates a StaticVerifier for the given secret.
func NewStatic(secret string) *StaticVerifier {
	return &StaticVerifier{secret: secret}
}

// Verify reports whether the submitted secret matches. An empty configured
// secret never matches; a deployment with no secret has no login.
func (v *StaticVerifier) Verify(secret string) bool {
	if v.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.secret), []byte(secret)) == 1
}

// BcryptVerifier compares against a bcrypt hash of the secret, for
// deployments that keep only the hash in configuration.
type BcryptVerifier struct {
	hash string
}

// NewBcrypt creates a BcryptVerifier for the given bcrypt hash.
func NewBcrypt(hash string) *BcryptVerifier {
	return &BcryptVerifier{hash: hash}
}

// Verify reports whether the submitted secret matches the stored hash.
func (v *BcryptVerifier) Verify(secret string) bool {
	if v.hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(v.hash), []byte(secret)) == nil
}

// HashSecret hashes a secret with bcrypt for storage in configuration.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
