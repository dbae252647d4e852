// Package auth verifies the shop owner's override code.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/shopledger/backend/internal/domain/pricing"
	"github.com/shopledger/backend/internal/infrastructure/config"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt cost used by HashSecret
const HashCost = 12

// ErrNoSecret is returned when neither a secret nor a hash is configured
var ErrNoSecret = errors.New("override secret is not configured")

// OverrideVerifier checks codes against a bcrypt hash or a plain secret.
// An empty code never verifies.
type OverrideVerifier struct {
	secret []byte
	hash   []byte
}

// NewOverrideVerifier creates a verifier from configuration; the hash wins over the plain secret
func NewOverrideVerifier(cfg config.OverrideConfig) (*OverrideVerifier, error) {
	if !cfg.Configured() {
		return nil, ErrNoSecret
	}
	if h := strings.TrimSpace(cfg.SecretHash); h != "" {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, err
		}
		return &OverrideVerifier{hash: []byte(h)}, nil
	}
	return &OverrideVerifier{secret: []byte(cfg.Secret)}, nil
}

// Verify implements pricing.AuthorizationVerifier
func (v *OverrideVerifier) Verify(code string) bool {
	if code == "" {
		return false
	}
	if v.hash != nil {
		return bcrypt.CompareHashAndPassword(v.hash, []byte(code)) == nil
	}
	return subtle.ConstantTimeCompare(v.secret, []byte(code)) == 1
}

// HashSecret produces a bcrypt hash suitable for override.secret_hash
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var _ pricing.AuthorizationVerifier = (*OverrideVerifier)(nil)
