package auth

import (
	"errors"

	"inkwell/internal/domain"
)

// StaticVerifier accepts every request as a fixed account. Dev-only; wired
// when no JWKS URL is configured outside production.
type StaticVerifier struct {
	AccountID string
}

// NewStaticVerifier creates a static verifier for the given account
func NewStaticVerifier(accountID string) (Verifier, error) {
	if accountID == "" {
		return nil, errors.New("static verifier needs an account ID")
	}
	return &StaticVerifier{AccountID: accountID}, nil
}

// VerifyToken returns the configured account ID regardless of the token
func (v *StaticVerifier) VerifyToken(tokenString string) (string, error) {
	if v.AccountID == "" {
		return "", domain.ErrUnauthorized
	}
	return v.AccountID, nil
}

// Close implements Verifier
func (v *StaticVerifier) Close() error { return nil }
