package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInsufficient     = errors.New("insufficient balance")
	ErrChallengeDone    = errors.New("daily challenge already completed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InsufficientBalanceError carries the amounts needed to build a helpful
// message for the caller. Matches ErrInsufficient via errors.Is().
type InsufficientBalanceError struct {
	Required int // tokens the operation asked for
	Balance  int // tokens the account actually holds
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: need %d tokens, have %d", e.Required, e.Balance)
}

// StatusCode implements the HTTPError interface
func (e *InsufficientBalanceError) StatusCode() int {
	return http.StatusPaymentRequired
}

// Is allows errors.Is() to match against ErrInsufficient
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficient
}
