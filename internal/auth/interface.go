package auth

// Verifier validates a bearer token and returns the account ID it
// authenticates.
type Verifier interface {
	VerifyToken(tokenString string) (string, error)
	Close() error
}
