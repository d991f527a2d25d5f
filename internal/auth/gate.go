// Package auth implements the access gate that guards the AI passthrough
// routes behind a single shared access key.
package auth

import "errors"

// Sentinel errors for the three failure outcomes of a gate check.
// Callers translate them to transport status codes: 503, 401, 403.
var (
	// ErrNotConfigured means no access key is set for the process, so nobody
	// can ever authenticate. Distinct from a caller failing to authenticate.
	ErrNotConfigured = errors.New("authentication not configured")

	// ErrMissingCredential means no credential was presented at all.
	ErrMissingCredential = errors.New("access key required")

	// ErrInvalidCredential means a credential was presented and does not match.
	ErrInvalidCredential = errors.New("invalid access key")
)

// Gate validates presented credentials against a single configured secret.
// The secret is hashed once at construction and never stored in plaintext;
// verification is constant-time (Argon2id + subtle.ConstantTimeCompare).
//
// A Gate is stateless beyond its immutable hash: checks are read-only,
// safe for arbitrary concurrent use, and leave no trace between calls.
// There is no lockout, counter, or session state. The token issued on
// success is the submitted key echoed back.
type Gate struct {
	hash string // encoded Argon2id hash of the secret, empty = not configured
}

// NewGate creates a gate for the given secret. An empty secret produces an
// unconfigured gate whose checks all fail with ErrNotConfigured.
func NewGate(secret string) (*Gate, error) {
	if secret == "" {
		return &Gate{}, nil
	}

	hash, err := HashSecret(secret, nil)
	if err != nil {
		return nil, err
	}
	return &Gate{hash: hash}, nil
}

// Configured reports whether a secret is set.
func (g *Gate) Configured() bool {
	return g.hash != ""
}

// Authenticate validates a credential submitted through the login endpoint.
// On success it returns the token to issue, which is the submitted key
// echoed back verbatim. Tokens carry no expiry and no signature.
func (g *Gate) Authenticate(submitted string) (string, error) {
	if !g.Configured() {
		return "", ErrNotConfigured
	}

	if !g.matches(submitted) {
		return "", ErrInvalidCredential
	}
	return submitted, nil
}

// Authorize checks a credential presented on a guarded route. An empty
// credential counts as absent. Failure precedence: ErrNotConfigured, then
// ErrMissingCredential, then ErrInvalidCredential.
func (g *Gate) Authorize(presented string) error {
	if !g.Configured() {
		return ErrNotConfigured
	}
	if presented == "" {
		return ErrMissingCredential
	}
	if !g.matches(presented) {
		return ErrInvalidCredential
	}
	return nil
}

// AuthorizeOptional never fails: it returns the credential and true iff
// Authorize would grant it, otherwise "" and false. Used on routes that may
// run with or without authentication.
func (g *Gate) AuthorizeOptional(presented string) (string, bool) {
	if g.Authorize(presented) != nil {
		return "", false
	}
	return presented, true
}

// matches verifies a credential against the stored hash.
func (g *Gate) matches(credential string) bool {
	ok, err := VerifySecret(credential, g.hash)
	return err == nil && ok
}
