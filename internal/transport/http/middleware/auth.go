package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/adimehta/aiportal/internal/auth"
	"github.com/adimehta/aiportal/internal/types"
)

// credentialContextKey is the context key for the validated credential.
type credentialContextKey struct{}

// grantTTL bounds how long a granted verification is reused from cache.
// The secret is immutable for the process lifetime, so a cached grant can
// never disagree with a fresh check; the TTL only bounds memory residency.
const grantTTL = 5 * time.Minute

// GrantCache caches granted verifications to amortize the Argon2 cost of
// re-checking the same credential on every request.
type GrantCache = ristretto.Cache[string, time.Time]

// NewGrantCache creates the verification cache used by RequireKey.
func NewGrantCache() (*GrantCache, error) {
	return ristretto.NewCache(&ristretto.Config[string, time.Time]{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
}

// BearerCredential extracts the credential from the Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func BearerCredential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// RequireKey guards a route with the access gate. Failure precedence:
// 503 (not configured), 401 (missing credential), 403 (mismatch).
// On success the credential is stored in the request context for
// pass-through logging only. cache may be nil.
func RequireKey(gate *auth.Gate, cache *GrantCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := BearerCredential(r)

			// Reuse a cached grant before paying for Argon2 again.
			if cache != nil && credential != "" && gate.Configured() {
				if until, found := cache.Get(grantKey(credential)); found {
					if time.Now().Before(until) {
						next.ServeHTTP(w, r.WithContext(withCredential(r.Context(), credential)))
						return
					}
				}
			}

			if err := gate.Authorize(credential); err != nil {
				writeGateError(w, err)
				return
			}

			if cache != nil {
				cache.Set(grantKey(credential), time.Now().Add(grantTTL), 1)
			}

			next.ServeHTTP(w, r.WithContext(withCredential(r.Context(), credential)))
		})
	}
}

// OptionalKey never rejects: it stores the credential in the context when it
// validates and passes through unauthenticated otherwise.
func OptionalKey(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if credential, ok := gate.AuthorizeOptional(BearerCredential(r)); ok {
				r = r.WithContext(withCredential(r.Context(), credential))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetCredential retrieves the validated credential from the context.
func GetCredential(ctx context.Context) (string, bool) {
	credential, ok := ctx.Value(credentialContextKey{}).(string)
	return credential, ok
}

func withCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialContextKey{}, credential)
}

func grantKey(credential string) string {
	return "grant:" + credential
}

// writeGateError maps gate errors to transport responses.
func writeGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrNotConfigured):
		types.WriteError(w, http.StatusServiceUnavailable,
			types.ErrServiceUnavailable("Authentication not configured. Please set ACCESS_KEY."))
	case errors.Is(err, auth.ErrMissingCredential):
		types.WriteError(w, http.StatusUnauthorized,
			types.ErrAuthentication("Authentication required. Please provide access key."))
	default:
		types.WriteError(w, http.StatusForbidden,
			types.ErrPermission("Invalid access key."))
	}
}
