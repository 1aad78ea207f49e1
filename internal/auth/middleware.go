package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// contextKey is an unexported type used for context keys in this package,
// so no other package can read or shadow the claims value.
type contextKey string

const claimsKey contextKey = "claims"

var errMissingToken = errors.New("auth: missing bearer token")

// unauthorizedBody is the single response every guard sends on rejection.
// A caller cannot tell a missing token from a wrong user or a non-admin.
const unauthorizedBody = `{"error":"unauthorized","message":"Unauthorized"}` + "\n"

// RequireLoggedIn admits requests carrying a valid bearer token.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new one that wraps it.
// Chi applies them in a chain: req → M1 → M2 → Handler → M2 → M1 → resp.
func RequireLoggedIn(tokens *TokenService) func(http.Handler) http.Handler {
	return guard(tokens, func(*http.Request, *Claims) bool { return true })
}

// RequireCorrectUser admits requests whose token belongs to the user named
// by the chi URL parameter param (e.g. "username" in /users/{username}).
func RequireCorrectUser(tokens *TokenService, param string) func(http.Handler) http.Handler {
	return guard(tokens, func(r *http.Request, c *Claims) bool {
		return c.Username == chi.URLParam(r, param)
	})
}

// RequireAdmin admits requests whose token carries is_admin=true.
func RequireAdmin(tokens *TokenService) func(http.Handler) http.Handler {
	return guard(tokens, func(_ *http.Request, c *Claims) bool { return c.IsAdmin })
}

// OptionalClaims never rejects. A valid bearer token puts its claims in the
// context; a missing or invalid one leaves the request anonymous.
//
// Used on public routes whose behaviour depends on who is calling, such as
// POST /users, where only an admin may create another admin.
func OptionalClaims(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, err := claimsFromRequest(r, tokens); err == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// guard validates the bearer token, applies allow, and either stores the
// claims in the context or stops the chain with 401.
func guard(tokens *TokenService, allow func(*http.Request, *Claims) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(r, tokens)
			if err != nil || !allow(r, claims) {
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a copy of ctx carrying verified claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the claims verified for this request.
// Returns (nil, false) when the caller is anonymous.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func claimsFromRequest(r *http.Request, tokens *TokenService) (*Claims, error) {
	token, ok := BearerToken(r)
	if !ok {
		return nil, errMissingToken
	}
	return tokens.Validate(token)
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(unauthorizedBody))
}
