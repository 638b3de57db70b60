package middleware

import (
	"context"
	"net/http"
	"strings"

	authcore "github.com/MrEthical07/authcore"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity stored by [Guard] or
// [RequireActive], if any.
func IdentityFromContext(ctx context.Context) (*authcore.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*authcore.Identity)
	return identity, ok
}

// Guard resolves the request's bearer token through the engine and stores the
// identity in the request context. Missing or rejected credentials answer
// with a bare 401.
func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return guard(engine, false)
}

// RequireActive is [Guard] plus the active-account policy gate. Inactive
// accounts answer with 403, keeping the policy outcome distinguishable from
// credential rejection.
func RequireActive(engine *authcore.Engine) func(http.Handler) http.Handler {
	return guard(engine, true)
}

func guard(engine *authcore.Engine, requireActive bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			encoded, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := engine.ResolveCurrentUser(r.Context(), encoded)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if requireActive {
				if _, err := engine.RequireActiveUser(identity); err != nil {
					http.Error(w, "inactive user", http.StatusForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
