package middleware

import (
	"context"
	"net/http"

	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

type identityKey struct{}

// IdentityResolver reads the session identity of a request.
type IdentityResolver interface {
	Identity(r *http.Request) domain.Identity
}

// WithIdentity stores identity in ctx.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity stored by RequireSession.
func IdentityFromContext(ctx context.Context) domain.Identity {
	if identity, ok := ctx.Value(identityKey{}).(domain.Identity); ok {
		return identity
	}
	return domain.Anonymous
}

// RequireSession rejects requests without an authenticated session with 401.
func RequireSession(sessions IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := sessions.Identity(r)
			if !identity.Authenticated {
				logging.FromCtx(r.Context()).Debug().
					Str(logging.FieldMethod, r.Method).
					Str(logging.FieldPath, r.URL.Path).
					Msg("request without session rejected")
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			ctx = logging.CtxWithFields(ctx, map[string]any{logging.FieldUsername: identity.Username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
