package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/ledger/pkg/jwtx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// AccessTokenCookie is read when no Authorization header is present, so the
// server-rendered pages work from a plain browser session.
const AccessTokenCookie = "access_token"

// AuthnMiddleware verifies the bearer token and injects the caller's
// identity into the request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := bearerToken(r)
			if raw == "" {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = ContextWithClaims(ctx, claims)
			ctx = slogx.WithOwner(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if !strings.HasPrefix(authz, "Bearer ") {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
