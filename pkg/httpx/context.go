package httpx

import (
	"context"

	"github.com/aussiebroadwan/ledger/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyScopes ctxKey = "scopes"
	CtxKeyClaims ctxKey = "claims"
)

// UserIDFromContext returns the authenticated subject. Every owner-scoped
// query and write takes its owner identifier from here.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok && v != ""
}

// ClaimsFromContext returns the full verified claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

// ContextWithClaims injects verified claims the same way AuthnMiddleware
// does. Handlers tests use it to skip token minting.
func ContextWithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyScopes, c.Scopes)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
