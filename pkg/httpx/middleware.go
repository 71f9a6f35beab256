package httpx

import "net/http"

// Middleware wraps a handler with extra behaviour.
type Middleware func(http.Handler) http.Handler

// Chain wraps h with mws so that the first middleware listed runs first.
//
//	Chain(h, Authn, RequireScope, RateLimit) == Authn(RequireScope(RateLimit(h)))
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
