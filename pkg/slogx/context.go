package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request-scoped logger, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithOwner tags the contextual logger with the owner the request acts for.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return WithContext(ctx, FromContext(ctx).With("owner_id", ownerID))
}
