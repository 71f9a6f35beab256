package postgres

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
)

type queryTracer struct {
	logger *slog.Logger
}

func (q *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	q.logger.DebugContext(ctx, "query start",
		slog.String("sql", strings.Join(strings.Fields(data.SQL), " ")),
		slog.Int("args", len(data.Args)),
	)
	return ctx
}

func (q *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	if data.Err != nil {
		q.logger.DebugContext(ctx, "query failed", slog.String("error", data.Err.Error()))
		return
	}
	q.logger.DebugContext(ctx, "query end", slog.String("tag", data.CommandTag.String()))
}
