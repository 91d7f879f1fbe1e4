package api

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// NewLoggingInterceptor logs every unary call with its outcome
func NewLoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			res, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err == nil {
				logger.InfoContext(ctx, "rpc completed", append(attrs, "code", "ok")...)
				return res, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs, "code", code.String(), "error", err)
			if code == connect.CodeInternal || code == connect.CodeUnknown {
				logger.ErrorContext(ctx, "rpc failed", attrs...)
			} else {
				logger.InfoContext(ctx, "rpc rejected", attrs...)
			}
			return res, err
		}
	}
}
