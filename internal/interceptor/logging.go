package interceptor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/status"
)

// Logging records the request and the wrapped service label before
// delegating, then the outcome. Failed and slow calls are logged at Warn.
func Logging[Req, Resp any](logger *zap.Logger, cfg Config) Interceptor[Req, Resp] {
	ignore := make(map[string]struct{}, len(cfg.IgnoreMethods))
	for _, m := range cfg.IgnoreMethods {
		ignore[m] = struct{}{}
	}

	return func(ctx context.Context, req Req, info Info, next Handler[Req, Resp]) (Resp, error) {
		if _, skip := ignore[info.Method]; skip {
			return next(ctx, req)
		}

		logger := logger.With(
			zap.String("target", info.Service),
			zap.String("method", info.Method),
			zap.String("request_id", RequestIDFromContext(ctx)),
		)
		logger.Debug("request", zap.String("request", fmt.Sprintf("%+v", req)))

		start := time.Now()
		resp, err := next(ctx, req)
		cost := time.Since(start)
		code := status.Code(err)

		switch {
		case err != nil:
			logger.Warn("request failed",
				zap.Duration("cost", cost),
				zap.String("code", code.String()),
				zap.Error(err),
			)
		case cfg.SlowThreshold > 0 && cost >= cfg.SlowThreshold:
			logger.Warn("slow request",
				zap.Duration("cost", cost),
				zap.String("code", code.String()),
			)
		default:
			logger.Info("request",
				zap.Duration("cost", cost),
				zap.String("code", code.String()),
			)
		}
		return resp, err
	}
}
