package interceptor

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NewLimiter returns nil when rate limiting is disabled.
func NewLimiter(cfg RateLimitConfig) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
}

// RateLimit rejects calls with codes.ResourceExhausted once limiter runs dry.
// A nil limiter lets everything through. Share one limiter between
// transports to enforce a single budget.
func RateLimit[Req, Resp any](limiter *rate.Limiter, logger *zap.Logger) Interceptor[Req, Resp] {
	return func(ctx context.Context, req Req, info Info, next Handler[Req, Resp]) (Resp, error) {
		if limiter != nil && !limiter.Allow() {
			logger.Warn("request rate limited",
				zap.String("target", info.Service),
				zap.String("method", info.Method),
				zap.Float64("limit", float64(limiter.Limit())),
				zap.Int("burst", limiter.Burst()),
			)
			var zero Resp
			return zero, status.Error(codes.ResourceExhausted, "too many requests")
		}
		return next(ctx, req)
	}
}
