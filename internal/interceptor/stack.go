package interceptor

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Stack holds the state shared by every transport's interceptor chain.
type Stack struct {
	Logger  *zap.Logger
	Config  Config
	Metrics *Metrics
	Limiter *rate.Limiter
}

func NewStack(logger *zap.Logger, cfg Config, registerMetrics bool) *Stack {
	return &Stack{
		Logger:  logger,
		Config:  cfg,
		Metrics: NewMetrics(registerMetrics),
		Limiter: NewLimiter(cfg.RateLimit),
	}
}

// Default returns the standard chain, outermost first:
// Recovery, RequestID, RateLimit, Instrument, Logging.
func Default[Req, Resp any](s *Stack) []Interceptor[Req, Resp] {
	return []Interceptor[Req, Resp]{
		Recovery[Req, Resp](s.Logger),
		RequestID[Req, Resp](),
		RateLimit[Req, Resp](s.Limiter, s.Logger),
		Instrument[Req, Resp](s.Metrics),
		Logging[Req, Resp](s.Logger, s.Config),
	}
}
