package interceptor

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Metrics struct {
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewMetrics(register bool) *Metrics {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "idgen",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total number of requests by method and status code",
		}, []string{"method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "idgen",
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "Request latency including time spent waiting for the generator lock",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}, []string{"method"}),
	}

	if register {
		prometheus.MustRegister(
			m.requestTotal,
			m.requestDuration,
		)
	}
	return m
}

// Instrument records request counts and latency into m.
func Instrument[Req, Resp any](m *Metrics) Interceptor[Req, Resp] {
	return func(ctx context.Context, req Req, info Info, next Handler[Req, Resp]) (Resp, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		m.requestDuration.WithLabelValues(info.Method).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(info.Method, status.Code(err).String()).Inc()
		return resp, err
	}
}

func (m *Metrics) RequestTotal(method string, code codes.Code) prometheus.Counter {
	return m.requestTotal.WithLabelValues(method, code.String())
}
