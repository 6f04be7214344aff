package snowflake

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	idsIssued         prometheus.Counter
	clockRegressions  prometheus.Counter
	sequenceExhausted prometheus.Counter
	spinWait          prometheus.Histogram
}

func initMetrics(register bool) *metrics {
	m := &metrics{
		idsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idgen",
			Subsystem: "generator",
			Name:      "ids_total",
			Help:      "Total number of ids issued",
		}),
		clockRegressions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idgen",
			Subsystem: "generator",
			Name:      "clock_regressions_total",
			Help:      "Total number of requests rejected because the clock moved backwards",
		}),
		sequenceExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idgen",
			Subsystem: "generator",
			Name:      "sequence_exhausted_total",
			Help:      "Total number of times the sequence ran out within a tick",
		}),
		spinWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "idgen",
			Subsystem: "generator",
			Name:      "spin_wait_seconds",
			Help:      "Time spent spinning for the next tick after sequence exhaustion",
			Buckets:   []float64{0.00001, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005},
		}),
	}

	if register {
		prometheus.MustRegister(
			m.idsIssued,
			m.clockRegressions,
			m.sequenceExhausted,
			m.spinWait,
		)
	}
	return m
}
