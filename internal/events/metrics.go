package events

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	published prometheus.Counter
	dropped   prometheus.Counter
	errors    prometheus.Counter
}

func initMetrics(register bool) *metrics {
	m := &metrics{
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idgen",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of events acknowledged by the broker",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idgen",
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Total number of events dropped because the buffer was full or the publisher closed",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "idgen",
			Subsystem: "events",
			Name:      "errors_total",
			Help:      "Total number of failed or breaker-rejected sends",
		}),
	}

	if register {
		prometheus.MustRegister(m.published, m.dropped, m.errors)
	}
	return m
}
