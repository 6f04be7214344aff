package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/IBM/sarama"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var ErrPublisherClosed = errors.New("publisher closed")

// KafkaPublisher sends events from a bounded queue through a synchronous
// producer guarded by a circuit breaker. A single goroutine owns the producer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	breaker  *gobreaker.CircuitBreaker
	logger   *zap.Logger
	metrics  *metrics

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

func NewKafkaPublisher(logger *zap.Logger, cfg *KafkaConfig, registerMetrics bool) (*KafkaPublisher, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Return.Errors = true
	saramaCfg.Producer.Timeout = cfg.Timeout
	saramaCfg.Producer.Retry.Max = 1
	saramaCfg.Net.DialTimeout = cfg.Timeout
	saramaCfg.Metadata.Retry.Max = 1

	switch cfg.Acks {
	case "0":
		saramaCfg.Producer.RequiredAcks = sarama.NoResponse
	case "all":
		saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	default:
		saramaCfg.Producer.RequiredAcks = sarama.WaitForLocal
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		logger.Error("failed to create Kafka producer", zap.Error(err))
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	logger.Info("kafka events producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)

	return NewKafkaPublisherWithProducer(logger, producer, cfg, registerMetrics), nil
}

// NewKafkaPublisherWithProducer starts the dispatch goroutine over an
// existing producer. The publisher owns the producer and closes it.
func NewKafkaPublisherWithProducer(logger *zap.Logger, producer sarama.SyncProducer, cfg *KafkaConfig, registerMetrics bool) *KafkaPublisher {
	logger = logger.With(zap.String("component", "events"))

	p := &KafkaPublisher{
		producer: producer,
		topic:    cfg.Topic,
		logger:   logger,
		metrics:  initMetrics(registerMetrics),
		queue:    make(chan Event, cfg.BufferSize),
		done:     make(chan struct{}),
	}

	maxFailures := cfg.BreakerMaxFailures
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kafka-events",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	go p.dispatch()
	return p
}

// Publish enqueues ev without blocking. The event is dropped when the queue
// is full or the publisher is closed.
func (p *KafkaPublisher) Publish(ev Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.metrics.dropped.Inc()
		return
	}

	select {
	case p.queue <- ev:
	default:
		p.metrics.dropped.Inc()
		p.logger.Warn("event dropped, queue full", zap.String("type", ev.Type))
	}
}

func (p *KafkaPublisher) dispatch() {
	defer close(p.done)
	for ev := range p.queue {
		p.send(ev)
	}
}

func (p *KafkaPublisher) send(ev Event) {
	logger := p.logger.With(zap.String("method", "send"), zap.String("type", ev.Type))

	payload, err := json.Marshal(ev)
	if err != nil {
		p.metrics.errors.Inc()
		logger.Error("failed to encode event", zap.Error(err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(ev.GeneratorID, 10)),
		Value: sarama.ByteEncoder(payload),
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		_, _, err := p.producer.SendMessage(msg)
		return nil, err
	})
	if err != nil {
		p.metrics.errors.Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logger.Debug("event rejected by circuit breaker", zap.Error(err))
			return
		}
		logger.Warn("failed to publish event", zap.Error(err))
		return
	}
	p.metrics.published.Inc()
}

// Close stops accepting events, drains the queue and closes the producer.
// If ctx expires first, the producer is closed once the in-flight send ends.
func (p *KafkaPublisher) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.logger.Info("events publisher shutting down...")

		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()

		select {
		case <-p.done:
		case <-ctx.Done():
			p.logger.Warn("events queue drain timeout", zap.Error(ctx.Err()))
			p.closeErr = ctx.Err()
			// the producer still belongs to the dispatcher until it finishes
			go func() {
				<-p.done
				_ = p.closeProducer()
			}()
			return
		}

		p.closeErr = p.closeProducer()
	})
	return p.closeErr
}

func (p *KafkaPublisher) closeProducer() error {
	if err := p.producer.Close(); err != nil {
		p.logger.Warn("error while closing Kafka producer", zap.Error(err))
		return err
	}
	p.logger.Info("events publisher closed")
	return nil
}
