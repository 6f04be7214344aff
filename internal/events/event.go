package events

import (
	"context"
	"time"
)

const (
	TypeGeneratorStarted         = "generator.started"
	TypeGeneratorStopped         = "generator.stopped"
	TypeGeneratorClockRegression = "generator.clock_regression"
)

// Event describes a generator lifecycle change or fault.
type Event struct {
	Type         string    `json:"type"`
	GeneratorID  uint64    `json:"generator_id"`
	Host         string    `json:"host,omitempty"`
	Time         time.Time `json:"time"`
	LastTick     uint64    `json:"last_tick,omitempty"`
	ObservedTick uint64    `json:"observed_tick,omitempty"`
}

// Publisher delivers events on a best-effort basis. Publish must not block
// the caller.
type Publisher interface {
	Publish(ev Event)
	Close(ctx context.Context) error
}

type Nop struct{}

func (Nop) Publish(Event)               {}
func (Nop) Close(context.Context) error { return nil }
