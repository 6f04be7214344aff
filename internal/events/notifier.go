package events

import (
	"os"
	"time"
)

//go:generate mockgen -destination=../mocks/mock_publisher.go -package=mocks github.com/zhukov-alex/idgen/internal/events Publisher

// Notifier turns generator lifecycle changes into events. It implements
// snowflake.Observer.
type Notifier struct {
	publisher Publisher
	host      string
	now       func() time.Time
}

func NewNotifier(p Publisher) *Notifier {
	host, _ := os.Hostname()
	return &Notifier{
		publisher: p,
		host:      host,
		now:       time.Now,
	}
}

func (n *Notifier) ClockRegressed(generatorID, lastTick, observedTick uint64) {
	ev := n.event(TypeGeneratorClockRegression, generatorID)
	ev.LastTick = lastTick
	ev.ObservedTick = observedTick
	n.publisher.Publish(ev)
}

func (n *Notifier) Started(generatorID uint64) {
	n.publisher.Publish(n.event(TypeGeneratorStarted, generatorID))
}

func (n *Notifier) Stopped(generatorID uint64) {
	n.publisher.Publish(n.event(TypeGeneratorStopped, generatorID))
}

func (n *Notifier) event(typ string, generatorID uint64) Event {
	return Event{
		Type:        typ,
		GeneratorID: generatorID,
		Host:        n.host,
		Time:        n.now().UTC(),
	}
}
