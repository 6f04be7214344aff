package snowflake

import (
	"errors"
	"iter"
	"sync"
	"time"
)

// Observer is notified about faults after the generator lock is released.
type Observer interface {
	ClockRegressed(generatorID, lastTick, observedTick uint64)
}

type state struct {
	generatorID uint64
	sequence    uint64
	lastTick    uint64
}

// Snapshot is a copy of the generator counters.
type Snapshot struct {
	GeneratorID uint64
	Sequence    uint64
	LastTick    uint64
}

// Generator issues ids for one generator identity. It is safe for concurrent
// use; every call is serialized by a single mutex.
type Generator struct {
	structure *Structure
	mu        sync.Mutex
	state     state
	observer  Observer
	metrics   *metrics
}

// GeneratorBuilder collects the generator fields. Structure and GeneratorID
// must be set exactly once.
type GeneratorBuilder struct {
	structure       *Structure
	structureSet    bool
	generatorID     *uint64
	observer        Observer
	registerMetrics bool
	dups            []string
}

func NewGeneratorBuilder() *GeneratorBuilder {
	return &GeneratorBuilder{}
}

func (b *GeneratorBuilder) Structure(s *Structure) *GeneratorBuilder {
	if b.structureSet {
		b.dups = append(b.dups, "structure")
		return b
	}
	b.structure, b.structureSet = s, true
	return b
}

func (b *GeneratorBuilder) GeneratorID(id uint64) *GeneratorBuilder {
	setOnce(&b.generatorID, id, "generator_id", &b.dups)
	return b
}

func (b *GeneratorBuilder) Observer(o Observer) *GeneratorBuilder {
	b.observer = o
	return b
}

// RegisterMetrics registers the generator collectors with the default
// Prometheus registry on Build.
func (b *GeneratorBuilder) RegisterMetrics(register bool) *GeneratorBuilder {
	b.registerMetrics = register
	return b
}

func (b *GeneratorBuilder) Build() (*Generator, error) {
	p := problems{target: "generator"}
	for _, name := range b.dups {
		p.addf("%s set more than once", name)
	}
	if b.structure == nil {
		p.addf("structure is required")
	}
	if b.generatorID == nil {
		p.addf("generator_id is required")
	}
	if b.structure != nil && b.generatorID != nil && *b.generatorID > b.structure.GeneratorIDMask() {
		p.addf("generator_id %d does not fit in %d bits", *b.generatorID, b.structure.GeneratorIDBits())
	}
	if err := p.err(); err != nil {
		return nil, err
	}

	return &Generator{
		structure: b.structure,
		state:     state{generatorID: *b.generatorID},
		observer:  b.observer,
		metrics:   initMetrics(b.registerMetrics),
	}, nil
}

func (b *GeneratorBuilder) MustBuild() *Generator {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Generator) Structure() *Structure { return g.structure }
func (g *Generator) ID() uint64             { return g.state.generatorID }

// NextID returns the next id or a *ClockRegressionError. When the sequence is
// exhausted for the current tick it spins, still holding the lock, until the
// clock moves to the next tick.
func (g *Generator) NextID() (uint64, error) {
	g.mu.Lock()
	id, err := g.nextLocked()
	g.mu.Unlock()

	if err != nil {
		g.metrics.clockRegressions.Inc()
		var cr *ClockRegressionError
		if g.observer != nil && errors.As(err, &cr) {
			g.observer.ClockRegressed(g.state.generatorID, cr.Last, cr.Observed)
		}
		return 0, err
	}
	g.metrics.idsIssued.Inc()
	return id, nil
}

func (g *Generator) nextLocked() (uint64, error) {
	s := &g.state
	for {
		now := g.structure.maskedTicks()
		if now < s.lastTick {
			return 0, &ClockRegressionError{Last: s.lastTick, Observed: now}
		}

		if now == s.lastTick {
			if s.sequence >= g.structure.SequenceMask() {
				g.metrics.sequenceExhausted.Inc()
				start := time.Now()
				for g.structure.maskedTicks() == now {
				}
				g.metrics.spinWait.Observe(time.Since(start).Seconds())
				continue
			}
			s.sequence++
		} else {
			s.sequence = 0
			s.lastTick = now
		}

		return g.structure.compose(now, s.generatorID, s.sequence), nil
	}
}

// IDs yields ids until the consumer stops or the clock regresses.
func (g *Generator) IDs() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for {
			id, err := g.NextID()
			if err != nil || !yield(id) {
				return
			}
		}
	}
}

func (g *Generator) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{
		GeneratorID: g.state.generatorID,
		Sequence:    g.state.sequence,
		LastTick:    g.state.lastTick,
	}
}
