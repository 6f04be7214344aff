package snowflake

import (
	"time"
)

const (
	totalBits   = 64
	DefaultTick = time.Millisecond
)

// Structure describes how an id is laid out:
// [masked timestamp | generator id | sequence], most significant bits first.
// It is immutable once built.
type Structure struct {
	timestampBits   uint8
	generatorIDBits uint8
	sequenceBits    uint8
	epoch           time.Time
	tick            time.Duration
	clock           Clock
}

// StructureBuilder collects the layout fields. Every required setter must be
// called exactly once before Build.
type StructureBuilder struct {
	timestampBits   *uint8
	generatorIDBits *uint8
	sequenceBits    *uint8
	epoch           *time.Time
	tick            *time.Duration
	clock           Clock
	dups            []string
}

func NewStructureBuilder() *StructureBuilder {
	return &StructureBuilder{}
}

// TimestampBits sets the width of the time field. Zero is accepted, but then
// the masked time never advances: once the sequence is exhausted NextID spins
// forever while holding the generator lock.
func (b *StructureBuilder) TimestampBits(bits uint8) *StructureBuilder {
	setOnce(&b.timestampBits, bits, "timestamp_bits", &b.dups)
	return b
}

func (b *StructureBuilder) GeneratorIDBits(bits uint8) *StructureBuilder {
	setOnce(&b.generatorIDBits, bits, "generator_id_bits", &b.dups)
	return b
}

func (b *StructureBuilder) SequenceBits(bits uint8) *StructureBuilder {
	setOnce(&b.sequenceBits, bits, "sequence_bits", &b.dups)
	return b
}

func (b *StructureBuilder) Epoch(epoch time.Time) *StructureBuilder {
	setOnce(&b.epoch, epoch, "epoch", &b.dups)
	return b
}

// Tick overrides the tick resolution (default 1ms).
func (b *StructureBuilder) Tick(tick time.Duration) *StructureBuilder {
	setOnce(&b.tick, tick, "tick", &b.dups)
	return b
}

// Clock overrides the time source (default NewMonotonicClock).
func (b *StructureBuilder) Clock(c Clock) *StructureBuilder {
	b.clock = c
	return b
}

// Build validates the collected fields and returns a *ConfigError listing all
// problems found.
func (b *StructureBuilder) Build() (*Structure, error) {
	p := problems{target: "id structure"}
	for _, name := range b.dups {
		p.addf("%s set more than once", name)
	}
	if b.timestampBits == nil {
		p.addf("timestamp_bits is required")
	}
	if b.generatorIDBits == nil {
		p.addf("generator_id_bits is required")
	}
	if b.sequenceBits == nil {
		p.addf("sequence_bits is required")
	}
	if b.epoch == nil {
		p.addf("epoch is required")
	}

	clock := b.clock
	if clock == nil {
		clock = NewMonotonicClock()
	}
	tick := DefaultTick
	if b.tick != nil {
		tick = *b.tick
	}
	if tick <= 0 {
		p.addf("tick must be > 0, got %s", tick)
	}

	if b.timestampBits != nil && b.generatorIDBits != nil && b.sequenceBits != nil {
		sum := int(*b.timestampBits) + int(*b.generatorIDBits) + int(*b.sequenceBits)
		if sum != totalBits {
			p.addf("timestamp_bits + generator_id_bits + sequence_bits must be %d, got %d", totalBits, sum)
		}
	}
	if b.epoch != nil {
		if now := clock.Now(); b.epoch.After(now) {
			p.addf("epoch %s is after now (%s)", b.epoch.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
		}
	}

	if err := p.err(); err != nil {
		return nil, err
	}
	return &Structure{
		timestampBits:   *b.timestampBits,
		generatorIDBits: *b.generatorIDBits,
		sequenceBits:    *b.sequenceBits,
		epoch:           *b.epoch,
		tick:            tick,
		clock:           clock,
	}, nil
}

// MustBuild is Build for static wiring: a bad layout is a programming error.
func (b *StructureBuilder) MustBuild() *Structure {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Structure) TimestampBits() uint8   { return s.timestampBits }
func (s *Structure) GeneratorIDBits() uint8 { return s.generatorIDBits }
func (s *Structure) SequenceBits() uint8    { return s.sequenceBits }
func (s *Structure) Epoch() time.Time       { return s.epoch }
func (s *Structure) Tick() time.Duration    { return s.tick }

func (s *Structure) TimeMask() uint64        { return mask(s.timestampBits) }
func (s *Structure) GeneratorIDMask() uint64 { return mask(s.generatorIDBits) }
func (s *Structure) SequenceMask() uint64    { return mask(s.sequenceBits) }

func (s *Structure) TimeShift() uint64        { return uint64(s.generatorIDBits) + uint64(s.sequenceBits) }
func (s *Structure) GeneratorIDShift() uint64 { return uint64(s.sequenceBits) }

// Elapsed is the time passed since the epoch according to the structure's clock.
func (s *Structure) Elapsed() time.Duration {
	return s.clock.Now().Sub(s.epoch)
}

// Ticks is Elapsed in whole ticks. A clock reading before the epoch counts as 0.
func (s *Structure) Ticks() uint64 {
	elapsed := s.Elapsed()
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / s.tick)
}

func (s *Structure) maskedTicks() uint64 {
	return s.Ticks() & s.TimeMask()
}

// Parts is a decoded id.
type Parts struct {
	Ticks       uint64
	GeneratorID uint64
	Sequence    uint64
}

// Decode splits an id back into its fields.
func (s *Structure) Decode(id uint64) Parts {
	return Parts{
		Ticks:       (id >> s.TimeShift()) & s.TimeMask(),
		GeneratorID: (id >> s.GeneratorIDShift()) & s.GeneratorIDMask(),
		Sequence:    id & s.SequenceMask(),
	}
}

// Time converts the tick field of an id back to wall time. Masked timestamps
// that have wrapped around cannot be told apart.
func (s *Structure) Time(p Parts) time.Time {
	return s.epoch.Add(time.Duration(p.Ticks) * s.tick)
}

func (s *Structure) compose(ticks, generatorID, sequence uint64) uint64 {
	return (ticks << s.TimeShift()) | (generatorID << s.GeneratorIDShift()) | sequence
}

func mask(bits uint8) uint64 {
	// shifting by 64 yields 0, so 64 bits gives all ones
	return (uint64(1) << bits) - 1
}

func setOnce[T any](dst **T, v T, name string, dups *[]string) {
	if *dst != nil {
		*dups = append(*dups, name)
		return
	}
	*dst = &v
}
