package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/zhukov-alex/idgen/internal/events"
	"github.com/zhukov-alex/idgen/internal/mocks"
	"github.com/zhukov-alex/idgen/internal/snowflake"
)

var _ snowflake.Observer = (*events.Notifier)(nil)

func TestNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pub := mocks.NewMockPublisher(ctrl)
	var got []events.Event
	pub.EXPECT().Publish(gomock.Any()).Do(func(ev events.Event) {
		got = append(got, ev)
	}).Times(3)

	n := events.NewNotifier(pub)
	n.Started(4)
	n.ClockRegressed(4, 120, 95)
	n.Stopped(4)

	if assert.Len(t, got, 3) {
		assert.Equal(t, events.TypeGeneratorStarted, got[0].Type)
		assert.Equal(t, events.TypeGeneratorClockRegression, got[1].Type)
		assert.Equal(t, uint64(120), got[1].LastTick)
		assert.Equal(t, uint64(95), got[1].ObservedTick)
		assert.Equal(t, events.TypeGeneratorStopped, got[2].Type)
		for _, ev := range got {
			assert.Equal(t, uint64(4), ev.GeneratorID)
			assert.WithinDuration(t, time.Now(), ev.Time, time.Minute)
		}
	}
}

func TestNotifier_AsGeneratorObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pub := mocks.NewMockPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any()).Times(0)

	structure := snowflake.NewStructureBuilder().
		TimestampBits(41).GeneratorIDBits(10).SequenceBits(13).
		Epoch(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
		MustBuild()
	gen := snowflake.NewGeneratorBuilder().
		Structure(structure).
		GeneratorID(1).
		Observer(events.NewNotifier(pub)).
		MustBuild()

	_, err := gen.NextID()
	assert.NoError(t, err, "healthy clock must not emit events")
}

func TestNop(t *testing.T) {
	var p events.Publisher = events.Nop{}
	p.Publish(events.Event{Type: events.TypeGeneratorStarted})
	assert.NoError(t, p.Close(context.Background()))
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *events.KafkaConfig {
		return &events.KafkaConfig{
			Brokers:            []string{"localhost:9092"},
			Topic:              "idgen-events",
			Acks:               "all",
			Timeout:            time.Second,
			BufferSize:         8,
			BreakerMaxFailures: 3,
			BreakerOpenTimeout: time.Second,
		}
	}

	tests := []struct {
		name    string
		cfg     events.Config
		wantErr bool
	}{
		{name: "disabled", cfg: events.Config{}},
		{name: "kafka ok", cfg: events.Config{Type: "kafka", Kafka: valid()}},
		{name: "kafka missing", cfg: events.Config{Type: "kafka"}, wantErr: true},
		{name: "unknown type", cfg: events.Config{Type: "nats"}, wantErr: true},
		{name: "no brokers", cfg: events.Config{Type: "kafka", Kafka: func() *events.KafkaConfig {
			c := valid()
			c.Brokers = nil
			return c
		}()}, wantErr: true},
		{name: "bad acks", cfg: events.Config{Type: "kafka", Kafka: func() *events.KafkaConfig {
			c := valid()
			c.Acks = "2"
			return c
		}()}, wantErr: true},
		{name: "zero buffer", cfg: events.Config{Type: "kafka", Kafka: func() *events.KafkaConfig {
			c := valid()
			c.BufferSize = 0
			return c
		}()}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
