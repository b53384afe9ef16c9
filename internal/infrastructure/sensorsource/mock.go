package sensorsource

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smartfarm/backend/internal/domain/farm"
)

// MockConfig tunes the generated series
type MockConfig struct {
	Hours int
	Min   float64
	Max   float64
	Types []farm.ReadingType
}

// MockSource fabricates one reading per hour for the last Hours hours and
// each configured type. Values are whole numbers drawn uniformly from
// [Min, Max]. Nothing is persisted.
type MockSource struct {
	cfg MockConfig
	now func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockSource creates a generator. A nil rnd uses a randomly seeded
// source.
func NewMockSource(cfg MockConfig, rnd *rand.Rand) (*MockSource, error) {
	if cfg.Hours < 0 {
		return nil, errors.New("mock hours cannot be negative")
	}
	if cfg.Min > cfg.Max {
		return nil, errors.New("mock min cannot exceed mock max")
	}
	if len(cfg.Types) == 0 {
		cfg.Types = []farm.ReadingType{farm.ReadingTemperature}
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &MockSource{cfg: cfg, now: time.Now, rnd: rnd}, nil
}

// ReadLatest implements farm.SensorSource. Readings are newest first.
func (s *MockSource) ReadLatest(_ context.Context, fieldID uuid.UUID) ([]*farm.SensorReading, error) {
	now := s.now()
	readings := make([]*farm.SensorReading, 0, s.cfg.Hours*len(s.cfg.Types))

	s.mu.Lock()
	defer s.mu.Unlock()

	for h := 0; h < s.cfg.Hours; h++ {
		ts := now.Add(-time.Duration(h) * time.Hour)
		for _, t := range s.cfg.Types {
			readings = append(readings, &farm.SensorReading{
				ID:        uuid.New(),
				FieldID:   fieldID,
				Type:      t,
				Value:     s.value(),
				Unit:      t.DefaultUnit(),
				Timestamp: ts,
				CreatedAt: now,
			})
		}
	}
	return readings, nil
}

// value draws uniformly from [Min, Max], rounded to a whole number when
// the rounded value stays in range
func (s *MockSource) value() float64 {
	v := s.cfg.Min + s.rnd.Float64()*(s.cfg.Max-s.cfg.Min)
	if r := math.Round(v); r >= s.cfg.Min && r <= s.cfg.Max {
		return r
	}
	return v
}

var _ farm.SensorSource = (*MockSource)(nil)
