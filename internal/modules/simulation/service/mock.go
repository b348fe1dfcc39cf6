package service

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

type mockRange struct {
	key      string
	min, max float64
	places   int
}

// Ranges of the mock sensor feed, keyed by the short field aliases.
var mockRanges = []mockRange{
	{"rainfall", 5, 100, 2},
	{"river_discharge", 50, 500, 2},
	{"water_level", 1, 15, 2},
	{"soil_moisture", 10, 70, 2},
	{"temperature", 10, 40, 1},
	{"humidity", 30, 90, 1},
	{"wind_speed", 1, 20, 1},
	{"pressure", 900, 1020, 1},
	{"elevation", 10, 2500, 1},
	{"population_density", 100, 2000, 1},
	{"drainage_efficiency", 50, 100, 1},
	{"distance_to_coast", 0, 500, 1},
	{"deforestation_index", 0, 100, 1},
}

// MockFeed fakes a sensor fetch for the simulation page.
type MockFeed struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockFeed seeds the generator; seed 0 seeds from the clock.
func NewMockFeed(seed int64) *MockFeed {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockFeed{rng: rand.New(rand.NewPCG(uint64(seed), 0xfeed))}
}

// Fetch returns one value per field under its short key.
func (m *MockFeed) Fetch() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]float64, len(mockRanges))
	for _, r := range mockRanges {
		v := r.min + m.rng.Float64()*(r.max-r.min)
		p := math.Pow10(r.places)
		out[r.key] = math.Round(v*p) / p
	}
	return out
}
