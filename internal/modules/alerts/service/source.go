package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"floodwatch/internal/modules/alerts/types"
	"floodwatch/internal/risk"

	"github.com/google/uuid"
)

// Regions are the monitored locations, in display order.
var Regions = []types.Region{
	{Name: "Delhi", Lat: 28.6139, Lon: 77.2090},
	{Name: "Mumbai", Lat: 19.0760, Lon: 72.8777},
	{Name: "Kolkata", Lat: 22.5726, Lon: 88.3639},
	{Name: "Chennai", Lat: 13.0827, Lon: 80.2707},
	{Name: "Assam", Lat: 26.2006, Lon: 92.9376},
	{Name: "Kerala", Lat: 10.8505, Lon: 76.2711},
	{Name: "Bihar", Lat: 25.0961, Lon: 85.3131},
	{Name: "Uttarakhand", Lat: 30.0668, Lon: 79.0193},
	{Name: "Punjab", Lat: 31.1471, Lon: 75.3412},
	{Name: "Odisha", Lat: 20.9517, Lon: 85.0985},
}

// Source produces the next alert snapshot.
type Source interface {
	Pull(ctx context.Context) ([]types.Alert, error)
}

// RandomSource simulates one alert per region: each field is drawn uniformly
// from its domain and the reading is classified by the scorer.
type RandomSource struct {
	regions []types.Region
	now     func() time.Time
	newID   func() string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource seeds the generator; seed 0 seeds from the clock.
func NewRandomSource(seed int64, regions []types.Region) *RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if regions == nil {
		regions = Regions
	}
	return &RandomSource{
		regions: regions,
		now:     time.Now,
		newID:   uuid.NewString,
		rng:     rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)),
	}
}

func (s *RandomSource) Pull(ctx context.Context) ([]types.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]types.Alert, 0, len(s.regions))
	for _, region := range s.regions {
		var r risk.Reading
		for _, f := range risk.Fields() {
			_ = r.Set(f.Key, f.Min+s.rng.Float64()*(f.Max-f.Min))
		}
		a := risk.Compute(r)
		out = append(out, types.Alert{
			ID:      s.newID(),
			Region:  region.Name,
			Lat:     region.Lat,
			Lon:     region.Lon,
			Level:   a.Level,
			Label:   a.Label,
			Score:   a.Score,
			Reading: r,
			Time:    now,
		})
	}
	return out, nil
}

// StaticSource serves a fixed snapshot. Alerts without a time get the time
// of the pull.
type StaticSource struct {
	Alerts []types.Alert
	Err    error
}

func (s *StaticSource) Pull(ctx context.Context) ([]types.Alert, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	now := time.Now()
	out := make([]types.Alert, len(s.Alerts))
	for i, a := range s.Alerts {
		if a.Time.IsZero() {
			a.Time = now
		}
		if a.Label == "" {
			a.Label = a.Level.Label()
		}
		out[i] = a
	}
	return out, nil
}
