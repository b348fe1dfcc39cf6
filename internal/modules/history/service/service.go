package service

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"floodwatch/internal/modules/history/types"
)

const (
	DefaultParameter = "rainfall"
	DefaultDays      = 30
	MaxDays          = 365
	dateLayout       = "2006-01-02"
)

var parameters = []types.Parameter{
	{Name: "rainfall", Label: "Rainfall", Unit: "mm", Min: 0, Max: 120},
	{Name: "river_discharge", Label: "River Discharge", Unit: "m³/s", Min: 0, Max: 500},
	{Name: "water_level", Label: "Water Level", Unit: "m", Min: 0, Max: 20},
	{Name: "soil_moisture", Label: "Soil Moisture", Unit: "%", Min: 0, Max: 70},
	{Name: "temperature", Label: "Temperature", Unit: "°C", Min: 10, Max: 45},
	{Name: "humidity", Label: "Humidity", Unit: "%", Min: 30, Max: 90},
	{Name: "wind_speed", Label: "Wind Speed", Unit: "m/s", Min: 0, Max: 25},
	{Name: "pressure", Label: "Pressure", Unit: "hPa", Min: 900, Max: 1020},
}

// Parameters returns the supported series parameters.
func Parameters() []types.Parameter {
	out := make([]types.Parameter, len(parameters))
	copy(out, parameters)
	return out
}

func lookup(name string) (types.Parameter, bool) {
	for _, p := range parameters {
		if p.Name == name {
			return p, true
		}
	}
	return types.Parameter{}, false
}

var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrDaysOutOfRange   = fmt.Errorf("days must be between 1 and %d", MaxDays)
)

// SeriesSource produces a daily series ending yesterday.
type SeriesSource interface {
	Series(parameter string, days int) (types.Series, error)
}

// RandomSeries draws each day's value uniformly from the parameter's range.
type RandomSeries struct {
	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSeries seeds the generator; seed 0 seeds from the clock.
func NewRandomSeries(seed int64) *RandomSeries {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomSeries{
		now: time.Now,
		rng: rand.New(rand.NewPCG(uint64(seed), 0x5eed)),
	}
}

func (s *RandomSeries) Series(parameter string, days int) (types.Series, error) {
	p, ok := lookup(parameter)
	if !ok {
		return types.Series{}, fmt.Errorf("%w %q", ErrUnknownParameter, parameter)
	}
	if days < 1 || days > MaxDays {
		return types.Series{}, ErrDaysOutOfRange
	}

	today := s.now()
	labels := make([]string, 0, days)
	values := make([]float64, 0, days)

	s.mu.Lock()
	for i := days; i >= 1; i-- {
		labels = append(labels, today.AddDate(0, 0, -i).Format(dateLayout))
		values = append(values, round2(p.Min+s.rng.Float64()*(p.Max-p.Min)))
	}
	s.mu.Unlock()

	return types.Series{
		Parameter: p.Name,
		Labels:    labels,
		Values:    values,
		Summary:   Summarize(values),
	}, nil
}

// Summarize computes avg/max/min of values, rounded to two decimals. An
// empty slice summarizes to zeros.
func Summarize(values []float64) types.Summary {
	if len(values) == 0 {
		return types.Summary{}
	}
	sum, hi, lo := 0.0, math.Inf(-1), math.Inf(1)
	for _, v := range values {
		sum += v
		hi = max(hi, v)
		lo = min(lo, v)
	}
	return types.Summary{
		Avg: round2(sum / float64(len(values))),
		Max: round2(hi),
		Min: round2(lo),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
