package service

import (
	"math"
	"time"

	alerttypes "floodwatch/internal/modules/alerts/types"
	"floodwatch/internal/prediction"
	"floodwatch/internal/risk"
)

// Snapshotter is the read side of the alert feed.
type Snapshotter interface {
	Snapshot() []alerttypes.Alert
	RefreshedAt() time.Time
}

// RegionStatus is one marker on the dashboard map.
type RegionStatus struct {
	Name  string     `json:"name"`
	Lat   float64    `json:"lat"`
	Lon   float64    `json:"lon"`
	Level risk.Level `json:"level"`
	Score float64    `json:"score"`
}

// Summary aggregates the current alert snapshot. FloodRiskIndex is the mean
// model probability across regions, as a percentage.
type Summary struct {
	AvgRainfall          float64           `json:"avg_rainfall_mm"`
	AvgWaterLevel        float64           `json:"avg_water_level_m"`
	AvgPopulationDensity float64           `json:"avg_population_density"`
	FloodRiskIndex       float64           `json:"flood_risk_index"`
	Counts               alerttypes.Counts `json:"counts"`
	Regions              []RegionStatus    `json:"regions"`
	RefreshedAt          time.Time         `json:"refreshed_at"`
}

// Summarize computes the dashboard metrics. Absent fields take their
// defaults; an empty snapshot yields zero metrics.
func Summarize(feed Snapshotter) Summary {
	alerts := feed.Snapshot()
	s := Summary{
		Counts:      alerttypes.CountAlerts(alerts),
		Regions:     make([]RegionStatus, 0, len(alerts)),
		RefreshedAt: feed.RefreshedAt(),
	}
	if len(alerts) == 0 {
		return s
	}

	var rain, water, pop, prob float64
	for _, a := range alerts {
		r := a.Reading.WithDefaults()
		rain += value(r, risk.KeyRainfall)
		water += value(r, risk.KeyWaterLevel)
		pop += value(r, risk.KeyPopulationDensity)
		prob += prediction.Probability(r)
		s.Regions = append(s.Regions, RegionStatus{Name: a.Region, Lat: a.Lat, Lon: a.Lon, Level: a.Level, Score: round(a.Score, 2)})
	}
	n := float64(len(alerts))
	s.AvgRainfall = round(rain/n, 2)
	s.AvgWaterLevel = round(water/n, 2)
	s.AvgPopulationDensity = round(pop/n, 0)
	s.FloodRiskIndex = round(prob/n*100, 1)
	return s
}

func value(r risk.Reading, key string) float64 {
	v, _ := r.Get(key)
	return v
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
