package types

import (
	"strings"
	"time"

	"floodwatch/internal/risk"
)

// Region is a monitored location on the alert map.
type Region struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Slug is the lower-case, dash-separated name used in MQTT topics.
func (r Region) Slug() string {
	return Slug(r.Name)
}

func Slug(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}

// Alert is one region's risk at one refresh.
type Alert struct {
	ID      string       `json:"id"`
	Region  string       `json:"region"`
	Lat     float64      `json:"lat"`
	Lon     float64      `json:"lon"`
	Level   risk.Level   `json:"level"`
	Label   string       `json:"label"`
	Score   float64      `json:"score"`
	Reading risk.Reading `json:"reading"`
	Time    time.Time    `json:"time"`
}

// Counts tallies alerts per level.
type Counts struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Total    int `json:"total"`
}

func (c *Counts) Add(l risk.Level) {
	c.AddN(l, 1)
}

// AddN adds n alerts of level l. Unknown levels are ignored.
func (c *Counts) AddN(l risk.Level, n int) {
	switch l {
	case risk.LevelLow:
		c.Low += n
	case risk.LevelModerate:
		c.Moderate += n
	case risk.LevelHigh:
		c.High += n
	default:
		return
	}
	c.Total += n
}

// Of returns the count for one level.
func (c Counts) Of(l risk.Level) int {
	switch l {
	case risk.LevelLow:
		return c.Low
	case risk.LevelModerate:
		return c.Moderate
	case risk.LevelHigh:
		return c.High
	}
	return 0
}

// CountAlerts tallies alerts by level.
func CountAlerts(alerts []Alert) Counts {
	var c Counts
	for _, a := range alerts {
		c.Add(a.Level)
	}
	return c
}

// TrendPoint is the cumulative count per level after the alert at Index
// (1-based) in the log.
type TrendPoint struct {
	Index    int `json:"index"`
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
}

// Message is the MQTT payload published for each alert.
type Message struct {
	ID     string     `json:"id"`
	Region string     `json:"region"`
	Slug   string     `json:"slug"`
	Lat    float64    `json:"lat"`
	Lon    float64    `json:"lon"`
	Level  risk.Level `json:"level"`
	Label  string     `json:"label"`
	Score  float64    `json:"score"`
	Time   time.Time  `json:"time"`
}

func NewMessage(a Alert) Message {
	return Message{
		ID:     a.ID,
		Region: a.Region,
		Slug:   Slug(a.Region),
		Lat:    a.Lat,
		Lon:    a.Lon,
		Level:  a.Level,
		Label:  a.Label,
		Score:  a.Score,
		Time:   a.Time,
	}
}
