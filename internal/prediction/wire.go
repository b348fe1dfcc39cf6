package prediction

import (
	"math"
	"strings"

	"floodwatch/internal/risk"
)

// Response is the body of POST /predict, both as served by Model and as read
// by Client.
type Response struct {
	Success        bool    `json:"success"`
	Probability    float64 `json:"probability"`
	RiskLevel      string  `json:"risk_level,omitempty"`
	Prediction     string  `json:"prediction,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`
	Timestamp      string  `json:"timestamp,omitempty"`
	Error          string  `json:"error,omitempty"`
}

const (
	TierCritical = "CRITICAL"
	TierHigh     = "HIGH"
	TierMedium   = "MEDIUM"
	TierLow      = "LOW"
	TierSafe     = "SAFE"
)

// LevelFor maps a remote tier label onto the three-level scale. Labels it
// does not recognise are decided by probability instead.
func LevelFor(label string, probability float64) risk.Level {
	l := strings.ToUpper(label)
	switch {
	case strings.Contains(l, TierCritical), strings.Contains(l, TierHigh):
		return risk.LevelHigh
	case strings.Contains(l, TierMedium), strings.Contains(l, "MODERATE"):
		return risk.LevelModerate
	case strings.Contains(l, TierLow), strings.Contains(l, TierSafe):
		return risk.LevelLow
	}
	switch {
	case probability >= 0.65:
		return risk.LevelHigh
	case probability >= 0.45:
		return risk.LevelModerate
	default:
		return risk.LevelLow
	}
}

// Assessment turns a successful response into an Assessment. The score is
// the local heuristic over the reading that was sent, so remote and local
// answers stay comparable.
func (resp Response) Assessment(sent risk.Reading) risk.Assessment {
	a := risk.Compute(sent)
	level := LevelFor(resp.RiskLevel, resp.Probability)
	p := resp.Probability
	a.Level = level
	a.Label = level.Label()
	a.Source = risk.SourceRemote
	a.Probability = &p
	a.Prediction = resp.Prediction
	a.Recommendation = resp.Recommendation
	a.RiskLabel = resp.RiskLevel
	return a
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
