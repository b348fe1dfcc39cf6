package risk

import "strings"

// Level is the categorical output of the scorer.
type Level string

const (
	LevelLow      Level = "Low"
	LevelModerate Level = "Moderate"
	LevelHigh     Level = "High"
)

// Levels lists the levels in ascending severity.
var Levels = []Level{LevelLow, LevelModerate, LevelHigh}

// Label is the display form, e.g. "High Risk".
func (l Level) Label() string {
	return string(l) + " Risk"
}

// ParseLevel accepts "high", "High", "High Risk" and the like.
func ParseLevel(s string) (Level, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, " risk")
	switch s {
	case "low":
		return LevelLow, true
	case "moderate", "medium":
		return LevelModerate, true
	case "high":
		return LevelHigh, true
	}
	return "", false
}

const (
	highThreshold     = 150.0
	moderateThreshold = 80.0
)

// Source identifies which path produced an Assessment.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Assessment is the result of scoring a Reading.
type Assessment struct {
	Score  float64 `json:"score"`
	Level  Level   `json:"level"`
	Label  string  `json:"label"`
	Source Source  `json:"source"`

	// Set only by the remote prediction path.
	Probability    *float64 `json:"probability,omitempty"`
	Prediction     string   `json:"prediction,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	RiskLabel      string   `json:"risk_label,omitempty"`
}

// Compute scores a reading with the weighted linear heuristic. Absent fields
// count as 0. It never fails and has no side effects.
func Compute(r Reading) Assessment {
	score := r.value(fields[fieldIndex[KeyRainfall]])*0.30 +
		r.value(fields[fieldIndex[KeyRiverDischarge]])*0.20 +
		r.value(fields[fieldIndex[KeyWaterLevel]])*0.10 +
		r.value(fields[fieldIndex[KeySoilMoisture]])*0.10 +
		r.value(fields[fieldIndex[KeyHumidity]])*0.05 +
		r.value(fields[fieldIndex[KeyWindSpeed]])*0.05 +
		r.value(fields[fieldIndex[KeyDeforestation]])*0.20 -
		r.value(fields[fieldIndex[KeyTemperature]])*0.10 -
		r.value(fields[fieldIndex[KeyPressure]])*0.02

	level := Classify(score)
	return Assessment{
		Score:  score,
		Level:  level,
		Label:  level.Label(),
		Source: SourceLocal,
	}
}

// Classify maps a score to a level. Lower bounds are exclusive: 150 is
// Moderate and 80 is Low.
func Classify(score float64) Level {
	switch {
	case score > highThreshold:
		return LevelHigh
	case score > moderateThreshold:
		return LevelModerate
	default:
		return LevelLow
	}
}
