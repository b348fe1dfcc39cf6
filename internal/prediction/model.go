package prediction

import (
	"fmt"
	"math"
	"time"

	"floodwatch/internal/risk"
)

// TimestampLayout formats Response.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

type tier struct {
	min            float64
	label          string
	recommendation string
}

// Ordered from the highest threshold down; the last entry catches the rest.
var tiers = []tier{
	{0.85, TierCritical, "IMMEDIATE EVACUATION may be required! Contact authorities."},
	{0.65, TierHigh, "Take immediate precautionary measures. Prepare for potential evacuation."},
	{0.45, TierMedium, "Monitor conditions closely. Prepare emergency supplies."},
	{0.25, TierLow, "Stay alert and monitor weather updates."},
	{math.Inf(-1), TierSafe, "Current conditions appear normal."},
}

const (
	warningThreshold = 0.5
	PredictionWarn   = "FLOOD WARNING"
	PredictionNormal = "NORMAL CONDITIONS"
)

// Model is the server-side flood probability model behind POST /predict.
// It extends the weighted heuristic with the terrain fields: poor drainage,
// low elevation, coast proximity and population density raise the
// probability.
type Model struct {
	Now func() time.Time
}

func NewModel() *Model {
	return &Model{Now: time.Now}
}

// Probability returns the flood probability of a complete reading, rounded
// to three decimals.
func Probability(r risk.Reading) float64 {
	get := func(key string) float64 {
		v, _ := r.Get(key)
		return v
	}
	score := risk.Compute(r).Score
	logit := (score-115)/17.5 +
		0.8*(1-get(risk.KeyDrainageEfficiency)/100) -
		0.0005*get(risk.KeyElevation) +
		0.5*math.Exp(-get(risk.KeyDistanceToCoast)/50) +
		0.0001*get(risk.KeyPopulationDensity)
	return round(1/(1+math.Exp(-logit)), 3)
}

// Predict validates in strictly (every field required and within its
// domain) and scores it. The error is a ValidationError or a join of them.
func (m *Model) Predict(in risk.Input) (Response, error) {
	r, err := risk.PolicyStrict.Apply(in, risk.Fields())
	if err != nil {
		return Response{}, err
	}

	p := Probability(r)
	t := tierFor(p)
	prediction := PredictionNormal
	if p >= warningThreshold {
		prediction = PredictionWarn
	}

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return Response{
		Success:        true,
		Probability:    p,
		RiskLevel:      t.label,
		Prediction:     prediction,
		Recommendation: t.recommendation,
		Timestamp:      now().Format(TimestampLayout),
	}, nil
}

// ErrorMessage renders a Predict error for the response body. Missing fields
// are reported first, as "missing parameter: <key>".
func ErrorMessage(err error) string {
	ves := risk.ValidationErrors(err)
	for _, ve := range ves {
		if ve.Missing() {
			return "missing parameter: " + ve.Field
		}
	}
	if len(ves) > 0 {
		return fmt.Sprintf("invalid parameter %s", ves[0].Error())
	}
	return err.Error()
}

func tierFor(p float64) tier {
	for _, t := range tiers {
		if p >= t.min {
			return t
		}
	}
	return tiers[len(tiers)-1]
}
