package prediction

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"floodwatch/internal/risk"
)

func readingWithRainfall(mm float64) risk.Input {
	r := risk.DefaultReading()
	_ = r.Set(risk.KeyRainfall, mm)
	return risk.Input{Reading: r}
}

func TestModel_tiers(t *testing.T) {
	fixed := time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC)
	m := &Model{Now: func() time.Time { return fixed }}

	tests := []struct {
		rainfall    float64
		probability float64
		tier        string
		prediction  string
	}{
		{50, 0.027, TierSafe, PredictionNormal},
		{200, 0.269, TierLow, PredictionNormal},
		{272.5, 0.56, TierMedium, PredictionWarn},
		{320, 0.742, TierHigh, PredictionWarn},
		{400, 0.919, TierCritical, PredictionWarn},
	}
	for _, tt := range tests {
		got, err := m.Predict(readingWithRainfall(tt.rainfall))
		if err != nil {
			t.Fatalf("Predict(rainfall=%v): %v", tt.rainfall, err)
		}
		if !got.Success {
			t.Errorf("rainfall=%v: Success = false", tt.rainfall)
		}
		if got.Probability != tt.probability {
			t.Errorf("rainfall=%v: Probability = %v; want %v", tt.rainfall, got.Probability, tt.probability)
		}
		if got.RiskLevel != tt.tier || got.Prediction != tt.prediction {
			t.Errorf("rainfall=%v: %s / %s; want %s / %s", tt.rainfall, got.RiskLevel, got.Prediction, tt.tier, tt.prediction)
		}
		if got.Recommendation == "" {
			t.Errorf("rainfall=%v: empty recommendation", tt.rainfall)
		}
		if got.Timestamp != "2024-07-15 09:30:00" {
			t.Errorf("Timestamp = %q", got.Timestamp)
		}
	}
}

func TestModel_missingParameter(t *testing.T) {
	r := risk.DefaultReading()
	r.Unset(risk.KeyDistanceToCoast)

	_, err := NewModel().Predict(risk.Input{Reading: r})
	if err == nil {
		t.Fatal("Predict succeeded with a missing field")
	}
	if got := ErrorMessage(err); got != "missing parameter: distance_to_coast_km" {
		t.Errorf("ErrorMessage = %q", got)
	}
}

func TestModel_outOfRange(t *testing.T) {
	_, err := NewModel().Predict(readingWithRainfall(900))
	if err == nil {
		t.Fatal("Predict accepted rainfall 900")
	}
	if !risk.IsValidation(err) {
		t.Fatalf("error %v is not a ValidationError", err)
	}
	if got := ErrorMessage(err); !strings.Contains(got, risk.KeyRainfall) {
		t.Errorf("ErrorMessage = %q; want it to name %s", got, risk.KeyRainfall)
	}
}

func TestModel_zeroProbabilityIsEncoded(t *testing.T) {
	var r risk.Reading
	for _, f := range risk.Fields() {
		_ = r.Set(f.Key, 0)
	}
	_ = r.Set(risk.KeyTemperature, 50)
	_ = r.Set(risk.KeyPressure, 1100)
	_ = r.Set(risk.KeyElevation, 4000)
	_ = r.Set(risk.KeyDrainageEfficiency, 100)
	_ = r.Set(risk.KeyDistanceToCoast, 1000)

	got, err := NewModel().Predict(risk.Input{Reading: r})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got.Probability != 0 || got.RiskLevel != TierSafe {
		t.Fatalf("got %v %s; want 0 SAFE", got.Probability, got.RiskLevel)
	}

	b, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(b, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p, ok := body["probability"]; !ok || p != 0.0 {
		t.Errorf("probability = %v (present %t) in %s; want 0", p, ok, b)
	}
}

func TestProbability_terrainRaisesRisk(t *testing.T) {
	base := risk.DefaultReading()

	poorDrainage := base.Clone()
	_ = poorDrainage.Set(risk.KeyDrainageEfficiency, 10)

	coastal := base.Clone()
	_ = coastal.Set(risk.KeyDistanceToCoast, 0)

	highland := base.Clone()
	_ = highland.Set(risk.KeyElevation, 3500)

	p := Probability(base)
	if Probability(poorDrainage) <= p {
		t.Error("poor drainage did not raise probability")
	}
	if Probability(coastal) <= p {
		t.Error("coast proximity did not raise probability")
	}
	if Probability(highland) >= p {
		t.Error("elevation did not lower probability")
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		label string
		p     float64
		want  risk.Level
	}{
		{"CRITICAL", 0.1, risk.LevelHigh},
		{"high", 0.1, risk.LevelHigh},
		{"MEDIUM", 0.9, risk.LevelModerate},
		{"Moderate Risk", 0.9, risk.LevelModerate},
		{"LOW", 0.9, risk.LevelLow},
		{"SAFE", 0.9, risk.LevelLow},
		{"", 0.65, risk.LevelHigh},
		{"unknown", 0.5, risk.LevelModerate},
		{"", 0.44, risk.LevelLow},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.label, tt.p); got != tt.want {
			t.Errorf("LevelFor(%q, %v) = %q; want %q", tt.label, tt.p, got, tt.want)
		}
	}
}
