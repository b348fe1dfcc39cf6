package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"floodwatch/internal/prediction"
	"floodwatch/internal/risk"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestScore_presetJSON(t *testing.T) {
	out, _, err := execute(t, "score", "--preset", "monsoon", "--json")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	var a risk.Assessment
	if err := json.Unmarshal([]byte(out), &a); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if a.Score != 177.25 || a.Level != risk.LevelHigh || a.Source != risk.SourceLocal {
		t.Errorf("assessment = %+v; want 177.25 High local", a)
	}
}

func TestScore_flagsOverridePreset(t *testing.T) {
	out, _, err := execute(t, "score", "--preset", "flood", "--rainfall", "0", "--river_discharge", "0")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !strings.Contains(out, "Low Risk") {
		t.Errorf("output = %q; want Low Risk", out)
	}
}

func TestScore_errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown preset", []string{"score", "--preset", "drought"}, "unknown preset"},
		{"bad policy", []string{"score", "--policy", "lenient"}, "invalid risk input policy"},
		{"strict out of range", []string{"score", "--policy", "strict", "--rainfall", "9000"}, "rainfall_mm"},
		{"strict missing", []string{"score", "--policy", "strict", "--no-defaults", "--rainfall", "10"}, "missing required field"},
		{"strict not a number", []string{"score", "--policy", "strict", "--humidity", "damp"}, "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v; want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestScore_clampIsDefault(t *testing.T) {
	out, _, err := execute(t, "score", "--json", "--rainfall", "9000")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	var a risk.Assessment
	if err := json.Unmarshal([]byte(out), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	r := risk.DefaultReading()
	_ = r.Set(risk.KeyRainfall, 500)
	if want := risk.Compute(r).Score; a.Score != want {
		t.Errorf("score = %v; want %v (rainfall clamped to 500)", a.Score, want)
	}
}

func TestScore_remoteFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	out, _, err := execute(t, "score", "--json", "--preset", "normal", "--url", srv.URL)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	var a risk.Assessment
	if err := json.Unmarshal([]byte(out), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Source != risk.SourceLocal {
		t.Errorf("source = %q; want local after fallback", a.Source)
	}
}

func TestPredict_local(t *testing.T) {
	out, _, err := execute(t, "predict", "--preset", "flood", "--defaults")
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	var resp prediction.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.RiskLevel != prediction.TierCritical || resp.Prediction != prediction.PredictionWarn {
		t.Errorf("response = %+v; want a critical flood warning", resp)
	}
}

func TestPredict_missingField(t *testing.T) {
	_, _, err := execute(t, "predict", "--rainfall", "100")
	if err == nil || !strings.Contains(err.Error(), "missing parameter") {
		t.Fatalf("err = %v; want missing parameter", err)
	}
}

func TestPredict_remote(t *testing.T) {
	var got map[string]float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"probability":0.31,"risk_level":"LOW","prediction":"NORMAL CONDITIONS"}`))
	}))
	defer srv.Close()

	out, _, err := execute(t, "predict", "--defaults", "--url", srv.URL)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !strings.Contains(out, `"probability": 0.31`) {
		t.Errorf("output = %q; want remote probability", out)
	}
	if len(got) != len(risk.Fields()) {
		t.Errorf("posted %d fields; want %d", len(got), len(risk.Fields()))
	}
}

func TestPresetsAndFields(t *testing.T) {
	out, _, err := execute(t, "presets")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	for _, want := range []string{"Normal", "Monsoon", "Flood", "177.25", "rainfall_mm=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("presets output missing %q:\n%s", want, out)
		}
	}

	out, _, err = execute(t, "fields")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if got := strings.Count(out, "\n"); got != len(risk.Fields())+1 {
		t.Errorf("fields printed %d lines; want header + %d", got, len(risk.Fields()))
	}
}

func TestMigrate(t *testing.T) {
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "floodwatch.db"))
	t.Setenv("LOG_LEVEL", "error")

	out, _, err := execute(t, "migrate")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "applied 0001_alert_log") || !strings.Contains(out, "applied 0002_contact_messages") {
		t.Errorf("first run = %q", out)
	}

	out, _, err = execute(t, "migrate")
	if err != nil {
		t.Fatalf("migrate again: %v", err)
	}
	if !strings.Contains(out, "up to date") {
		t.Errorf("second run = %q; want up to date", out)
	}
}

func TestWatch_requiresBroker(t *testing.T) {
	t.Setenv("MQTT_BROKER", "")
	_, _, err := execute(t, "watch")
	if err == nil || !strings.Contains(err.Error(), "no broker") {
		t.Fatalf("err = %v; want no broker", err)
	}
}
