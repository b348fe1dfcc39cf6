package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"floodwatch/internal/config"
	"floodwatch/internal/prediction"
	"floodwatch/internal/risk"
)

// newModelServer answers POST /predict with the local model.
func newModelServer(t *testing.T) *httptest.Server {
	t.Helper()
	model := prediction.NewModel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		in, err := risk.DecodeJSON(body)
		var resp prediction.Response
		if err == nil {
			resp, err = model.Predict(in)
		}
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(prediction.Response{Error: prediction.ErrorMessage(err)})
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewAssessor_appliesPolicyToRemote(t *testing.T) {
	srv := newModelServer(t)
	outOfRange := risk.ParseValues(map[string]any{risk.KeyRainfall: 900.0})

	tests := []struct {
		name    string
		policy  risk.Policy
		url     string
		wantErr bool
		wantSrc risk.Source
	}{
		{"strict local", risk.PolicyStrict, "", true, ""},
		{"strict remote", risk.PolicyStrict, srv.URL, true, ""},
		{"clamp local", risk.PolicyClamp, "", false, risk.SourceLocal},
		{"clamp remote", risk.PolicyClamp, srv.URL, false, risk.SourceRemote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAssessor(config.Config{RiskPolicy: tt.policy, PredictURL: tt.url, PredictTimeout: time.Second})
			got, err := a.Assess(context.Background(), outOfRange)
			if tt.wantErr {
				if !risk.IsValidation(err) {
					t.Fatalf("err = %v; want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Assess: %v", err)
			}
			if got.Source != tt.wantSrc {
				t.Errorf("source = %q; want %q", got.Source, tt.wantSrc)
			}
		})
	}
}

func TestRun_strictPolicyWithRemoteModel(t *testing.T) {
	srv := newModelServer(t)
	cfg := testConfig(t)
	cfg.RiskPolicy = risk.PolicyStrict
	cfg.PredictURL = srv.URL
	cfg.PredictTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()
	defer func() {
		cancel()
		<-done
	}()

	base := "http://" + cfg.HTTPAddr
	waitHealthy(t, base)

	post := func(body string) int {
		t.Helper()
		resp, err := http.Post(base+"/api/v1/risk", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST /api/v1/risk: %v", err)
		}
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	if got := post(`{"rainfall_mm": 900}`); got != http.StatusBadRequest {
		t.Errorf("out of range = %d; want 400", got)
	}

	var b strings.Builder
	b.WriteString("{")
	for i, f := range risk.ScoredFields() {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"` + f.Key + `":` + strconv.FormatFloat(f.Default, 'f', -1, 64))
	}
	b.WriteString("}")
	if got := post(b.String()); got != http.StatusOK {
		t.Errorf("scored fields only = %d; want 200", got)
	}
}
