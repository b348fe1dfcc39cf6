package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	t.Run("sets content-type and status", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusOK, map[string]string{"level": "High"})

		if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q; want application/json; charset=utf-8", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("Code = %d; want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("encodes body as JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteJSON(w, http.StatusCreated, map[string]float64{"score": 177.25})

		var got map[string]float64
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("body is not valid JSON: %v", err)
		}
		if got["score"] != 177.25 {
			t.Errorf("body[score] = %v; want 177.25", got["score"])
		}
	})
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadGateway, "prediction service unavailable")

	if w.Code != http.StatusBadGateway {
		t.Errorf("Code = %d; want %d", w.Code, http.StatusBadGateway)
	}
	var got map[string]any
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if got["error"] != http.StatusText(http.StatusBadGateway) {
		t.Errorf("error = %q; want %q", got["error"], http.StatusText(http.StatusBadGateway))
	}
	if got["message"] != "prediction service unavailable" {
		t.Errorf("message = %q", got["message"])
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "object", body: `{"name":"Asha"}`},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "trailing data", body: `{"name":"a"} {"name":"b"}`, wantErr: true},
		{name: "too large", body: `{"name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			var v struct {
				Name string `json:"name"`
			}
			err := DecodeJSON(w, r, &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON error = %v; wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && v.Name != "Asha" {
				t.Errorf("Name = %q; want Asha", v.Name)
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "", want: 30},
		{query: "days=7", want: 7},
		{query: "days=%20365%20", want: 365},
		{query: "days=0", wantErr: true},
		{query: "days=366", wantErr: true},
		{query: "days=week", wantErr: true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		got, err := QueryInt(r, "days", 30, 1, 365)
		if (err != nil) != tt.wantErr {
			t.Errorf("QueryInt(%q) error = %v; wantErr %v", tt.query, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("QueryInt(%q) = %d; want %d", tt.query, got, tt.want)
		}
	}
}
