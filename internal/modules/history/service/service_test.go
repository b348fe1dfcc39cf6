package service

import (
	"errors"
	"testing"
	"time"

	"floodwatch/internal/modules/history/types"
)

func TestRandomSeries(t *testing.T) {
	s := NewRandomSeries(11)
	s.now = func() time.Time { return time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC) }

	for _, p := range Parameters() {
		t.Run(p.Name, func(t *testing.T) {
			got, err := s.Series(p.Name, 30)
			if err != nil {
				t.Fatalf("Series: %v", err)
			}
			if len(got.Labels) != 30 || len(got.Values) != 30 {
				t.Fatalf("len labels=%d values=%d; want 30", len(got.Labels), len(got.Values))
			}
			if got.Labels[0] != "2024-02-01" || got.Labels[29] != "2024-03-01" {
				t.Errorf("labels run %s..%s; want 2024-02-01..2024-03-01", got.Labels[0], got.Labels[29])
			}
			for i, v := range got.Values {
				if v < p.Min || v > p.Max {
					t.Errorf("value %d = %v outside [%v, %v]", i, v, p.Min, p.Max)
				}
				if round2(v) != v {
					t.Errorf("value %d = %v not rounded to 2 decimals", i, v)
				}
			}
			if got.Summary != Summarize(got.Values) {
				t.Errorf("summary = %+v; want %+v", got.Summary, Summarize(got.Values))
			}
		})
	}
}

func TestRandomSeries_errors(t *testing.T) {
	s := NewRandomSeries(1)
	tests := []struct {
		parameter string
		days      int
		want      error
	}{
		{"snowfall", 30, ErrUnknownParameter},
		{"", 30, ErrUnknownParameter},
		{"rainfall", 0, ErrDaysOutOfRange},
		{"rainfall", 366, ErrDaysOutOfRange},
	}
	for _, tt := range tests {
		if _, err := s.Series(tt.parameter, tt.days); !errors.Is(err, tt.want) {
			t.Errorf("Series(%q, %d) error = %v; want %v", tt.parameter, tt.days, err, tt.want)
		}
	}
}

func TestRandomSeries_bounds(t *testing.T) {
	s := NewRandomSeries(5)
	for _, days := range []int{1, MaxDays} {
		got, err := s.Series("pressure", days)
		if err != nil {
			t.Fatalf("Series(days=%d): %v", days, err)
		}
		if len(got.Values) != days {
			t.Errorf("days=%d: %d values", days, len(got.Values))
		}
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   types.Summary
	}{
		{"empty", nil, types.Summary{}},
		{"single", []float64{4.5}, types.Summary{Avg: 4.5, Max: 4.5, Min: 4.5}},
		{"rounded average", []float64{1, 2, 2}, types.Summary{Avg: 1.67, Max: 2, Min: 1}},
		{"negative", []float64{-3.333, 3.333}, types.Summary{Avg: 0, Max: 3.33, Min: -3.33}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.values); got != tt.want {
				t.Errorf("Summarize(%v) = %+v; want %+v", tt.values, got, tt.want)
			}
		})
	}
}
