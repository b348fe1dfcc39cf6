package service

import (
	"math"
	"testing"

	"floodwatch/internal/risk"
)

func TestMockFeed_Fetch(t *testing.T) {
	m := NewMockFeed(21)
	for range 50 {
		got := m.Fetch()
		if len(got) != len(mockRanges) {
			t.Fatalf("got %d keys; want %d", len(got), len(mockRanges))
		}
		for _, r := range mockRanges {
			v, ok := got[r.key]
			if !ok {
				t.Fatalf("missing %s", r.key)
			}
			if v < r.min || v > r.max {
				t.Errorf("%s = %v outside [%v, %v]", r.key, v, r.min, r.max)
			}
			p := math.Pow10(r.places)
			if math.Round(v*p)/p != v {
				t.Errorf("%s = %v has more than %d decimals", r.key, v, r.places)
			}
		}
	}
}

func TestMockFeed_keysAreFieldAliases(t *testing.T) {
	for k := range NewMockFeed(1).Fetch() {
		if _, ok := risk.LookupField(k); !ok {
			t.Errorf("%s is not a recognised field name", k)
		}
	}
}

func TestMockFeed_readingIsValid(t *testing.T) {
	values := map[string]any{}
	for k, v := range NewMockFeed(2).Fetch() {
		values[k] = v
	}
	if _, err := risk.PolicyStrict.Apply(risk.ParseValues(values), risk.Fields()); err != nil {
		t.Errorf("mock reading rejected by strict policy: %v", err)
	}
}
