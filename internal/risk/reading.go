package risk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Reading is a snapshot of environmental values. A nil field is absent.
type Reading struct {
	RainfallMM          *float64 `json:"rainfall_mm,omitempty"`
	RiverDischargeCumec *float64 `json:"river_discharge_cumec,omitempty"`
	WaterLevelM         *float64 `json:"water_level_m,omitempty"`
	SoilMoisturePercent *float64 `json:"soil_moisture_percent,omitempty"`
	TemperatureC        *float64 `json:"temperature_c,omitempty"`
	HumidityPercent     *float64 `json:"humidity_percent,omitempty"`
	WindSpeedMS         *float64 `json:"wind_speed_ms,omitempty"`
	PressureHPA         *float64 `json:"pressure_hpa,omitempty"`
	DeforestationIndex  *float64 `json:"deforestation_index,omitempty"`

	ElevationM         *float64 `json:"elevation_m,omitempty"`
	PopulationDensity  *float64 `json:"population_density,omitempty"`
	DrainageEfficiency *float64 `json:"drainage_efficiency,omitempty"`
	DistanceToCoastKM  *float64 `json:"distance_to_coast_km,omitempty"`
}

// DefaultReading returns a reading with every field set to its default.
func DefaultReading() Reading {
	var r Reading
	for _, f := range fields {
		r.set(f, f.Default)
	}
	return r
}

// Get returns the value stored under a field key or alias.
func (r Reading) Get(key string) (float64, bool) {
	f, ok := LookupField(key)
	if !ok {
		return 0, false
	}
	p := *f.ref(&r)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set stores v under a field key or alias.
func (r *Reading) Set(key string, v float64) error {
	f, ok := LookupField(key)
	if !ok {
		return fmt.Errorf("unknown field %q", key)
	}
	r.set(f, v)
	return nil
}

// Unset removes the value stored under a field key or alias.
func (r *Reading) Unset(key string) {
	if f, ok := LookupField(key); ok {
		*f.ref(r) = nil
	}
}

func (r *Reading) set(f Field, v float64) {
	*f.ref(r) = &v
}

// value returns the field value, or 0 when absent.
func (r Reading) value(f Field) float64 {
	p := *f.ref(&r)
	if p == nil {
		return 0
	}
	return *p
}

// Clone returns a deep copy; the pointers of the copy are not shared.
func (r Reading) Clone() Reading {
	var out Reading
	for _, f := range fields {
		if p := *f.ref(&r); p != nil {
			out.set(f, *p)
		}
	}
	return out
}

// WithDefaults returns a copy of r with every absent field set to its
// default.
func (r Reading) WithDefaults() Reading {
	out := r.Clone()
	for _, f := range fields {
		if *f.ref(&out) == nil {
			out.set(f, f.Default)
		}
	}
	return out
}

// Values flattens the present fields into a map keyed by wire key.
func (r Reading) Values() map[string]float64 {
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		if p := *f.ref(&r); p != nil {
			out[f.Key] = *p
		}
	}
	return out
}

// Input is a reading as submitted, before a Policy has been applied.
// Invalid holds the raw text of values that could not be read as numbers,
// keyed by wire key.
type Input struct {
	Reading Reading
	Invalid map[string]string
}

func (in *Input) markInvalid(f Field, raw string) {
	if in.Invalid == nil {
		in.Invalid = make(map[string]string)
	}
	in.Invalid[f.Key] = raw
	*f.ref(&in.Reading) = nil
}

// ParseValues builds an Input from a decoded JSON object. Numbers and numeric
// strings are accepted; empty strings and nulls count as absent; unknown keys
// are ignored. Aliases are accepted for every field.
func ParseValues(m map[string]any) Input {
	var in Input
	for k, raw := range m {
		f, ok := LookupField(k)
		if !ok || shadowed(k, f, func(key string) bool { _, ok := m[key]; return ok }) {
			continue
		}
		switch v := raw.(type) {
		case nil:
		case float64:
			in.accept(f, v, fmt.Sprint(v))
		case json.Number:
			n, err := v.Float64()
			if err != nil {
				in.markInvalid(f, v.String())
				continue
			}
			in.accept(f, n, v.String())
		case string:
			in.parseString(f, v)
		default:
			in.markInvalid(f, fmt.Sprint(v))
		}
	}
	return in
}

// ParseForm builds an Input from form values, using the first value of each
// recognised key.
func ParseForm(values url.Values) Input {
	var in Input
	for k, vs := range values {
		f, ok := LookupField(k)
		if !ok || len(vs) == 0 || shadowed(k, f, values.Has) {
			continue
		}
		in.parseString(f, vs[0])
	}
	return in
}

// DecodeJSON reads a JSON object into an Input.
func DecodeJSON(data []byte) (Input, error) {
	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return Input{}, fmt.Errorf("decode reading: %w", err)
	}
	return ParseValues(m), nil
}

// shadowed reports whether k is an alias whose wire key is also present; the
// wire key wins.
func shadowed(k string, f Field, has func(string) bool) bool {
	return k != f.Key && has(f.Key)
}

func (in *Input) parseString(f Field, s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		in.markInvalid(f, s)
		return
	}
	in.accept(f, n, s)
}

func (in *Input) accept(f Field, n float64, raw string) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		in.markInvalid(f, raw)
		return
	}
	in.Reading.set(f, n)
}
