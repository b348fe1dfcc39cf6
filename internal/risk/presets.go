package risk

import "strings"

// Preset is a named bundle of field values simulating a scenario. Fields it
// does not name keep their current value when applied.
type Preset struct {
	Name   string             `json:"name"`
	Values map[string]float64 `json:"values"`
}

var presets = []Preset{
	{Name: "Normal", Values: map[string]float64{
		KeyRainfall: 50, KeyRiverDischarge: 200, KeyHumidity: 60, KeySoilMoisture: 40,
	}},
	{Name: "Monsoon", Values: map[string]float64{
		KeyRainfall: 200, KeyRiverDischarge: 600, KeyHumidity: 80, KeySoilMoisture: 70,
	}},
	{Name: "Flood", Values: map[string]float64{
		KeyRainfall: 400, KeyRiverDischarge: 900, KeyHumidity: 95, KeySoilMoisture: 90,
	}},
}

// Presets returns the built-in presets.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by name, case-insensitively.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Preset{}, false
}

// Apply returns a copy of r with the preset's values set.
func (p Preset) Apply(r Reading) Reading {
	out := r.Clone()
	for k, v := range p.Values {
		if f, ok := LookupField(k); ok {
			out.set(f, v)
		}
	}
	return out
}

// ApplyInput applies the preset to in.Reading. A value the preset sets
// replaces any invalid text submitted for that field.
func (p Preset) ApplyInput(in Input) Input {
	out := Input{Reading: p.Apply(in.Reading)}
	for k, raw := range in.Invalid {
		if _, set := p.Values[k]; set {
			continue
		}
		if out.Invalid == nil {
			out.Invalid = make(map[string]string)
		}
		out.Invalid[k] = raw
	}
	return out
}
