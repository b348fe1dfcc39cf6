package risk

import "strings"

const (
	KeyRainfall           = "rainfall_mm"
	KeyRiverDischarge     = "river_discharge_cumec"
	KeyWaterLevel         = "water_level_m"
	KeySoilMoisture       = "soil_moisture_percent"
	KeyTemperature        = "temperature_c"
	KeyHumidity           = "humidity_percent"
	KeyWindSpeed          = "wind_speed_ms"
	KeyPressure           = "pressure_hpa"
	KeyElevation          = "elevation_m"
	KeyPopulationDensity  = "population_density"
	KeyDrainageEfficiency = "drainage_efficiency"
	KeyDistanceToCoast    = "distance_to_coast_km"
	KeyDeforestation      = "deforestation_index"
)

// Field describes one measurement of a Reading: its wire key, the short alias
// used by the mock data endpoint and older forms, and its domain.
type Field struct {
	Key     string  `json:"key"`
	Alias   string  `json:"alias"`
	Label   string  `json:"label"`
	Unit    string  `json:"unit,omitempty"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	// Scored is false for the extended fields, which only the prediction
	// model consumes.
	Scored bool `json:"scored"`

	ref func(r *Reading) **float64
}

// Clamp limits v to the field's domain.
func (f Field) Clamp(v float64) float64 {
	if v < f.Min {
		return f.Min
	}
	if v > f.Max {
		return f.Max
	}
	return v
}

// InRange reports whether v lies within [Min, Max].
func (f Field) InRange(v float64) bool {
	return v >= f.Min && v <= f.Max
}

var fields = []Field{
	{Key: KeyRainfall, Alias: "rainfall", Label: "Rainfall", Unit: "mm", Min: 0, Max: 500, Default: 50, Scored: true,
		ref: func(r *Reading) **float64 { return &r.RainfallMM }},
	{Key: KeyTemperature, Alias: "temperature", Label: "Temperature", Unit: "°C", Min: -10, Max: 50, Default: 25, Scored: true,
		ref: func(r *Reading) **float64 { return &r.TemperatureC }},
	{Key: KeyHumidity, Alias: "humidity", Label: "Humidity", Unit: "%", Min: 0, Max: 100, Default: 60, Scored: true,
		ref: func(r *Reading) **float64 { return &r.HumidityPercent }},
	{Key: KeyWindSpeed, Alias: "wind_speed", Label: "Wind speed", Unit: "m/s", Min: 0, Max: 30, Default: 5, Scored: true,
		ref: func(r *Reading) **float64 { return &r.WindSpeedMS }},
	{Key: KeyRiverDischarge, Alias: "river_discharge", Label: "River discharge", Unit: "m³/s", Min: 0, Max: 1000, Default: 200, Scored: true,
		ref: func(r *Reading) **float64 { return &r.RiverDischargeCumec }},
	{Key: KeyWaterLevel, Alias: "water_level", Label: "Water level", Unit: "m", Min: 0, Max: 20, Default: 5, Scored: true,
		ref: func(r *Reading) **float64 { return &r.WaterLevelM }},
	{Key: KeySoilMoisture, Alias: "soil_moisture", Label: "Soil moisture", Unit: "%", Min: 0, Max: 100, Default: 40, Scored: true,
		ref: func(r *Reading) **float64 { return &r.SoilMoisturePercent }},
	{Key: KeyPressure, Alias: "pressure", Label: "Pressure", Unit: "hPa", Min: 800, Max: 1100, Default: 1000, Scored: true,
		ref: func(r *Reading) **float64 { return &r.PressureHPA }},
	{Key: KeyElevation, Alias: "elevation", Label: "Elevation", Unit: "m", Min: 0, Max: 4000, Default: 250,
		ref: func(r *Reading) **float64 { return &r.ElevationM }},
	{Key: KeyPopulationDensity, Alias: "population_density", Label: "Population density", Unit: "/km²", Min: 0, Max: 5000, Default: 1000,
		ref: func(r *Reading) **float64 { return &r.PopulationDensity }},
	{Key: KeyDrainageEfficiency, Alias: "drainage_efficiency", Label: "Drainage efficiency", Unit: "%", Min: 0, Max: 100, Default: 75,
		ref: func(r *Reading) **float64 { return &r.DrainageEfficiency }},
	{Key: KeyDistanceToCoast, Alias: "distance_to_coast", Label: "Distance to coast", Unit: "km", Min: 0, Max: 1000, Default: 100,
		ref: func(r *Reading) **float64 { return &r.DistanceToCoastKM }},
	{Key: KeyDeforestation, Alias: "deforestation_index", Label: "Deforestation index", Min: 0, Max: 100, Default: 40, Scored: true,
		ref: func(r *Reading) **float64 { return &r.DeforestationIndex }},
}

var fieldIndex = func() map[string]int {
	m := make(map[string]int, len(fields)*2)
	for i, f := range fields {
		m[f.Key] = i
		m[f.Alias] = i
	}
	return m
}()

// Fields returns the full field table in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// ScoredFields returns the fields that contribute to the weighted score.
func ScoredFields() []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Scored {
			out = append(out, f)
		}
	}
	return out
}

// LookupField resolves a wire key or its alias, case-insensitively.
func LookupField(name string) (Field, bool) {
	i, ok := fieldIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Field{}, false
	}
	return fields[i], true
}
