package types

// Summary is computed over Series.Values, rounded to two decimals.
type Summary struct {
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}

// Series is one parameter's daily values, oldest first. Labels are
// YYYY-MM-DD dates aligned with Values.
type Series struct {
	Parameter string    `json:"parameter"`
	Labels    []string  `json:"labels"`
	Values    []float64 `json:"values"`
	Summary   Summary   `json:"summary"`
}

// Parameter is a series that can be requested, with the range its values
// are drawn from: [Min, Max).
type Parameter struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Unit  string  `json:"unit,omitempty"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}
