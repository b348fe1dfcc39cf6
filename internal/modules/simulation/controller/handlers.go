package controller

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"floodwatch/internal/metrics"
	"floodwatch/internal/prediction"
	"floodwatch/internal/risk"
	"floodwatch/internal/utils"
	"floodwatch/internal/views"
)

// FieldInput is one slider on the simulation form.
type FieldInput struct {
	Key   string
	Label string
	Unit  string
	Min   float64
	Max   float64
	Value string
}

// ResultView backs the simulation-result fragment. Both fields empty
// renders the placeholder.
type ResultView struct {
	Assessment *risk.Assessment
	Errors     []string
}

// SimulationView backs the simulation page.
type SimulationView struct {
	Fields  []FieldInput
	Presets []risk.Preset
	Result  ResultView
}

// FieldsResponse lists the field table and the input policies.
type FieldsResponse struct {
	Fields   []risk.Field  `json:"fields"`
	Policies []risk.Policy `json:"policies"`
}

// PredictError is the /predict failure body.
type PredictError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c *simulationControllerImpl) handleSimulationPage(w http.ResponseWriter, r *http.Request) {
	reading := risk.DefaultReading()
	fields := risk.Fields()
	inputs := make([]FieldInput, 0, len(fields))
	for _, f := range fields {
		v, _ := reading.Get(f.Key)
		inputs = append(inputs, FieldInput{Key: f.Key, Label: f.Label, Unit: f.Unit, Min: f.Min, Max: f.Max, Value: formatValue(v)})
	}
	view := SimulationView{Fields: inputs, Presets: risk.Presets()}
	page := views.Page{Title: "Simulation", Active: "simulation", Data: view}
	if err := views.WriteHTML(w, http.StatusOK, func(b io.Writer) error {
		return views.RenderPage(b, "simulation", page)
	}); err != nil {
		slog.Error("simulation page render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
	}
}

// assess runs the assessor and counts the result.
func (c *simulationControllerImpl) assess(ctx context.Context, in risk.Input) (risk.Assessment, error) {
	a, err := c.assessor.Assess(ctx, in)
	if err != nil {
		return risk.Assessment{}, err
	}
	metrics.AssessmentsTotal.WithLabelValues(string(a.Source), string(a.Level)).Inc()
	return a, nil
}

// statusFor maps an assessment error to an HTTP status.
func statusFor(err error) int {
	switch {
	case risk.IsValidation(err):
		return http.StatusBadRequest
	case prediction.IsUnavailable(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorMessages(err error) []string {
	ves := risk.ValidationErrors(err)
	if len(ves) == 0 {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(ves))
	for _, ve := range ves {
		out = append(out, ve.Error())
	}
	return out
}

// handleSimulationPartial evaluates the posted form. A "preset" value is
// applied on top of the submitted reading. Errors render inside the
// fragment, so the response is always 200 unless rendering fails.
func (c *simulationControllerImpl) handleSimulationPartial(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, utils.MaxBodyBytes)
	var view ResultView
	if err := r.ParseForm(); err != nil {
		view.Errors = []string{"invalid form: " + err.Error()}
	} else {
		in := risk.ParseForm(r.PostForm)
		if name := r.PostForm.Get("preset"); name != "" {
			if p, ok := risk.LookupPreset(name); ok {
				in.Reading = in.Reading.WithDefaults()
				in = p.ApplyInput(in)
			} else {
				view.Errors = []string{"unknown preset " + strconv.Quote(name)}
			}
		}
		if view.Errors == nil {
			a, err := c.assess(r.Context(), in)
			if err != nil {
				if statusFor(err) == http.StatusInternalServerError {
					slog.Error("simulation: assess failed", "error", err)
				}
				view.Errors = errorMessages(err)
			} else {
				view.Assessment = &a
			}
		}
	}

	if err := views.WriteHTML(w, http.StatusOK, func(b io.Writer) error {
		return views.RenderPartial(b, "simulation-result", view)
	}); err != nil {
		slog.Error("simulation partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
	}
}

func (c *simulationControllerImpl) handleFields(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, FieldsResponse{
		Fields:   risk.Fields(),
		Policies: []risk.Policy{risk.PolicyStrict, risk.PolicyClamp, risk.PolicyCoerce},
	})
}

func (c *simulationControllerImpl) handlePresets(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, risk.Presets())
}

// handleRisk evaluates a JSON reading. ?preset= applies a preset on top of
// the reading, as the form does.
func (c *simulationControllerImpl) handleRisk(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadBody(w, r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := risk.DecodeJSON(body)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if name := r.URL.Query().Get("preset"); name != "" {
		p, ok := risk.LookupPreset(name)
		if !ok {
			utils.WriteError(w, http.StatusBadRequest, "unknown preset "+strconv.Quote(name))
			return
		}
		in.Reading = in.Reading.WithDefaults()
		in = p.ApplyInput(in)
	}

	a, err := c.assess(r.Context(), in)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("risk: assess failed", "error", err)
		}
		utils.WriteError(w, status, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, a)
}

func (c *simulationControllerImpl) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadBody(w, r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, PredictError{Error: err.Error()})
		return
	}
	in, err := risk.DecodeJSON(body)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, PredictError{Error: "invalid JSON body"})
		return
	}
	resp, err := c.model.Predict(in)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, PredictError{Error: prediction.ErrorMessage(err)})
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (c *simulationControllerImpl) handleFetchData(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.mock.Fetch())
}
