package controller

import (
	"net/http"

	"floodwatch/internal/modules/simulation/service"
	"floodwatch/internal/prediction"
	"floodwatch/internal/risk"
)

type SimulationController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type simulationControllerImpl struct {
	assessor risk.Assessor
	model    *prediction.Model
	mock     *service.MockFeed
}

// NewSimulationController serves the scorer through assessor and the
// /predict endpoint through model.
func NewSimulationController(assessor risk.Assessor, model *prediction.Model, mock *service.MockFeed) SimulationController {
	return &simulationControllerImpl{assessor: assessor, model: model, mock: mock}
}

func (c *simulationControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /simulation", c.handleSimulationPage)
	mux.HandleFunc("POST /partials/simulation", c.handleSimulationPartial)
	mux.HandleFunc("GET /api/v1/fields", c.handleFields)
	mux.HandleFunc("GET /api/v1/presets", c.handlePresets)
	mux.HandleFunc("POST /api/v1/risk", c.handleRisk)
	mux.HandleFunc("POST /predict", c.handlePredict)
	mux.HandleFunc("GET /fetch_data", c.handleFetchData)
}
