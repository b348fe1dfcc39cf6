package simulation

import (
	"net/http"

	"floodwatch/internal/modules/simulation/controller"
	"floodwatch/internal/modules/simulation/service"
	"floodwatch/internal/prediction"
	"floodwatch/internal/risk"
)

func RegisterFeature(mux *http.ServeMux, assessor risk.Assessor, model *prediction.Model, seed int64) {
	simulationController := controller.NewSimulationController(assessor, model, service.NewMockFeed(seed))
	simulationController.RegisterRoutes(mux)
}
