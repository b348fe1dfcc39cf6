package history

import (
	"net/http"

	"floodwatch/internal/modules/history/controller"
	"floodwatch/internal/modules/history/service"
)

func RegisterFeature(mux *http.ServeMux, source service.SeriesSource) {
	historyController := controller.NewHistoryController(source)
	historyController.RegisterRoutes(mux)
}
