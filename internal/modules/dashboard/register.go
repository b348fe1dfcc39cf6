package dashboard

import (
	"net/http"

	"floodwatch/internal/modules/dashboard/controller"
	"floodwatch/internal/modules/dashboard/service"
)

func RegisterFeature(mux *http.ServeMux, feed service.Snapshotter) {
	dashboardController := controller.NewDashboardController(feed)
	dashboardController.RegisterRoutes(mux)
}
