package alerts

import (
	"net/http"

	"floodwatch/internal/modules/alerts/controller"
	"floodwatch/internal/modules/alerts/service"
)

func RegisterFeature(mux *http.ServeMux, feed *service.Feed) {
	alertsController := controller.NewAlertsController(feed)
	alertsController.RegisterRoutes(mux)
}
