package controller

import (
	"context"
	"net/http"
	"time"

	"floodwatch/internal/modules/alerts/types"
)

// AlertFeed is the part of service.Feed the handlers read.
type AlertFeed interface {
	Filter(query, level string) ([]types.Alert, error)
	Counts() types.Counts
	RefreshedAt() time.Time
	Recent(ctx context.Context, limit int) ([]types.Alert, error)
	Stats(ctx context.Context) (types.Counts, error)
	Trend(ctx context.Context, limit int) ([]types.TrendPoint, error)
}

type AlertsController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type alertsControllerImpl struct {
	feed AlertFeed
}

func NewAlertsController(feed AlertFeed) AlertsController {
	return &alertsControllerImpl{feed: feed}
}

func (c *alertsControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /alerts", c.handleAlertsPage)
	mux.HandleFunc("GET /partials/alerts", c.handleAlertsPartial)
	mux.HandleFunc("GET /api/v1/alerts", c.handleAlerts)
	mux.HandleFunc("GET /admin", c.handleAdminPage)
	mux.HandleFunc("GET /api/v1/admin/alerts", c.handleAdminAlerts)
}
