package controller

import (
	"io"
	"log/slog"
	"net/http"

	"floodwatch/internal/modules/dashboard/service"
	"floodwatch/internal/utils"
	"floodwatch/internal/views"
)

type DashboardController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type dashboardControllerImpl struct {
	feed service.Snapshotter
}

func NewDashboardController(feed service.Snapshotter) DashboardController {
	return &dashboardControllerImpl{feed: feed}
}

func (c *dashboardControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleDashboard)
	mux.HandleFunc("GET /resources", c.handleResources)
	mux.HandleFunc("GET /api/v1/dashboard", c.handleSummary)
	mux.HandleFunc("GET /api/v1/resources", c.handleResourcesJSON)
}

func (c *dashboardControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page := views.Page{Title: "Dashboard", Active: "dashboard", Data: service.Summarize(c.feed)}
	if err := views.WriteHTML(w, http.StatusOK, func(b io.Writer) error {
		return views.RenderPage(b, "dashboard", page)
	}); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
	}
}

func (c *dashboardControllerImpl) handleSummary(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, service.Summarize(c.feed))
}

func (c *dashboardControllerImpl) handleResources(w http.ResponseWriter, r *http.Request) {
	page := views.Page{Title: "Resources", Active: "resources", Data: service.Resources()}
	if err := views.WriteHTML(w, http.StatusOK, func(b io.Writer) error {
		return views.RenderPage(b, "resources", page)
	}); err != nil {
		slog.Error("resources page render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
	}
}

func (c *dashboardControllerImpl) handleResourcesJSON(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, service.Resources())
}
