package controller

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"floodwatch/internal/modules/alerts/service"
	"floodwatch/internal/modules/alerts/types"
	"floodwatch/internal/risk"
	"floodwatch/internal/utils"
	"floodwatch/internal/views"
)

const (
	defaultTrendLimit = 100
	maxTrendLimit     = 1000
	maxRecentLimit    = 100
)

// AlertsView backs the live alerts page and its list fragment.
type AlertsView struct {
	Query       string
	Risk        string
	Levels      []string
	Alerts      []types.Alert
	Counts      types.Counts
	RefreshedAt time.Time
}

// AlertsResponse is the map and chart data behind /alerts.
type AlertsResponse struct {
	Alerts      []types.Alert `json:"alerts"`
	Counts      types.Counts  `json:"counts"`
	RefreshedAt time.Time     `json:"refreshed_at"`
}

// AdminResponse is the log summary behind /admin.
type AdminResponse struct {
	Recent []types.Alert      `json:"recent"`
	Stats  types.Counts       `json:"stats"`
	Trend  []types.TrendPoint `json:"trend"`
}

// AdminView backs the admin page.
type AdminView struct {
	Recent []types.Alert
	Stats  types.Counts
}

func levelOptions() []string {
	out := []string{service.LevelAll}
	for _, l := range risk.Levels {
		out = append(out, string(l))
	}
	return out
}

// filtered reads q and risk from the query string. ok is false when the
// response has already been written.
func (c *alertsControllerImpl) filtered(w http.ResponseWriter, r *http.Request) (AlertsView, bool) {
	q := r.URL.Query().Get("q")
	level := r.URL.Query().Get("risk")
	alerts, err := c.feed.Filter(q, level)
	if err != nil {
		if errors.Is(err, service.ErrUnknownLevel) {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return AlertsView{}, false
		}
		slog.Error("alerts: filter failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load alerts")
		return AlertsView{}, false
	}
	if level == "" {
		level = service.LevelAll
	}
	if alerts == nil {
		alerts = []types.Alert{}
	}
	return AlertsView{
		Query:       q,
		Risk:        level,
		Levels:      levelOptions(),
		Alerts:      alerts,
		Counts:      c.feed.Counts(),
		RefreshedAt: c.feed.RefreshedAt(),
	}, true
}

func (c *alertsControllerImpl) handleAlertsPage(w http.ResponseWriter, r *http.Request) {
	view, ok := c.filtered(w, r)
	if !ok {
		return
	}
	page := views.Page{Title: "Live Alerts", Active: "alerts", Data: view}
	if err := views.WriteHTML(w, http.StatusOK, func(b io.Writer) error {
		return views.RenderPage(b, "alerts", page)
	}); err != nil {
		slog.Error("alerts page render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
	}
}

func (c *alertsControllerImpl) handleAlertsPartial(w http.ResponseWriter, r *http.Request) {
	view, ok := c.filtered(w, r)
	if !ok {
		return
	}
	if err := views.WriteHTML(w, http.StatusOK, func(b io.Writer) error {
		return views.RenderPartial(b, "alert-list", view)
	}); err != nil {
		slog.Error("alerts partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
	}
}

func (c *alertsControllerImpl) handleAlerts(w http.ResponseWriter, r *http.Request) {
	view, ok := c.filtered(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, AlertsResponse{
		Alerts:      view.Alerts,
		Counts:      view.Counts,
		RefreshedAt: view.RefreshedAt,
	})
}

func (c *alertsControllerImpl) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	recent, err := c.feed.Recent(r.Context(), service.DefaultRecentLimit)
	if err != nil {
		slog.Error("admin: recent alerts failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load alert log")
		return
	}
	stats, err := c.feed.Stats(r.Context())
	if err != nil {
		slog.Error("admin: alert stats failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load alert log")
		return
	}

	page := views.Page{Title: "Admin", Active: "admin", Data: AdminView{Recent: recent, Stats: stats}}
	if err := views.WriteHTML(w, http.StatusOK, func(b io.Writer) error {
		return views.RenderPage(b, "admin", page)
	}); err != nil {
		slog.Error("admin page render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
	}
}

func (c *alertsControllerImpl) handleAdminAlerts(w http.ResponseWriter, r *http.Request) {
	limit, err := utils.QueryInt(r, "limit", service.DefaultRecentLimit, 1, maxRecentLimit)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	trendLimit, err := utils.QueryInt(r, "trend", defaultTrendLimit, 1, maxTrendLimit)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	recent, err := c.feed.Recent(r.Context(), limit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	stats, err := c.feed.Stats(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	trend, err := c.feed.Trend(r.Context(), trendLimit)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recent == nil {
		recent = []types.Alert{}
	}
	if trend == nil {
		trend = []types.TrendPoint{}
	}
	utils.WriteJSON(w, http.StatusOK, AdminResponse{Recent: recent, Stats: stats, Trend: trend})
}
