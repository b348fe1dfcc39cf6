package controller

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"floodwatch/internal/modules/history/service"
	"floodwatch/internal/modules/history/types"
	"floodwatch/internal/utils"
	"floodwatch/internal/views"
)

type HistoryController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type historyControllerImpl struct {
	source service.SeriesSource
}

func NewHistoryController(source service.SeriesSource) HistoryController {
	return &historyControllerImpl{source: source}
}

func (c *historyControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /historical", c.handleHistoricalPage)
	mux.HandleFunc("GET /api/v1/history", c.handleHistory)
	mux.HandleFunc("GET /api/v1/history/parameters", c.handleParameters)
}

// HistoryView backs the historical trends page.
type HistoryView struct {
	Parameters []string
	Parameter  string
	Days       int
	Series     types.Series
}

func parseSeriesQuery(r *http.Request) (string, int, error) {
	parameter := strings.TrimSpace(r.URL.Query().Get("parameter"))
	if parameter == "" {
		parameter = service.DefaultParameter
	}
	days, err := utils.QueryInt(r, "days", service.DefaultDays, 1, service.MaxDays)
	if err != nil {
		return "", 0, err
	}
	return parameter, days, nil
}

// series answers 400 for a bad query or unknown parameter. ok is false when
// the response has already been written.
func (c *historyControllerImpl) series(w http.ResponseWriter, r *http.Request) (types.Series, bool) {
	parameter, days, err := parseSeriesQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return types.Series{}, false
	}
	s, err := c.source.Series(parameter, days)
	if err != nil {
		if errors.Is(err, service.ErrUnknownParameter) || errors.Is(err, service.ErrDaysOutOfRange) {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return types.Series{}, false
		}
		slog.Error("history: series failed", "parameter", parameter, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load series")
		return types.Series{}, false
	}
	return s, true
}

func (c *historyControllerImpl) handleHistory(w http.ResponseWriter, r *http.Request) {
	s, ok := c.series(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

func (c *historyControllerImpl) handleParameters(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, service.Parameters())
}

func (c *historyControllerImpl) handleHistoricalPage(w http.ResponseWriter, r *http.Request) {
	s, ok := c.series(w, r)
	if !ok {
		return
	}
	params := service.Parameters()
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	view := HistoryView{Parameters: names, Parameter: s.Parameter, Days: len(s.Values), Series: s}
	page := views.Page{Title: "Historical Trends", Active: "historical", Data: view}
	if err := views.WriteHTML(w, http.StatusOK, func(b io.Writer) error {
		return views.RenderPage(b, "historical", page)
	}); err != nil {
		slog.Error("historical page render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
	}
}
