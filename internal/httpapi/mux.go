package httpapi

import (
	"database/sql"
	"net/http"

	"floodwatch/internal/metrics"
)

// NewMux returns a mux with the infrastructure routes registered: health,
// Prometheus metrics and static assets. Feature modules add their own.
func NewMux(db *sql.DB, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	mux.Handle("GET /metrics", metrics.Handler())
	if staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	return mux
}
