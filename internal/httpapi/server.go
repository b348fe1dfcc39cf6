package httpapi

import (
	"net/http"
	"time"

	"floodwatch/internal/config"
	"floodwatch/internal/metrics"
)

func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           requestLogger(metrics.InstrumentHandler(handler)),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
