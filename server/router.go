package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter mounts the API routes behind the recovery, logging and CORS middleware.
func NewRouter(api *API, sugar *zap.SugaredLogger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/collections/contract/{address}", api.Collection)
	mux.HandleFunc("GET /api/collections/contract/{address}/activity", api.Activity)
	mux.HandleFunc("GET /api/health", api.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	return withRecovery(sugar, withLogging(sugar, withCORS(mux)))
}
