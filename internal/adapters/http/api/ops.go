package api

import (
	"context"
	"net/http"

	"github.com/okian/bizdash/internal/adapters/http/swagger"
)

// RegisterOps attaches the operational routes to mux: health, metrics,
// stats and the API documentation. They are served on a separate listener
// so the public API only exposes its six routes.
func RegisterOps(ctx context.Context, mux *http.ServeMux, stats StatsProvider) {
	if mux == nil {
		panic("mux is nil")
	}
	health := NewHealthHandler()
	statsHandler := NewStatsHandler(stats)

	mux.HandleFunc("GET /healthz", MetricsMiddleware(health.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", health.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(statsHandler.HandleStats, "stats"))
	swagger.Register(ctx, mux)
}

// OpsHandler returns a mux with the operational routes registered.
func OpsHandler(ctx context.Context, stats StatsProvider) http.Handler {
	mux := http.NewServeMux()
	RegisterOps(ctx, mux, stats)
	return RequestIDMiddleware(mux)
}
