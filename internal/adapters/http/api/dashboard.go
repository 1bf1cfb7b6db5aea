package api

import (
	"context"
	"net/http"

	"github.com/okian/bizdash/pkg/logger"
)

// DashboardDependencies defines the interface for dashboard operations.
type DashboardDependencies interface {
	Dashboard(ctx context.Context) (Dashboard, error)
}

// DashboardHandler handles dashboard requests.
type DashboardHandler struct {
	deps   DashboardDependencies
	logger logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{deps: deps, logger: log}
}

// HandleDashboard handles GET /api/dashboard requests and returns sales KPIs with monthly and daily charts.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, "dashboard", h.deps.Dashboard)
}
