package api

import (
	"context"
	"net/http"

	"github.com/okian/bizdash/pkg/logger"
)

// ReportsDependencies defines the interface for reports operations.
type ReportsDependencies interface {
	Reports(ctx context.Context) (Reports, error)
}

// ReportsHandler serves the growth report route.
type ReportsHandler struct {
	deps   ReportsDependencies
	logger logger.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportsDependencies, log logger.Logger) *ReportsHandler {
	return &ReportsHandler{deps: deps, logger: log}
}

// HandleReports handles GET /api/reports requests and returns growth figures.
func (h *ReportsHandler) HandleReports(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, "reports", h.deps.Reports)
}
