package api

import (
	"context"
	"net/http"

	"github.com/okian/bizdash/pkg/logger"
)

// SalesDependencies defines the interface for sales operations.
type SalesDependencies interface {
	Sales(ctx context.Context) (Sales, error)
}

// SalesHandler handles sales requests.
type SalesHandler struct {
	deps   SalesDependencies
	logger logger.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(deps SalesDependencies, log logger.Logger) *SalesHandler {
	return &SalesHandler{deps: deps, logger: log}
}

// HandleSales handles GET /api/sales requests and returns revenue KPIs with a monthly revenue chart.
func (h *SalesHandler) HandleSales(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, "sales", h.deps.Sales)
}
