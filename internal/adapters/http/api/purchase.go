package api

import (
	"context"
	"net/http"

	"github.com/okian/bizdash/pkg/logger"
)

// PurchaseDependencies defines the interface for purchase operations.
type PurchaseDependencies interface {
	Purchase(ctx context.Context) (Purchase, error)
}

// PurchaseHandler handles purchase requests.
type PurchaseHandler struct {
	deps   PurchaseDependencies
	logger logger.Logger
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(deps PurchaseDependencies, log logger.Logger) *PurchaseHandler {
	return &PurchaseHandler{deps: deps, logger: log}
}

// HandlePurchase handles GET /api/purchase requests and returns purchasing KPIs with a per-supplier chart.
func (h *PurchaseHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, "purchase", h.deps.Purchase)
}
