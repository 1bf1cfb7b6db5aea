package api

import (
	"context"
	"net/http"

	"github.com/okian/bizdash/pkg/logger"
)

// InventoryDependencies defines the interface for inventory operations.
type InventoryDependencies interface {
	Inventory(ctx context.Context) (Inventory, error)
}

// InventoryHandler handles inventory requests.
type InventoryHandler struct {
	deps   InventoryDependencies
	logger logger.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(deps InventoryDependencies, log logger.Logger) *InventoryHandler {
	return &InventoryHandler{deps: deps, logger: log}
}

// HandleInventory handles GET /api/inventory requests and returns stock KPIs with a per-category chart.
func (h *InventoryHandler) HandleInventory(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, "inventory", h.deps.Inventory)
}
