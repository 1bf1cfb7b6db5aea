package api

import (
	"context"
	"net/http"

	"github.com/okian/bizdash/pkg/logger"
)

// UserDependencies returns the signed-in profile. Only lastLogin changes
// between calls.
type UserDependencies interface {
	User(ctx context.Context) (User, error)
}

// UserHandler handles user requests.
type UserHandler struct {
	deps   UserDependencies
	logger logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(deps UserDependencies, log logger.Logger) *UserHandler {
	return &UserHandler{deps: deps, logger: log}
}

// HandleUser handles GET /api/user requests.
func (h *UserHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, "user", h.deps.User)
}
