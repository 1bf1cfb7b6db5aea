// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/bizdash/internal/domain/types"
	"github.com/okian/bizdash/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	DashboardDependencies
	InventoryDependencies
	SalesDependencies
	PurchaseDependencies
	ReportsDependencies
	UserDependencies
}

// Route paths served by the API listener.
const (
	PathDashboard = "/api/dashboard"
	PathInventory = "/api/inventory"
	PathSales     = "/api/sales"
	PathPurchase  = "/api/purchase"
	PathReports   = "/api/reports"
	PathUser      = "/api/user"
)

// Paths lists every API route in registration order.
var Paths = []string{PathDashboard, PathInventory, PathSales, PathPurchase, PathReports, PathUser}

// Server wires HTTP routes for the business API.
type Server struct {
	dashboardHandler *DashboardHandler
	inventoryHandler *InventoryHandler
	salesHandler     *SalesHandler
	purchaseHandler  *PurchaseHandler
	reportsHandler   *ReportsHandler
	userHandler      *UserHandler

	allowedOrigins []string
	logger         logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the origins answered by the CORS middleware.
// "*" allows every origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = append([]string(nil), origins...)
		}
	}
}

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		allowedOrigins: []string{wildcardOrigin},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	s.dashboardHandler = NewDashboardHandler(deps, s.logger)
	s.inventoryHandler = NewInventoryHandler(deps, s.logger)
	s.salesHandler = NewSalesHandler(deps, s.logger)
	s.purchaseHandler = NewPurchaseHandler(deps, s.logger)
	s.reportsHandler = NewReportsHandler(deps, s.logger)
	s.userHandler = NewUserHandler(deps, s.logger)
	return s
}

// Register attaches all HTTP routes to mux. Method patterns make the mux
// answer 404 for unknown paths and 405 with an Allow header for other methods.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET "+PathDashboard, MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("GET "+PathInventory, MetricsMiddleware(s.inventoryHandler.HandleInventory, "inventory"))
	mux.HandleFunc("GET "+PathSales, MetricsMiddleware(s.salesHandler.HandleSales, "sales"))
	mux.HandleFunc("GET "+PathPurchase, MetricsMiddleware(s.purchaseHandler.HandlePurchase, "purchase"))
	mux.HandleFunc("GET "+PathReports, MetricsMiddleware(s.reportsHandler.HandleReports, "reports"))
	mux.HandleFunc("GET "+PathUser, MetricsMiddleware(s.userHandler.HandleUser, "user"))
}

// Handler returns a mux with every route registered, wrapped in the
// request ID, access log, recover and CORS middleware.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	return Chain(mux,
		RequestIDMiddleware,
		AccessLogMiddleware(s.logger),
		RecoverMiddleware(s.logger),
		CORSMiddleware(Paths, s.allowedOrigins...),
	)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// The frontend expects exactly application/json, without a charset.
const contentTypeJSON = "application/json"

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	_ = writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// respond encodes a freshly generated record. A generation failure maps to
// 503 when the service is not running and 500 otherwise.
func respond[T any](w http.ResponseWriter, r *http.Request, log logger.Logger, endpoint string, produce func(context.Context) (T, error)) {
	rec, err := produce(r.Context())
	if err != nil {
		status, code := statusForError(err)
		log.Error(r.Context(), "payload generation failed",
			logger.String("endpoint", endpoint),
			logger.Error(err),
		)
		writeError(w, status, code, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, rec); err != nil {
		log.Warn(r.Context(), "failed to encode response",
			logger.String("endpoint", endpoint),
			logger.Error(err),
		)
	}
}

// Records returned by the API, aliased for callers that only import api.
type (
	Dashboard = types.Dashboard
	Inventory = types.Inventory
	Sales     = types.Sales
	Purchase  = types.Purchase
	Reports   = types.Reports
	User      = types.User
)
