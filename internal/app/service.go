// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/bizdash/internal/domain/generator"
	"github.com/okian/bizdash/internal/domain/types"
	"github.com/okian/bizdash/pkg/logger"
	"github.com/okian/bizdash/pkg/metrics"
)

// Endpoint names used for counters, metrics and stats.
const (
	EndpointDashboard = "dashboard"
	EndpointInventory = "inventory"
	EndpointSales     = "sales"
	EndpointPurchase  = "purchase"
	EndpointReports   = "reports"
	EndpointUser      = "user"
)

// Endpoints lists every generated endpoint in route order.
var Endpoints = []string{
	EndpointDashboard,
	EndpointInventory,
	EndpointSales,
	EndpointPurchase,
	EndpointReports,
	EndpointUser,
}

// Service implements the API dependencies for the dashboard metrics.
type Service struct {
	mu sync.RWMutex

	// Core components
	gen *generator.Generator

	// Configuration
	seed     int64
	location *time.Location
	source   generator.Source
	clock    generator.Clock

	// State
	started   bool
	now       generator.Clock
	startedAt time.Time
	counters  map[string]*atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSeed seeds the default random source. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithLocation sets the timezone of the default clock.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithSource replaces the random source; WithSeed is then ignored.
func WithSource(src generator.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithClock replaces the clock; WithLocation is then ignored.
func WithClock(clock generator.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		location: time.Local,
		counters: make(map[string]*atomic.Int64, len(Endpoints)),
		logger:   nil, // Will be replaced when service starts
	}
	for _, name := range Endpoints {
		s.counters[name] = new(atomic.Int64)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the generator. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	src := s.source
	if src == nil {
		src = generator.NewLockedSource(s.seed)
	}
	clock := s.clock
	if clock == nil {
		clock = generator.SystemClock(s.location)
	}
	s.gen = generator.New(generator.WithSource(src), generator.WithClock(clock))

	s.started = true
	s.now = clock
	s.startedAt = clock.Now()
	s.logger.Info(ctx, "dashboard service started",
		logger.Bool("seeded", s.seed != 0 || s.source != nil),
		logger.String("location", s.locationName()),
	)

	return nil
}

// Stop releases the generator.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.gen = nil
	s.now = nil
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// acquire returns the running generator and records the call.
func (s *Service) acquire(ctx context.Context, endpoint string) (*generator.Generator, error) {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	if gen == nil {
		return nil, ErrNotStarted
	}

	s.counters[endpoint].Add(1)
	metrics.RecordResponseGenerated(endpoint)
	s.logger.Debug(ctx, "generating payload", logger.String("endpoint", endpoint))
	return gen, nil
}

// Dashboard returns a freshly sampled dashboard payload.
func (s *Service) Dashboard(ctx context.Context) (types.Dashboard, error) {
	gen, err := s.acquire(ctx, EndpointDashboard)
	if err != nil {
		return types.Dashboard{}, err
	}
	return gen.Dashboard(), nil
}

// Inventory returns a freshly sampled inventory payload.
func (s *Service) Inventory(ctx context.Context) (types.Inventory, error) {
	gen, err := s.acquire(ctx, EndpointInventory)
	if err != nil {
		return types.Inventory{}, err
	}
	return gen.Inventory(), nil
}

// Sales returns a freshly sampled sales payload.
func (s *Service) Sales(ctx context.Context) (types.Sales, error) {
	gen, err := s.acquire(ctx, EndpointSales)
	if err != nil {
		return types.Sales{}, err
	}
	return gen.Sales(), nil
}

// Purchase returns a freshly sampled purchasing payload.
func (s *Service) Purchase(ctx context.Context) (types.Purchase, error) {
	gen, err := s.acquire(ctx, EndpointPurchase)
	if err != nil {
		return types.Purchase{}, err
	}
	return gen.Purchase(), nil
}

// Reports returns freshly sampled growth figures.
func (s *Service) Reports(ctx context.Context) (types.Reports, error) {
	gen, err := s.acquire(ctx, EndpointReports)
	if err != nil {
		return types.Reports{}, err
	}
	return gen.Reports(), nil
}

// User returns the static profile stamped with the current time.
func (s *Service) User(ctx context.Context) (types.User, error) {
	gen, err := s.acquire(ctx, EndpointUser)
	if err != nil {
		return types.User{}, err
	}
	return gen.User(), nil
}

// StartedAt is the clock reading taken by Start.
func (s *Service) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	generated := make(map[string]int64, len(s.counters))
	for name, c := range s.counters {
		generated[name] = c.Load()
	}

	stats := map[string]interface{}{
		"started":            s.started,
		"seeded":             s.seed != 0 || s.source != nil,
		"location":           s.locationName(),
		"responsesGenerated": generated,
	}

	if s.started {
		stats["uptimeSeconds"] = s.now.Now().Sub(s.startedAt).Seconds()
	}

	return stats
}

// locationName is the timezone payloads are rendered in. An injected clock
// wins over WithLocation. Callers hold s.mu.
func (s *Service) locationName() string {
	if s.started {
		return s.startedAt.Location().String()
	}
	if s.clock != nil {
		return s.clock.Now().Location().String()
	}
	return s.location.String()
}
