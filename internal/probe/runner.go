// Package probe exercises a running API server and verifies every response
// against the published ranges, label sets and transport rules.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/bizdash/internal/domain/generator"
	"github.com/okian/bizdash/pkg/logger"
	"github.com/okian/bizdash/pkg/metrics"
)

// Check outcomes recorded in metrics.
const (
	outcomePass  = "pass"
	outcomeFail  = "fail"
	outcomeError = "error"
)

// unknownPath must never be served.
const unknownPath = "/api/does-not-exist"

// Endpoints maps route names to paths in the order they are called.
var Endpoints = []struct{ Name, Path string }{
	{"dashboard", "/api/dashboard"},
	{"inventory", "/api/inventory"},
	{"sales", "/api/sales"},
	{"purchase", "/api/purchase"},
	{"reports", "/api/reports"},
	{"user", "/api/user"},
}

// Option configures a Runner.
type Option func(*Runner)

// WithHTTPClient replaces the HTTP client, e.g. with an httptest client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithClock sets the clock used to decide what "today" is.
func WithClock(c generator.Clock) Option {
	return func(r *Runner) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLogger sets the logger for progress output.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// Runner drives a probe run.
type Runner struct {
	cfg        Config
	httpClient *http.Client
	clock      generator.Clock
	logger     logger.Logger
}

// NewRunner creates a Runner for cfg.
func NewRunner(cfg Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = generator.SystemClock(cfg.Location)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("probe")
	}
	return r
}

// roundResult holds what one worker saw during one round.
type roundResult struct {
	violations []Violation
	passed     map[string]bool
	kpis       map[string]string
	latency    map[string]time.Duration
}

// Run executes the probe. The report is returned even when checks fail;
// the error then wraps ErrContractViolation.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	client := newHTTPClient(r.httpClient, r.cfg.BaseURL, r.cfg.Origin, r.cfg.Timeout)

	report := &Report{
		RunID:     uuid.NewString(),
		BaseURL:   r.cfg.BaseURL,
		StartedAt: time.Now(),
		Rounds:    r.cfg.Rounds,
		Workers:   r.cfg.Workers,
		Endpoints: make(map[string]*EndpointReport, len(Endpoints)),
	}
	for _, ep := range Endpoints {
		report.Endpoints[ep.Name] = &EndpointReport{Path: ep.Path}
	}

	r.logger.Info(ctx, "starting probe",
		logger.String("runId", report.RunID),
		logger.String("baseURL", r.cfg.BaseURL),
		logger.Int("rounds", r.cfg.Rounds),
		logger.Int("workers", r.cfg.Workers),
	)

	// Step 1: make sure something answers before spawning workers
	if _, err := client.Do(ctx, http.MethodGet, Endpoints[len(Endpoints)-1].Path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreachable, r.cfg.BaseURL, err)
	}

	// Step 2: routing rules
	report.Violations = append(report.Violations, r.checkRouting(ctx, client)...)
	report.Requests += 2

	// Step 3: rounds over every endpoint
	results := r.runRounds(ctx, client)
	distinct := make(map[string]map[string]struct{}, len(Endpoints))
	maxLatency := make(map[string]time.Duration, len(Endpoints))
	for res := range results {
		report.Violations = append(report.Violations, res.violations...)
		for _, ep := range Endpoints {
			er := report.Endpoints[ep.Name]
			passed, seen := res.passed[ep.Name]
			if !seen {
				continue
			}
			report.Requests++
			er.Requests++
			if passed {
				er.Passed++
			} else {
				er.Failed++
			}
			if k := res.kpis[ep.Name]; k != "" {
				if distinct[ep.Name] == nil {
					distinct[ep.Name] = make(map[string]struct{})
				}
				distinct[ep.Name][k] = struct{}{}
			}
			maxLatency[ep.Name] = max(maxLatency[ep.Name], res.latency[ep.Name])
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("probe interrupted: %w", err)
	}

	// Step 4: payloads must change between calls
	for _, ep := range Endpoints {
		er := report.Endpoints[ep.Name]
		er.MaxLatency = maxLatency[ep.Name].String()
		if ep.Name == "user" {
			continue
		}
		er.DistinctKPIs = len(distinct[ep.Name])
		if er.Requests >= 2 && er.DistinctKPIs < 2 {
			report.Violations = append(report.Violations, Violation{
				Endpoint: ep.Name,
				Check:    "random",
				Detail:   fmt.Sprintf("all %d responses carried identical kpis", er.Requests),
			})
		}
	}

	report.Duration = time.Since(report.StartedAt).String()
	r.logSummary(ctx, report)

	if !report.Passed() {
		return report, fmt.Errorf("%w: %d failed checks", ErrContractViolation, len(report.Violations))
	}
	return report, nil
}

// checkRouting verifies 404 on an unknown path and 405 on a non-GET method.
func (r *Runner) checkRouting(ctx context.Context, client *HTTPClient) []Violation {
	c := &checker{endpoint: "routing"}

	if resp, err := client.Do(ctx, http.MethodGet, unknownPath); err != nil {
		c.failf("not_found", "%v", err)
	} else if resp.Status != http.StatusNotFound {
		c.failf("not_found", "GET %s returned %d, want 404", unknownPath, resp.Status)
	}

	path := Endpoints[0].Path
	if resp, err := client.Do(ctx, http.MethodPost, path); err != nil {
		c.failf("method_not_allowed", "%v", err)
	} else if resp.Status != http.StatusMethodNotAllowed {
		c.failf("method_not_allowed", "POST %s returned %d, want 405", path, resp.Status)
	}

	outcome := outcomePass
	if len(c.violations) > 0 {
		outcome = outcomeFail
	}
	metrics.RecordProbeCheck("routing", outcome)
	return c.violations
}

// runRounds fans rounds out to a fixed pool of workers.
func (r *Runner) runRounds(ctx context.Context, client *HTTPClient) <-chan roundResult {
	rounds := make(chan int, r.cfg.Workers*2)
	results := make(chan roundResult, r.cfg.Workers*2)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				select {
				case <-ctx.Done():
					return
				case results <- r.runRound(ctx, client):
				}
			}
		}()
	}

	go func() {
		defer close(rounds)
		for i := 0; i < r.cfg.Rounds; i++ {
			select {
			case <-ctx.Done():
				return
			case rounds <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// runRound calls every endpoint once.
func (r *Runner) runRound(ctx context.Context, client *HTTPClient) roundResult {
	start := time.Now()
	res := roundResult{
		passed:  make(map[string]bool, len(Endpoints)),
		kpis:    make(map[string]string, len(Endpoints)),
		latency: make(map[string]time.Duration, len(Endpoints)),
	}

	for _, ep := range Endpoints {
		resp, err := client.Do(ctx, http.MethodGet, ep.Path)
		if err != nil {
			if ctx.Err() != nil {
				return res
			}
			metrics.RecordProbeCheck(ep.Name, outcomeError)
			res.passed[ep.Name] = false
			res.violations = append(res.violations, Violation{Endpoint: ep.Name, Check: "request", Detail: err.Error()})
			continue
		}

		c := &checker{endpoint: ep.Name}
		c.checkTransport(resp, r.cfg.Origin)
		if resp.Status == http.StatusOK {
			res.kpis[ep.Name] = c.checkBody(ep.Name, resp.Body, r.clock.Now())
		}

		res.latency[ep.Name] = resp.Duration
		res.passed[ep.Name] = len(c.violations) == 0
		res.violations = append(res.violations, c.violations...)
		if len(c.violations) == 0 {
			metrics.RecordProbeCheck(ep.Name, outcomePass)
		} else {
			metrics.RecordProbeCheck(ep.Name, outcomeFail)
		}
	}

	metrics.RecordProbeRoundDuration(time.Since(start).Seconds())
	return res
}

func (r *Runner) logSummary(ctx context.Context, report *Report) {
	for _, ep := range Endpoints {
		er := report.Endpoints[ep.Name]
		r.logger.Info(ctx, "endpoint summary",
			logger.String("endpoint", ep.Name),
			logger.Int("requests", er.Requests),
			logger.Int("passed", er.Passed),
			logger.Int("failed", er.Failed),
			logger.Int("distinctKpis", er.DistinctKPIs),
			logger.String("maxLatency", er.MaxLatency),
		)
	}

	fields := []logger.Field{
		logger.String("runId", report.RunID),
		logger.Int("requests", report.Requests),
		logger.Int("violations", len(report.Violations)),
		logger.String("duration", report.Duration),
	}
	if report.Passed() {
		r.logger.Info(ctx, "probe passed", fields...)
		return
	}
	for _, v := range report.Violations {
		r.logger.Warn(ctx, "violation",
			logger.String("endpoint", v.Endpoint),
			logger.String("check", v.Check),
			logger.String("detail", v.Detail),
		)
	}
	r.logger.Error(ctx, "probe failed", fields...)
}
