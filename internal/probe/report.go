package probe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File permission constants.
const (
	directoryPermission = 0o750
	reportPermission    = 0o644
)

// EndpointReport aggregates the outcome of every call to one route.
type EndpointReport struct {
	Path         string `json:"path" yaml:"path"`
	Requests     int    `json:"requests" yaml:"requests"`
	Passed       int    `json:"passed" yaml:"passed"`
	Failed       int    `json:"failed" yaml:"failed"`
	DistinctKPIs int    `json:"distinctKpis" yaml:"distinct_kpis"`
	MaxLatency   string `json:"maxLatency" yaml:"max_latency"`
}

// Report is the result of one probe run.
type Report struct {
	RunID      string                     `json:"runId" yaml:"run_id"`
	BaseURL    string                     `json:"baseUrl" yaml:"base_url"`
	StartedAt  time.Time                  `json:"startedAt" yaml:"started_at"`
	Duration   string                     `json:"duration" yaml:"duration"`
	Rounds     int                        `json:"rounds" yaml:"rounds"`
	Workers    int                        `json:"workers" yaml:"workers"`
	Requests   int                        `json:"requests" yaml:"requests"`
	Endpoints  map[string]*EndpointReport `json:"endpoints" yaml:"endpoints"`
	Violations []Violation                `json:"violations" yaml:"violations"`
}

// Passed reports whether the run found no violations.
func (r *Report) Passed() bool {
	return len(r.Violations) == 0
}

// WriteFile writes the report as YAML for .yaml/.yml paths and as
// indented JSON otherwise.
func (r *Report) WriteFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(r)
	default:
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
