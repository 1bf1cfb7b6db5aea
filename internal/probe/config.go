package probe

import (
	"fmt"
	"net/url"
	"runtime"
	"time"
)

// Default probe settings.
const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultRounds  = 20
	DefaultTimeout = 10 * time.Second
	DefaultOrigin  = "http://localhost:3000"
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL    string         // Base URL of the API server
	Rounds     int            // Times every route is called
	Workers    int            // Concurrent workers, one round each at a time
	Timeout    time.Duration  // Per-request timeout
	Origin     string         // Origin header sent to exercise CORS
	ReportFile string         // Optional report path (.yaml/.yml or .json)
	Location   *time.Location // Timezone the server renders dates in
}

// DefaultConfig returns a Config with the CLI defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Rounds:   DefaultRounds,
		Workers:  min(runtime.NumCPU(), 4),
		Timeout:  DefaultTimeout,
		Origin:   DefaultOrigin,
		Location: time.Local,
	}
}

// Validate checks the settings before any request is made.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	switch {
	case err != nil:
		return fmt.Errorf("%w: url: %w", ErrInvalidConfig, err)
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("%w: url must be http or https, got %q", ErrInvalidConfig, c.BaseURL)
	case u.Host == "":
		return fmt.Errorf("%w: url has no host", ErrInvalidConfig)
	case c.Rounds < 1:
		return fmt.Errorf("%w: rounds must be at least 1", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
