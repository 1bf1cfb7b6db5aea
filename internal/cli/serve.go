package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/okian/bizdash/internal/adapters/http/api"
	service "github.com/okian/bizdash/internal/app"
	"github.com/okian/bizdash/internal/config"
	"github.com/okian/bizdash/pkg/logger"
	"github.com/okian/bizdash/pkg/metrics"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the API server on addr (default localhost:5000) and, unless ops_addr
is empty, the operations listener with /healthz, /metrics, /stats,
/openapi.yaml and /api-docs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, nil)
		},
	}
}

// loadConfig loads configuration and initializes the global logger from it.
func loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(ctx, config.WithFile(flags.configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := initLogger(ctx, cfg.LogFormat, cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogger sets up the global logger. An invalid level falls back to info.
func initLogger(ctx context.Context, format, level string) error {
	if err := logger.Init(logger.WithFormat(format)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// onListen is called with the bound API and ops addresses once both
// listeners are open. Tests use it to learn ephemeral ports.
type onListen func(apiAddr, opsAddr string)

// runServe starts the service and both listeners, then blocks until ctx is
// cancelled or a listener fails.
func runServe(ctx context.Context, cfg *config.Config, ready onListen) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	log := logger.Get()

	svc := service.New(
		service.WithLogger(log.Named("service")),
		service.WithSeed(cfg.RandomSeed),
		service.WithLocation(cfg.Location()),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	apiServer := api.NewServer(svc,
		api.WithAllowedOrigins(cfg.CORSAllowedOrigins...),
		api.WithLogger(log.Named("api")),
	)
	servers := []*http.Server{newHTTPServer(cfg, apiServer.Handler(ctx))}
	if cfg.OpsAddr != "" {
		opsServer := newHTTPServer(cfg, api.OpsHandler(ctx, svc))
		opsServer.Addr = cfg.OpsAddr
		servers = append(servers, opsServer)
	}

	// Bind before serving so a busy port fails startup instead of a goroutine.
	listeners := make([]net.Listener, 0, len(servers))
	for _, srv := range servers {
		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			for _, open := range listeners {
				_ = open.Close()
			}
			return fmt.Errorf("%w: listen %s: %w", ErrServe, srv.Addr, err)
		}
		listeners = append(listeners, ln)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		startSystemMetricsUpdater(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	errCh := make(chan error, len(servers))
	for i, srv := range servers {
		ln := listeners[i]
		log.Info(ctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("%w: %s: %w", ErrServe, ln.Addr(), err)
			}
		}()
	}

	if ready != nil {
		opsAddr := ""
		if len(listeners) > 1 {
			opsAddr = listeners[1].Addr().String()
		}
		ready(listeners[0].Addr().String(), opsAddr)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down server...")
	case serveErr = <-errCh:
		log.Error(ctx, "HTTP server failed", logger.Error(serveErr))
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "server shutdown failed", logger.String("addr", srv.Addr), logger.Error(err))
		}
	}

	log.Info(shutdownCtx, "server stopped")
	return serveErr
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout(),
		WriteTimeout:      cfg.WriteTimeout(),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater refreshes runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	metrics.UpdateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateSystemMetrics()
		}
	}
}
