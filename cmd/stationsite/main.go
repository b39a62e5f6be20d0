// ABOUTME: Main entry point for the station site
// ABOUTME: Loads config, builds the station directory, runs the HTTP server
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oszuidwest/radio-site/internal/application/config"
	"github.com/oszuidwest/radio-site/internal/application/manager"
	"github.com/oszuidwest/radio-site/internal/infrastructure/http"
	"github.com/oszuidwest/radio-site/internal/infrastructure/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// loadSite reads and validates the config and builds the manager from it.
func loadSite(cfgPath string) (*config.Config, *manager.Manager, error) {
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	mgr, err := manager.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create manager: %w", err)
	}
	return cfg, mgr, nil
}

func run(cfgPath string) error {
	cfg, mgr, err := loadSite(cfgPath)
	if err != nil {
		return err
	}
	if cfg.Site.Output == config.OutputStatic {
		return errors.New("site.output is static: render the pages with the build command")
	}

	logging.Configure(logging.Config{
		Level: cfg.Logging.Level,
		JSON:  cfg.Logging.JSON,
	})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, ln, cfg, mgr)
}

// build renders the site into outDir for static hosting.
func build(cfgPath, outDir string, out io.Writer) error {
	cfg, mgr, err := loadSite(cfgPath)
	if err != nil {
		return err
	}

	logging.Configure(logging.Config{
		Level:  cfg.Logging.Level,
		JSON:   cfg.Logging.JSON,
		Output: os.Stderr,
	})

	written, err := http.Export(mgr, outDir)
	if err != nil {
		return fmt.Errorf("export site: %w", err)
	}
	for _, rel := range written {
		fmt.Fprintln(out, rel)
	}
	return nil
}

// serve runs the HTTP server on ln until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, ln net.Listener, cfg *config.Config, mgr *manager.Manager) error {
	logger := logging.WithComponent("server")

	srv := &nethttp.Server{
		Handler: http.NewRouter(mgr, http.RouterConfig{
			RateLimitPerMinute: cfg.RateLimit.RequestsPerMinute,
			AccessLog:          true,
			PlatformProxy:      cfg.Site.PlatformProxy,
			Adapter:            cfg.Site.Adapter,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info().
		Str("addr", ln.Addr().String()).
		Int("stations", len(mgr.All())).
		Str("output", cfg.Site.Output).
		Str("adapter", cfg.Site.Adapter).
		Bool("platform_proxy", cfg.Site.PlatformProxy).
		Msg("listening")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info().Msg("shutdown complete")
	return nil
}
