package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/voyage/internal/adapters/http/api"
	"github.com/okian/voyage/internal/adapters/http/site"
	"github.com/okian/voyage/internal/adapters/http/swagger"
	app "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/internal/config"
	"github.com/okian/voyage/pkg/logger"
	"github.com/okian/voyage/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "voyage exited", logger.Error(err))
		_ = logger.Sync()
		stop()
		os.Exit(1) //nolint:gocritic // stop already invoked
	}
	_ = logger.Sync()
}

// run loads configuration, starts the service and serves HTTP until ctx
// is cancelled.
func run(ctx context.Context) error {
	l := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		l.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, l)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go metrics.CollectSystem(ctx)

	srv := newHTTPServer(cfg.Addr, newHandler(ctx, cfg, svc, l))
	errCh := make(chan error, 1)
	go func() {
		l.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
	l.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	l.Info(ctx, "server stopped")
	return nil
}

// newService builds the pipeline service from configuration.
func newService(cfg *config.Config, l logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(l),
		app.WithDatasetSize(cfg.DatasetSize),
		app.WithSeed(cfg.DatasetSeed),
		app.WithLoadDelay(cfg.LoadDelay()),
		app.WithStageWorkers(cfg.StageWorkers),
		app.WithMaleProbability(cfg.MaleProbability),
		app.WithUnknownAgeProbability(cfg.UnknownAgeProbability),
		app.WithSurvivalProbability(cfg.SurvivalProbability),
	)
}

// newHandler registers the landing page, API and docs routes on a fresh mux.
func newHandler(ctx context.Context, cfg *config.Config, deps api.Dependencies, l logger.Logger) http.Handler {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(deps,
		api.WithMaxLimit(cfg.MaxPreviewLimit),
		api.WithLogger(l.Named("api")),
	).Register(mux)
	return mux
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
