package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/feeshock/internal/adapters/console"
	"github.com/okian/feeshock/internal/adapters/http/api"
	"github.com/okian/feeshock/internal/adapters/http/swagger"
	"github.com/okian/feeshock/internal/adapters/ingest"
	service "github.com/okian/feeshock/internal/app"
	"github.com/okian/feeshock/internal/config"
	"github.com/okian/feeshock/pkg/logger"
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
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(2)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, os.Stdout, log); err != nil {
		log.Error(ctx, "feeshock failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run executes one pipeline run, prints the report and, when configured,
// serves the read API until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, out io.Writer, log logger.Logger) error {
	svc := service.New(
		service.WithConfig(cfg),
		service.WithLogger(log.Named("service")),
		service.WithReader(ingest.NewReader(ingest.WithLogger(log.Named("ingest")))),
	)

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Report {
		rep := console.Report{
			RunID:        res.RunID,
			Duration:     res.Duration(),
			Params:       res.Params,
			Employers:    res.Employers,
			Skipped:      res.Skipped.Total(),
			Years:        res.Years,
			Sectors:      res.Sectors,
			TopEmployers: res.TopEmployers,
		}
		if err := console.NewReporter(out).Print(rep); err != nil {
			return fmt.Errorf("print report: %w", err)
		}
	}

	if !cfg.Serve {
		return nil
	}
	return serve(ctx, cfg, svc, log)
}

func newMux(ctx context.Context, cfg *config.Config, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()

	// Register API docs under /api-docs
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc, svc, cfg.MaxTopEmployers)
	apiServer.Register(ctx, mux)
	return mux
}

func serve(ctx context.Context, cfg *config.Config, svc *service.Service, log logger.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- api.WrapKind("listen", api.ErrServe, err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return api.WrapKind("shutdown", api.ErrServe, err)
	}

	log.Info(ctx, "server stopped")
	return nil
}
