package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/goalnudge-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/goalnudge-backend/internal/adapter/http"
	"github.com/simaogato/goalnudge-backend/internal/app"
	"github.com/simaogato/goalnudge-backend/internal/config"
	"github.com/simaogato/goalnudge-backend/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to the TOML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	err := run(ctx, *configPath)
	stop()

	if err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run serves HTTP and gRPC until ctx is cancelled or a server fails
func run(ctx context.Context, configPath string) (err error) {
	// 1. Load configuration and logging
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, shutdownLog, err := newLogger(ctx, cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownLog(flushCtx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
		}
	}()

	// 2. Error reporting
	sentryEnabled := cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		}); err != nil {
			return fmt.Errorf("failed to initialise sentry: %w", err)
		}
		defer func() {
			if err != nil {
				sentry.CaptureException(err)
			}
			sentry.Flush(2 * time.Second)
		}()
	}

	// 3. Store, repositories and services
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialise application: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}()

	if err := a.Seeder.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	log.Info("demo data seeded")

	// 4. HTTP server
	httpServer := &http.Server{
		Addr: cfg.Server.HTTPAddr,
		Handler: httpadapter.NewRouter(a.HTTPServices(), httpadapter.Options{
			APIToken:       cfg.Server.APIToken,
			RequestTimeout: cfg.Server.RequestTimeout,
			Logger:         log,
			Sentry:         sentryEnabled,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 5. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
	)
	grpcadapter.RegisterGoalServiceServer(grpcServer, grpcadapter.NewServer(a.Dashboard, a.Progress))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddr, err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("gRPC server listening", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal, shutting down gracefully")
	case serveErr = <-errCh:
		log.Error("server failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	}
	log.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")

	return serveErr
}

// newLogger exports over OTLP when configured and writes JSON to stdout otherwise.
// A failed OTLP setup falls back to JSON.
func newLogger(ctx context.Context, cfg config.LogConfig) (*slog.Logger, func(context.Context) error, error) {
	if cfg.OTLP {
		log, shutdown, err := logger.NewOTLP(ctx, cfg.ServiceName, cfg.Level)
		if err == nil {
			log.Info("OpenTelemetry logging enabled", "service", cfg.ServiceName)
			return log, shutdown, nil
		}
		fmt.Fprintf(os.Stderr, "failed to setup OTLP logging, falling back to JSON: %v\n", err)
	}

	log, err := logger.New(os.Stdout, cfg.Level)
	return log, func(context.Context) error { return nil }, err
}
