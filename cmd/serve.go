package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/peoplekit/peoplekit/internal/httpapi"
	"github.com/peoplekit/peoplekit/internal/infrastructure/sqlite"
	"github.com/peoplekit/peoplekit/internal/log"
	"github.com/peoplekit/peoplekit/internal/orchestrator"
	"github.com/peoplekit/peoplekit/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  `Start the classification and workflow orchestration API. The server runs until interrupted and shuts down gracefully.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to shut down tracing", err)
		}
	}()

	reg, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("loading workflows: %w", err)
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	svc := orchestrator.NewService(reg, db.StateRepository(), orchestrator.Policy{
		ActivationThreshold:  cfg.Detection.ActivationThreshold,
		MaxStatelessMessages: cfg.Detection.MaxStatelessMessages,
		CacheTTL:             cfg.Detection.CacheTTL,
	})

	mux := http.NewServeMux()
	httpapi.NewHandler(svc).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.CatHTTP, "Server listening", "addr", cfg.HTTP.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info(log.CatHTTP, "Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}
	return nil
}
