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

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ultrascore/backend/config"
	httpDelivery "github.com/ultrascore/backend/internal/delivery/http"
	"github.com/ultrascore/backend/internal/domain"
	"github.com/ultrascore/backend/internal/infrastructure/gemini"
	"github.com/ultrascore/backend/internal/infrastructure/quota"
	"github.com/ultrascore/backend/internal/usecase"
)

const (
	shutdownTimeout    = 15 * time.Second
	quotaSweepInterval = 10 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireGemini(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analysis, err := newAnalysisService(ctx, cfg, logger)
	if err != nil {
		return err
	}

	store, closeStore, err := openQuotaStore(ctx, cfg.Quota)
	if err != nil {
		return err
	}
	defer closeStore()

	quotaService := usecase.NewQuotaService(store, usecase.QuotaServiceConfig{
		Limit:  cfg.Quota.DailyLimit,
		Window: cfg.Quota.Window,
	}, logger)

	handler := httpDelivery.NewHandler(analysis, quotaService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting UltraScore backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("addr", srv.Addr),
		zap.String("model", cfg.Gemini.Model),
		zap.String("quota", cfg.Quota.Type),
		zap.Int("daily_limit", cfg.Quota.DailyLimit))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newAnalysisService wires the Gemini client in as both collaborators
func newAnalysisService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*usecase.AnalysisService, error) {
	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:              cfg.Gemini.APIKey,
		Model:               cfg.Gemini.Model,
		AnalysisTemperature: cfg.Gemini.AnalysisTemperature,
		SafetyTemperature:   cfg.Gemini.SafetyTemperature,
		RequestsPerSecond:   cfg.Gemini.RequestsPerSecond,
		Burst:               cfg.Gemini.Burst,
	}, logger)
	if err != nil {
		return nil, err
	}
	return usecase.NewAnalysisService(client, client, logger), nil
}

// openQuotaStore returns the configured store and its cleanup. Quota type
// "none" returns a nil store, which disables enforcement.
func openQuotaStore(ctx context.Context, qc config.QuotaConfig) (domain.QuotaStore, func(), error) {
	switch qc.Type {
	case "memory":
		store := quota.NewMemoryStore(quotaSweepInterval)
		return store, func() { _ = store.Close() }, nil
	case "sqlite":
		store, err := quota.NewSQLiteStore(ctx, qc.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}
