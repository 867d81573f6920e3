package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contactdesk/contactdesk/cmd/mainconfig"
	"github.com/contactdesk/contactdesk/internal/api/router"
	appconfig "github.com/contactdesk/contactdesk/internal/config"
	"github.com/contactdesk/contactdesk/internal/contacts"
	"github.com/contactdesk/contactdesk/internal/observability/metrics"
	"github.com/contactdesk/contactdesk/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting contactdesk API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store", cfg.StoreBackend,
	)

	ctx := context.Background()
	repo, cleanup, err := buildRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize contact store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	reg := prometheus.NewRegistry()
	routerCfg := &router.Config{
		Logger:             logger,
		ContactsHandler:    contacts.NewHandler(repo, logger),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		HTTPMetrics:        metrics.NewHTTPMetrics(reg),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildRepository selects the store backend from configuration. The
// returned cleanup releases any pooled connections.
func buildRepository(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (contacts.Repository, func(), error) {
	switch cfg.StoreBackend {
	case appconfig.StoreDynamo:
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, mainconfig.AWSOptions{
			Region:           cfg.AWSRegion,
			AccessKeyID:      cfg.AWSAccessKeyID,
			SecretAccessKey:  cfg.AWSSecretAccessKey,
			EndpointOverride: cfg.AWSEndpointOverride,
		})
		if err != nil {
			return nil, nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg)
		return contacts.NewDynamoRepository(client, cfg.ContactsTable, logger), func() {}, nil

	case appconfig.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo := contacts.NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	default:
		logger.Warn("using in-memory contact store; data will not survive restarts")
		return contacts.NewInMemoryRepository(), func() {}, nil
	}
}
