package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/cache"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/config"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/events"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/metrics"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/middleware"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/server"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/storage"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/tracing"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

func main() {
	root := &cobra.Command{
		Use:           "socialfeed",
		Short:         "SocialFeed API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "Run the HTTP API", RunE: runServe},
		&cobra.Command{Use: "migrate", Short: "Create or update the database schema", RunE: runMigrate},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		logs.LogJSON("FATAL", "Command failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func setup(ctx context.Context) (*config.Config, *gorm.DB, error) {
	cfg := config.LoadConfig()
	logs.SetLevel(cfg.LogLevel)

	db, err := database.Connect(ctx, database.Options{
		DSN:         cfg.DBUrl,
		ReplicaDSNs: cfg.DBReplicaURLs,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(ctx, db, server.Models()...); err != nil {
		return err
	}
	logs.LogJSON("INFO", "Database migrated", nil)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(ctx, db, server.Models()...); err != nil {
		return err
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.OTLPEndpoint, cfg.OTELServiceName)
	if err != nil {
		return err
	}

	clock := utils.NewRealClock()
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, clock)
	if err != nil {
		return err
	}

	components := server.Components{
		DB:            db,
		Clock:         clock,
		Publisher:     events.Nop{},
		Tokens:        tokens,
		States:        auth.NewMemoryStateStore(clock),
		AuthRateLimit: int64(cfg.AuthRateLimit),
		Metrics:       metrics.New(),
		CORSOrigins:   cfg.CORSOrigins,
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.Open(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		components.States = auth.NewRedisStateStore(rdb)
		components.Limiter = middleware.NewRedisCounter(rdb)
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		components.Publisher = publisher
	}

	if cfg.S3.Enabled() {
		s3, err := storage.NewS3(ctx, cfg.S3)
		if err != nil {
			return err
		}
		components.Media = s3
	}

	if cfg.Google.Enabled() {
		components.Provider = auth.NewGoogleProvider(cfg.Google)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(server.NewRouter(server.Wire(components))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logs.LogJSON("INFO", "Server listening", map[string]interface{}{"extra": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logs.LogJSON("INFO", "Shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logs.LogJSON("ERROR", "Graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logs.LogJSON("WARN", "Tracer shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	return nil
}
