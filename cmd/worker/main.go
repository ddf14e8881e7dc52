// The worker binary consumes export jobs from the queue, builds CSV
// artifacts and uploads them to object storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/PatentLens/internal/application/export"
	"github.com/turtacn/PatentLens/internal/config"
	"github.com/turtacn/PatentLens/internal/infrastructure/database/postgres"
	"github.com/turtacn/PatentLens/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/PatentLens/internal/infrastructure/database/redis"
	"github.com/turtacn/PatentLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/internal/infrastructure/storage/minio"
)

const defaultHealthPort = 8081

func main() {
	configPath := flag.String("config", "", "path to configuration file (environment used when empty)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for the health probe endpoint")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *healthPort); err != nil {
		logger.Error("worker exited", logging.Err(err))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger, healthPort int) error {
	conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	redisClient, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close() //nolint:errcheck

	cache := redis.NewCache(redisClient, cfg.Redis.KeyPrefix, logger)
	statusStore := redis.NewExportStatusStore(cache, cfg.Export.StatusTTL)

	minioClient, err := minio.NewClient(ctx, cfg.MinIO, logger)
	if err != nil {
		return err
	}
	artifacts := minio.NewArtifactStore(minioClient, cfg.MinIO.PresignExpiry, logger)

	patentRepo := repositories.NewPatentRepository(conn.Pool(), logger)
	filterRepo := repositories.NewFilterRepository(conn.Pool(), logger)

	processor := export.NewProcessor(patentRepo, filterRepo, artifacts, statusStore, export.Options{
		PageSize:   cfg.Export.PageSize,
		MaxRows:    cfg.Export.MaxRows,
		LinkExpiry: cfg.MinIO.PresignExpiry,
	}, logger)

	topics, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger)
	if err != nil {
		return err
	}
	if err := topics.EnsureExportTopic(ctx, cfg.Kafka.ExportTopic); err != nil {
		logger.Warn("ensure export topic failed", logging.Err(err))
	}
	topics.Close() //nolint:errcheck

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		GroupID: cfg.Kafka.GroupID,
		Topic:   cfg.Kafka.ExportTopic,
	}, processor, logger)
	if err != nil {
		return err
	}
	if err := consumer.Start(ctx); err != nil {
		return err
	}

	healthSrv := startHealthServer(healthPort, logger)

	<-ctx.Done()
	logger.Info("shutting down worker")

	if err := consumer.Close(); err != nil {
		logger.Error("consumer close failed", logging.Err(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return healthSrv.Shutdown(shutdownCtx)
}

func startHealthServer(port int, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", logging.Err(err))
		}
	}()
	return srv
}
