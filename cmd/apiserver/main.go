// The apiserver binary serves the registry HTTP API: patent and person
// listings, statistics, filters and export enqueueing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/PatentLens/internal/application/cached"
	"github.com/turtacn/PatentLens/internal/application/export"
	"github.com/turtacn/PatentLens/internal/application/filters"
	"github.com/turtacn/PatentLens/internal/application/patents"
	"github.com/turtacn/PatentLens/internal/application/persons"
	"github.com/turtacn/PatentLens/internal/config"
	"github.com/turtacn/PatentLens/internal/infrastructure/database/postgres"
	"github.com/turtacn/PatentLens/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/PatentLens/internal/infrastructure/database/redis"
	"github.com/turtacn/PatentLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentLens/internal/infrastructure/monitoring/prometheus"
	httpiface "github.com/turtacn/PatentLens/internal/interfaces/http"
	"github.com/turtacn/PatentLens/internal/interfaces/http/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (environment used when empty)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: outputPaths(cfg.Log.Output),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("apiserver exited", logging.Err(err))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func outputPaths(output string) []string {
	if output == "" {
		return nil
	}
	return []string{output}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	if cfg.Database.MigrationPath != "" {
		if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.MigrationPath); err != nil {
			return err
		}
	}

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
	cacheStore := redis.NewCacheStore(cache)
	statusStore := redis.NewExportStatusStore(cache, cfg.Export.StatusTTL)

	patentRepo := repositories.NewPatentRepository(conn.Pool(), logger)
	personRepo := repositories.NewPersonRepository(conn.Pool(), logger)
	filterRepo := repositories.NewFilterRepository(conn.Pool(), logger)

	patentSvc := patents.NewService(patentRepo, filterRepo, logger)
	personSvc := persons.NewService(personRepo, patentRepo, filterRepo, logger)
	filterSvc := filters.NewService(filterRepo, logger)
	if cfg.Cache.Enabled {
		patentSvc = cached.NewPatentService(patentSvc, cacheStore, cfg.Cache.TTL, logger)
		personSvc = cached.NewPersonService(personSvc, cacheStore, cfg.Cache.TTL, logger)
		filterSvc = cached.NewFilterService(filterSvc, cacheStore, logger)
	}

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.ExportTopic,
		MaxRetries:   cfg.Kafka.ProducerRetries,
		BatchTimeout: cfg.Kafka.BatchTimeout,
	}, logger)
	if err != nil {
		return err
	}
	defer producer.Close() //nolint:errcheck

	exportSvc := export.NewService(producer, statusStore, logger)

	var metrics *prometheus.Metrics
	if cfg.Metrics.Enabled {
		metrics = prometheus.NewMetrics("patentlens")
	}

	router := httpiface.NewRouter(httpiface.RouterConfig{
		PatentHandler: handlers.NewPatentHandler(patentSvc, logger),
		PersonHandler: handlers.NewPersonHandler(personSvc, logger),
		FilterHandler: handlers.NewFilterHandler(filterSvc, logger),
		ExportHandler: handlers.NewExportHandler(exportSvc, logger),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"postgres": conn,
			"redis":    redisClient,
		}, logger),
		Logger:      logger,
		Metrics:     metrics,
		Mode:        cfg.Server.Mode,
		MetricsPath: cfg.Metrics.Path,
	})

	server := httpiface.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return server.Stop(context.Background())
}
