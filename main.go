package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/nexuslab/capture/internal/api"
	"github.com/nexuslab/capture/internal/config"
	"github.com/nexuslab/capture/internal/configloader"
	"github.com/nexuslab/capture/internal/handler"
	"github.com/nexuslab/capture/internal/logger"
	"github.com/nexuslab/capture/internal/media"
	"github.com/nexuslab/capture/internal/objectstore"
	"github.com/nexuslab/capture/internal/preview"
	"github.com/nexuslab/capture/internal/repository"
	"github.com/nexuslab/capture/internal/session"
	"github.com/nexuslab/capture/internal/settings"
	"github.com/nexuslab/capture/internal/suggest"

	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	redisClient, err := connectRedis(cfg, log)
	if err != nil {
		log.Error("Failed to connect to Redis", logger.Error(err))
		return 1
	}
	defer func() { _ = redisClient.Close() }()

	return runServer(cfg, log, db, redisClient)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := configloader.Path("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies the PostgreSQL connection.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.String("host", cfg.Database.Host),
		logger.Int("port", cfg.Database.Port),
		logger.String("database", cfg.Database.Database),
	)

	return db, nil
}

// connectRedis opens and verifies the Redis connection for the settings store.
func connectRedis(cfg *config.Config, log logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info("Redis connected", logger.String("address", cfg.Redis.Address))

	return client, nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sqlx.DB, redisClient *redis.Client) int {
	store, err := objectstore.New(cfg.Storage, log)
	if err != nil {
		log.Error("Failed to create object store", logger.Error(err))
		return 1
	}

	previews := preview.NewService(cfg.Preview.BaseURL, log)
	transcoder := media.NewFFmpegCompressor(cfg.Media.FFmpegPath, log)
	normalizer := media.NewNormalizer(previews, transcoder, log)
	repo := repository.NewRepository(db, store, log)
	suggester := suggest.NewClient(cfg.AI.APIKey, cfg.AI.Model, log)
	tagStore := settings.NewStore(redisClient, log)
	sessions := session.NewResolver()

	handlers := handler.NewHandlers(repo, normalizer, suggester, tagStore, previews, sessions, log)
	health := handler.NewHealthHandler(cfg.Service.Version, db)

	server := api.NewServer(cfg, handlers, health, sessions, log)

	log.Info("Capture service starting", logger.Int("port", cfg.Service.Port))

	if err := server.Run(context.Background()); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Capture service exited cleanly")
	return 0
}
