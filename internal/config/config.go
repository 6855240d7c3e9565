package config

import (
	"fmt"
	"net/url"

	"github.com/nexuslab/capture/internal/configloader"
)

// Default configuration values.
const (
	defaultServiceName  = "capture"
	defaultServicePort  = 8097
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"
	defaultLoggingFmt   = "json"

	defaultDBHost    = "localhost"
	defaultDBPort    = 5432
	defaultDBName    = "capture"
	defaultDBUser    = "postgres"
	defaultDBSSLMode = "disable"

	defaultStorageBucket = "nexus-media"

	defaultRedisAddress = "localhost:6379"

	defaultPreviewBaseURL = "https://image.thum.io/get/width/1280/crop/1024/noanimate/wait/2"

	defaultAIModel = "claude-3-5-haiku-latest"

	defaultFFmpegPath = "ffmpeg"
)

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Preview  PreviewConfig  `yaml:"preview"`
	AI       AIConfig       `yaml:"ai"`
	Media    MediaConfig    `yaml:"media"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"CAPTURE_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"    yaml:"debug"`

	// AllowedOrigins restricts CORS; empty allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_CAPTURE_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_CAPTURE_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_CAPTURE_USER"     yaml:"user"`
	Password string `env:"POSTGRES_CAPTURE_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_CAPTURE_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_CAPTURE_SSLMODE"  yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// MigrateURL returns the postgres:// URL form golang-migrate expects.
func (d *DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, url.QueryEscape(d.Password), d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// StorageConfig holds object storage (MinIO/S3-compatible) configuration.
type StorageConfig struct {
	Endpoint  string `env:"STORAGE_ENDPOINT"   yaml:"endpoint"`
	AccessKey string `env:"STORAGE_ACCESS_KEY" yaml:"access_key"`
	SecretKey string `env:"STORAGE_SECRET_KEY" yaml:"secret_key"`
	Bucket    string `env:"STORAGE_BUCKET"     yaml:"bucket"`
	UseSSL    bool   `env:"STORAGE_USE_SSL"    yaml:"use_ssl"`
	// PublicURL is the externally reachable base URL for stored objects,
	// including the bucket segment (e.g. "https://media.example.com/nexus-media").
	PublicURL string `env:"STORAGE_PUBLIC_URL" yaml:"public_url"`
}

// RedisConfig holds Redis connection configuration for the settings store.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"  yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB"       yaml:"db"`
}

// PreviewConfig holds the website preview image service configuration.
type PreviewConfig struct {
	BaseURL string `env:"PREVIEW_BASE_URL" yaml:"base_url"`
}

// AIConfig holds the suggestion service configuration.
type AIConfig struct {
	APIKey string `env:"ANTHROPIC_API_KEY" yaml:"api_key"`
	Model  string `env:"AI_MODEL"          yaml:"model"`
}

// MediaConfig holds capture-path media processing configuration.
type MediaConfig struct {
	// FFmpegPath is the ffmpeg executable used for the single video
	// compression pass. Compression is skipped when the binary is missing.
	FFmpegPath string `env:"FFMPEG_PATH" yaml:"ffmpeg_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return configloader.LoadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setStorageDefaults(&cfg.Storage)
	setRedisDefaults(&cfg.Redis)
	setPreviewDefaults(&cfg.Preview)
	setAIDefaults(&cfg.AI)
	setMediaDefaults(&cfg.Media)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
	if svc.Port == 0 {
		svc.Port = defaultServicePort
	}
}

func setDatabaseDefaults(db *DatabaseConfig) {
	if db.Host == "" {
		db.Host = defaultDBHost
	}
	if db.Port == 0 {
		db.Port = defaultDBPort
	}
	if db.User == "" {
		db.User = defaultDBUser
	}
	if db.Database == "" {
		db.Database = defaultDBName
	}
	if db.SSLMode == "" {
		db.SSLMode = defaultDBSSLMode
	}
}

func setStorageDefaults(st *StorageConfig) {
	if st.Bucket == "" {
		st.Bucket = defaultStorageBucket
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.Address == "" {
		r.Address = defaultRedisAddress
	}
}

func setPreviewDefaults(p *PreviewConfig) {
	if p.BaseURL == "" {
		p.BaseURL = defaultPreviewBaseURL
	}
}

func setAIDefaults(ai *AIConfig) {
	if ai.Model == "" {
		ai.Model = defaultAIModel
	}
}

func setMediaDefaults(m *MediaConfig) {
	if m.FFmpegPath == "" {
		m.FFmpegPath = defaultFFmpegPath
	}
}

func setLoggingDefaults(log *LoggingConfig) {
	if log.Level == "" {
		log.Level = defaultLoggingLevel
	}
	if log.Format == "" {
		log.Format = defaultLoggingFmt
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := configloader.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := configloader.ValidateRequired("storage.endpoint", c.Storage.Endpoint); err != nil {
		return err
	}
	if err := configloader.ValidateRequired("storage.public_url", c.Storage.PublicURL); err != nil {
		return err
	}
	return nil
}
