package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Log       LogConfig
	Cache     CacheConfig
	Store     StoreConfig
	Catalog   CatalogConfig
	Telemetry TelemetryConfig
	MQTT      MQTTConfig
	Donations DonationConfig
	Guide     GuideConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"micropantry-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	TimeZone    string `envconfig:"APP_TIMEZONE" default:"UTC"` // used for minute-precision labels
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT"` // console or json; empty picks by APP_ENV
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Type       string        `envconfig:"CACHE_TYPE" default:"memory"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	RedisHost      string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort      int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB        int    `envconfig:"REDIS_DB" default:"0"`
	RedisKeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"micropantry"`
}

// StoreConfig holds the wishlist, donation and telemetry store settings.
type StoreConfig struct {
	Type string `envconfig:"STORE_TYPE" default:"sqlite"` // sqlite, mysql, postgres or mongodb
	Path string `envconfig:"STORE_PATH" default:"./data/micropantry.db"`
	// MySQL / PostgreSQL settings
	Host     string `envconfig:"STORE_HOST" default:"localhost"`
	Port     int    `envconfig:"STORE_PORT" default:"0"`
	Name     string `envconfig:"STORE_NAME" default:"micropantry"`
	User     string `envconfig:"STORE_USER" default:""`
	Password string `envconfig:"STORE_PASS" default:""`
	SSLMode  string `envconfig:"STORE_SSLMODE" default:"disable"`
	// MongoDB settings
	MongoURI      string `envconfig:"MONGODB_URI" default:""`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"micropantry"`

	MaxOpenConns int `envconfig:"STORE_MAX_OPEN_CONNS" default:"10"`
}

// CatalogConfig holds the pantry catalog source settings.
type CatalogConfig struct {
	URL     string        `envconfig:"CATALOG_URL" default:""`
	File    string        `envconfig:"CATALOG_FILE" default:""`
	TTL     time.Duration `envconfig:"CATALOG_TTL" default:"5m"`
	Timeout time.Duration `envconfig:"CATALOG_TIMEOUT" default:"10s"`
}

// TelemetryConfig holds the telemetry history source settings.
type TelemetryConfig struct {
	Source      string        `envconfig:"TELEMETRY_SOURCE" default:"store"` // http or store
	BaseURL     string        `envconfig:"TELEMETRY_BASE_URL" default:""`
	HistoryPath string        `envconfig:"TELEMETRY_HISTORY_PATH" default:"/api/telemetry/history"`
	Timeout     time.Duration `envconfig:"TELEMETRY_TIMEOUT" default:"10s"`
	Limit       int           `envconfig:"TELEMETRY_LIMIT" default:"500"`
	Retention   time.Duration `envconfig:"TELEMETRY_RETENTION" default:"720h"`
}

// MQTTConfig holds the sensor ingest settings. Ingest is off when Broker is empty.
type MQTTConfig struct {
	Broker        string        `envconfig:"MQTT_BROKER" default:""`
	ClientID      string        `envconfig:"MQTT_CLIENT_ID" default:"micropantry-ingest"`
	Username      string        `envconfig:"MQTT_USERNAME" default:""`
	Password      string        `envconfig:"MQTT_PASSWORD" default:""`
	Topic         string        `envconfig:"MQTT_TOPIC" default:"pantries/+/telemetry"`
	QoS           byte          `envconfig:"MQTT_QOS" default:"1"`
	BufferSize    int           `envconfig:"MQTT_BUFFER_SIZE" default:"1000"`
	BatchSize     int           `envconfig:"MQTT_BATCH_SIZE" default:"100"`
	FlushInterval time.Duration `envconfig:"MQTT_FLUSH_INTERVAL" default:"2s"`
}

// DonationConfig holds donation log settings.
type DonationConfig struct {
	Window          time.Duration `envconfig:"DONATION_WINDOW" default:"24h"`
	DefaultPageSize int           `envconfig:"DONATION_PAGE_SIZE" default:"5"`
	MaxPageSize     int           `envconfig:"DONATION_MAX_PAGE_SIZE" default:"50"`
	Retention       time.Duration `envconfig:"DONATION_RETENTION" default:"720h"`
	CleanupInterval time.Duration `envconfig:"RETENTION_INTERVAL" default:"1h"`
}

// GuideConfig holds the donation guide settings.
type GuideConfig struct {
	File string `envconfig:"GUIDE_FILE" default:""` // empty uses the built-in guide
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresDSN returns the PostgreSQL connection string.
func (s *StoreConfig) PostgresDSN() string {
	port := s.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		s.User, s.Password, s.Host, port, s.Name, s.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (s *StoreConfig) MySQLDSN() string {
	port := s.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true",
		s.User, s.Password, s.Host, port, s.Name)
}

// Location resolves the configured time zone.
func (a *AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(a.TimeZone)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Store.Type {
	case "sqlite", "mysql", "postgres", "mongodb":
	default:
		return fmt.Errorf("unknown STORE_TYPE %q", c.Store.Type)
	}
	if c.Store.Type == "mongodb" && c.Store.MongoURI == "" {
		return fmt.Errorf("MONGODB_URI is required when STORE_TYPE=mongodb")
	}
	switch c.Cache.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown CACHE_TYPE %q", c.Cache.Type)
	}
	switch c.Telemetry.Source {
	case "http":
		if c.Telemetry.BaseURL == "" {
			return fmt.Errorf("TELEMETRY_BASE_URL is required when TELEMETRY_SOURCE=http")
		}
	case "store":
	default:
		return fmt.Errorf("unknown TELEMETRY_SOURCE %q", c.Telemetry.Source)
	}
	if c.Catalog.URL == "" && c.Catalog.File == "" {
		return fmt.Errorf("one of CATALOG_URL or CATALOG_FILE is required")
	}
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
		if cfg.App.IsDevelopment() {
			cfg.Log.Format = "console"
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
