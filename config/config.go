package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the runtime configuration of the dashboard.
type Config struct {
	Port      string
	PublicDir string
	LogLevel  string

	Database DatabaseConfig
	Auth     AuthConfig
	Fetch    FetchConfig
	Redis    RedisConfig
	S3       S3Config
	Kafka    KafkaConfig
}

// DatabaseConfig selects and locates the article store.
type DatabaseConfig struct {
	Driver string // sqlite or postgres
	Path   string
	URL    string
}

// AuthConfig holds basic-auth credentials. Empty credentials disable auth.
type AuthConfig struct {
	User     string
	Password string
}

// Enabled reports whether both credentials are set.
func (a AuthConfig) Enabled() bool {
	return a.User != "" && a.Password != ""
}

// FetchConfig tunes the ingestion pipeline and its triggers.
type FetchConfig struct {
	Schedule      string
	StartupDelay  time.Duration
	SourceDelay   time.Duration
	MaxItems      int
	HostInterval  time.Duration
	RespectRobots bool
}

// RedisConfig enables the shared run lock when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// S3Config enables the article archive when Bucket is set.
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Profile      string
	UsePathStyle bool
}

// KafkaConfig enables fetch triggers and article events when Brokers is set.
type KafkaConfig struct {
	Brokers      []string
	TriggerTopic string
	EventsTopic  string
	GroupID      string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("PUBLIC_DIR", "public")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "news.db")
	v.SetDefault("DATABASE_URL", "")

	v.SetDefault("AUTH_USER", "")
	v.SetDefault("AUTH_PASS", "")

	v.SetDefault("FETCH_SCHEDULE", DefaultSchedule)
	v.SetDefault("STARTUP_FETCH_DELAY", DefaultStartupDelay)
	v.SetDefault("SOURCE_DELAY", DefaultSourceDelay)
	v.SetDefault("MAX_ITEMS_PER_FEED", DefaultMaxItems)
	v.SetDefault("HOST_INTERVAL", 500*time.Millisecond)
	v.SetDefault("RESPECT_ROBOTS", true)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RUN_LOCK_TTL", DefaultRunLockTTL)

	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_PREFIX", "")
	v.SetDefault("S3_REGION", "")
	v.SetDefault("S3_PROFILE", "")
	v.SetDefault("S3_USE_PATH_STYLE", false)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TRIGGER_TOPIC", "newsdash.fetch-requests")
	v.SetDefault("KAFKA_EVENTS_TOPIC", "newsdash.articles")
	v.SetDefault("KAFKA_GROUP_ID", "newsdash")
}

// Load reads .env (if present), the optional config file and the environment.
// An empty configFile looks for newsdash.yaml in the working directory.
func Load(configFile string) (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("newsdash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:      v.GetString("PORT"),
		PublicDir: v.GetString("PUBLIC_DIR"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			Path:   v.GetString("DB_PATH"),
			URL:    v.GetString("DATABASE_URL"),
		},
		Auth: AuthConfig{
			User:     v.GetString("AUTH_USER"),
			Password: v.GetString("AUTH_PASS"),
		},
		Fetch: FetchConfig{
			Schedule:      v.GetString("FETCH_SCHEDULE"),
			StartupDelay:  v.GetDuration("STARTUP_FETCH_DELAY"),
			SourceDelay:   v.GetDuration("SOURCE_DELAY"),
			MaxItems:      v.GetInt("MAX_ITEMS_PER_FEED"),
			HostInterval:  v.GetDuration("HOST_INTERVAL"),
			RespectRobots: v.GetBool("RESPECT_ROBOTS"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			LockTTL:  v.GetDuration("RUN_LOCK_TTL"),
		},
		S3: S3Config{
			Bucket:       strings.TrimSpace(v.GetString("S3_BUCKET")),
			Prefix:       normalizePrefix(v.GetString("S3_PREFIX")),
			Region:       strings.TrimSpace(v.GetString("S3_REGION")),
			Profile:      strings.TrimSpace(v.GetString("S3_PROFILE")),
			UsePathStyle: v.GetBool("S3_USE_PATH_STYLE"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(v.GetString("KAFKA_BROKERS")),
			TriggerTopic: v.GetString("KAFKA_TRIGGER_TOPIC"),
			EventsTopic:  v.GetString("KAFKA_EVENTS_TOPIC"),
			GroupID:      v.GetString("KAFKA_GROUP_ID"),
		},
	}
}

// Validate rejects configurations the services cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Fetch.MaxItems <= 0 {
		return fmt.Errorf("MAX_ITEMS_PER_FEED must be > 0, got %d", c.Fetch.MaxItems)
	}
	if c.Fetch.SourceDelay < 0 || c.Fetch.HostInterval < 0 || c.Fetch.StartupDelay < 0 {
		return errors.New("fetch delays must not be negative")
	}
	return nil
}

// NewLogger builds the process logger from LOG_LEVEL.
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	return strings.Trim(prefix, "/") + "/"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
