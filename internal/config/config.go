package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	SES       SESConfig
	Gmail     GmailConfig
	Extractor ExtractorConfig
	Trawl     TrawlConfig
	Storage   StorageConfig
	Vocab     VocabConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for the raw email and report archive.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// SESConfig holds anomaly digest email settings.
type SESConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ToAddress   string `mapstructure:"to_address"`
}

// GmailConfig holds Gmail API access settings.
type GmailConfig struct {
	Endpoint      string   `mapstructure:"endpoint"`
	ClientID      string   `mapstructure:"client_id"`
	ClientSecret  string   `mapstructure:"client_secret"`
	RefreshToken  string   `mapstructure:"refresh_token"`
	SenderQueries []string `mapstructure:"sender_queries"`
	TimeoutSecs   int      `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds LLM shipment extractor settings.
type ExtractorConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// TrawlConfig holds pipeline run settings.
type TrawlConfig struct {
	LookbackDays int  `mapstructure:"lookback_days"`
	SkipS3       bool `mapstructure:"skip_s3"`
	SkipXLSX     bool `mapstructure:"skip_xlsx"`
	SkipDB       bool `mapstructure:"skip_db"`
}

// StorageConfig holds local filesystem storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// VocabConfig holds the vocabulary table source.
type VocabConfig struct {
	File string `mapstructure:"file"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the TUNADEX_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TUNADEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "tunadex")
	v.SetDefault("db.password", "tunadex_secret")
	v.SetDefault("db.name", "tunadex_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "tunadex-archive")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// SES defaults
	v.SetDefault("ses.enabled", false)
	v.SetDefault("ses.region", "us-east-1")
	v.SetDefault("ses.from_address", "alerts@tunadex.local")
	v.SetDefault("ses.from_name", "TunaDex")
	v.SetDefault("ses.to_address", "")

	// Gmail defaults
	v.SetDefault("gmail.endpoint", "")
	v.SetDefault("gmail.client_id", "")
	v.SetDefault("gmail.client_secret", "")
	v.SetDefault("gmail.refresh_token", "")
	v.SetDefault("gmail.sender_queries", "from:victor,from:norman")
	v.SetDefault("gmail.timeout_secs", 30)

	// Extractor defaults
	v.SetDefault("extractor.provider", "gemini")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.default_model", "gemini-2.5-flash")
	v.SetDefault("extractor.timeout_secs", 120)

	// Trawl defaults
	v.SetDefault("trawl.lookback_days", 1)
	v.SetDefault("trawl.skip_s3", false)
	v.SetDefault("trawl.skip_xlsx", false)
	v.SetDefault("trawl.skip_db", false)

	// Storage defaults
	v.SetDefault("storage.data_dir", "data")

	// Vocab defaults (empty = built-in tables)
	v.SetDefault("vocab.file", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Comma-separated env values for slice fields
	if len(cfg.Gmail.SenderQueries) == 1 && strings.Contains(cfg.Gmail.SenderQueries[0], ",") {
		cfg.Gmail.SenderQueries = strings.Split(cfg.Gmail.SenderQueries[0], ",")
	}
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
