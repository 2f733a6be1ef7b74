package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Generator GeneratorConfig
	Queue     QueueConfig
	Session   SessionConfig
	Log       LogConfig
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

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// GeneratorConfig holds text-generation service settings.
type GeneratorConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	MaxRetries  int    `mapstructure:"max_retries"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// QueueConfig holds report job worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
	JobTimeoutMins   int `mapstructure:"job_timeout_mins"`
}

// SessionConfig holds the browser session cookie settings.
type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name"`
	MaxAgeSecs int    `mapstructure:"max_age_secs"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the PARGEN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PARGEN")
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
	v.SetDefault("db.user", "pargen")
	v.SetDefault("db.password", "pargen_secret")
	v.SetDefault("db.name", "pargen_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-2")
	v.SetDefault("s3.bucket", "parproject")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Generator defaults
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.model", "gpt-4o-mini")
	v.SetDefault("generator.max_retries", 2)
	v.SetDefault("generator.timeout_secs", 120)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 5)
	v.SetDefault("queue.concurrency", 2)
	v.SetDefault("queue.job_timeout_mins", 30)

	// Session defaults
	v.SetDefault("session.cookie_name", "pargen_session")
	v.SetDefault("session.max_age_secs", 86400)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "PARGEN_SERVER_PORT",
		"server.read_timeout":      "PARGEN_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "PARGEN_SERVER_WRITE_TIMEOUT",
		"server.environment":       "PARGEN_SERVER_ENVIRONMENT",
		"db.host":                  "PARGEN_DB_HOST",
		"db.port":                  "PARGEN_DB_PORT",
		"db.user":                  "PARGEN_DB_USER",
		"db.password":              "PARGEN_DB_PASSWORD",
		"db.name":                  "PARGEN_DB_NAME",
		"db.sslmode":               "PARGEN_DB_SSLMODE",
		"db.max_open":              "PARGEN_DB_MAX_OPEN",
		"db.max_idle":              "PARGEN_DB_MAX_IDLE",
		"s3.region":                "PARGEN_S3_REGION",
		"s3.bucket":                "PARGEN_S3_BUCKET",
		"s3.endpoint":              "PARGEN_S3_ENDPOINT",
		"s3.access_key":            "PARGEN_S3_ACCESS_KEY",
		"s3.secret_key":            "PARGEN_S3_SECRET_KEY",
		"s3.max_file_size_mb":      "PARGEN_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":        "PARGEN_S3_PRESIGN_EXPIRY",
		"generator.api_key":        "PARGEN_GENERATOR_API_KEY",
		"generator.model":          "PARGEN_GENERATOR_MODEL",
		"generator.max_retries":    "PARGEN_GENERATOR_MAX_RETRIES",
		"generator.timeout_secs":   "PARGEN_GENERATOR_TIMEOUT_SECS",
		"queue.poll_interval_secs": "PARGEN_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":        "PARGEN_QUEUE_CONCURRENCY",
		"queue.job_timeout_mins":   "PARGEN_QUEUE_JOB_TIMEOUT_MINS",
		"session.cookie_name":      "PARGEN_SESSION_COOKIE_NAME",
		"session.max_age_secs":     "PARGEN_SESSION_MAX_AGE_SECS",
		"log.level":                "PARGEN_LOG_LEVEL",
		"log.format":               "PARGEN_LOG_FORMAT",
		"cors.allowed_origins":     "PARGEN_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if PARGEN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PARGEN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Generator = GeneratorConfig{
		APIKey:      v.GetString("generator.api_key"),
		Model:       v.GetString("generator.model"),
		MaxRetries:  v.GetInt("generator.max_retries"),
		TimeoutSecs: v.GetInt("generator.timeout_secs"),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		Concurrency:      v.GetInt("queue.concurrency"),
		JobTimeoutMins:   v.GetInt("queue.job_timeout_mins"),
	}
	cfg.Session = SessionConfig{
		CookieName: v.GetString("session.cookie_name"),
		MaxAgeSecs: v.GetInt("session.max_age_secs"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
