// Package config loads goalnudge settings from a TOML file and the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all goalnudge configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	LLM       LLMConfig       `toml:"llm"`
	SMS       SMSConfig       `toml:"sms"`
	Notify    NotifyConfig    `toml:"notify"`
	Knowledge KnowledgeConfig `toml:"knowledge"`
	Sentry    SentryConfig    `toml:"sentry"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	HTTPAddr        string        `toml:"http_addr"`
	GRPCAddr        string        `toml:"grpc_addr"`
	APIToken        string        `toml:"api_token"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// DatabaseConfig selects and configures the store.
type DatabaseConfig struct {
	Driver          string        `toml:"driver"`
	URL             string        `toml:"url,omitempty"`
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	Name            string        `toml:"name"`
	User            string        `toml:"user"`
	Password        string        `toml:"password,omitempty"`
	SSLMode         string        `toml:"sslmode"`
	SQLitePath      string        `toml:"sqlite_path"`
	ConnectAttempts int           `toml:"connect_attempts"`
	ConnectWait     time.Duration `toml:"connect_wait"`
	MigrationsDir   string        `toml:"migrations_dir"`
}

// LLMConfig holds the Azure OpenAI settings.
type LLMConfig struct {
	Endpoint    string        `toml:"endpoint"`
	APIKey      string        `toml:"api_key,omitempty"`
	Deployment  string        `toml:"deployment"`
	APIVersion  string        `toml:"api_version"`
	Timeout     time.Duration `toml:"timeout"`
	MaxRetries  int           `toml:"max_retries"`
	AdvisorName string        `toml:"advisor_name"`
}

// SMSConfig holds the Twilio settings.
type SMSConfig struct {
	AccountSID          string        `toml:"account_sid"`
	AuthToken           string        `toml:"auth_token,omitempty"`
	MessagingServiceSID string        `toml:"messaging_service_sid"`
	BaseURL             string        `toml:"base_url,omitempty"`
	Timeout             time.Duration `toml:"timeout"`
	MaxRetries          int           `toml:"max_retries"`
	PhoneNumbers        []string      `toml:"phone_numbers"`
}

// NotifyConfig holds the notification policy.
type NotifyConfig struct {
	When string `toml:"when"`
}

// KnowledgeConfig holds the chat retrieval settings.
type KnowledgeConfig struct {
	TopK int `toml:"top_k"`
}

// SentryConfig holds error reporting settings.
type SentryConfig struct {
	DSN              string  `toml:"dsn,omitempty"`
	Environment      string  `toml:"environment"`
	TracesSampleRate float64 `toml:"traces_sample_rate"`
}

// LogConfig holds logging settings. With OTLP set, records are exported to an OpenTelemetry
// collector addressed by the OTEL_EXPORTER_OTLP_* variables instead of written as JSON.
type LogConfig struct {
	Level       string `toml:"level"`
	OTLP        bool   `toml:"otlp"`
	ServiceName string `toml:"service_name"`
}

// Enabled reports whether language generation is configured.
func (c LLMConfig) Enabled() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.Deployment != ""
}

// Enabled reports whether SMS delivery is configured.
func (c SMSConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.MessagingServiceSID != ""
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// MigrateURL returns the postgres URL used by the migrate command.
func (c DatabaseConfig) MigrateURL() string {
	if c.URL != "" && strings.Contains(c.URL, "://") {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			HTTPAddr:        ":8000",
			GRPCAddr:        ":8080",
			APIToken:        "dev-token",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			Name:            "investment_db",
			User:            "user",
			Password:        "password",
			SSLMode:         "disable",
			SQLitePath:      "goalnudge.db",
			ConnectAttempts: 30,
			ConnectWait:     3 * time.Second,
			MigrationsDir:   "migrations",
		},
		LLM: LLMConfig{
			APIVersion:  "2023-05-15",
			Timeout:     30 * time.Second,
			MaxRetries:  2,
			AdvisorName: "Dave",
		},
		SMS: SMSConfig{
			Timeout:    15 * time.Second,
			MaxRetries: 2,
		},
		Knowledge: KnowledgeConfig{
			TopK: 7,
		},
		Sentry: SentryConfig{
			Environment: "development",
		},
		Log: LogConfig{
			Level:       "INFO",
			ServiceName: "goalnudge",
		},
	}
}

// Load reads the config file at path (or $GOALNUDGE_CONFIG when path is empty),
// applies environment overrides and validates the result. A missing file yields defaults.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path, _ = lookup("GOALNUDGE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("HTTP_ADDR", &cfg.Server.HTTPAddr)
	str("GRPC_ADDR", &cfg.Server.GRPCAddr)
	str("API_TOKEN", &cfg.Server.APIToken)

	str("DB_DRIVER", &cfg.Database.Driver)
	str("DB_CONN_STR", &cfg.Database.URL)
	str("DATABASE_URL", &cfg.Database.URL)
	str("DB_HOST", &cfg.Database.Host)
	str("DB_NAME", &cfg.Database.Name)
	str("DB_USER", &cfg.Database.User)
	str("DB_PASSWORD", &cfg.Database.Password)
	str("DB_SSLMODE", &cfg.Database.SSLMode)
	str("SQLITE_PATH", &cfg.Database.SQLitePath)
	if v, ok := lookup("DB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", v, err)
		}
		cfg.Database.Port = port
	}

	str("AZURE_OPENAI_ENDPOINT", &cfg.LLM.Endpoint)
	str("AZURE_OPENAI_KEY", &cfg.LLM.APIKey)
	str("AZURE_OPENAI_DEPLOYMENT", &cfg.LLM.Deployment)
	str("AZURE_OPENAI_VERSION", &cfg.LLM.APIVersion)
	str("ADVISOR_NAME", &cfg.LLM.AdvisorName)

	str("ACCOUNT_SID", &cfg.SMS.AccountSID)
	str("AUTH_TOKEN", &cfg.SMS.AuthToken)
	str("MESSAGING_SERVICE_SID", &cfg.SMS.MessagingServiceSID)

	str("NOTIFY_WHEN", &cfg.Notify.When)
	str("SENTRY_DSN", &cfg.Sentry.DSN)
	str("SENTRY_ENVIRONMENT", &cfg.Sentry.Environment)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("OTEL_SERVICE_NAME", &cfg.Log.ServiceName)
	if v, ok := lookup("OTEL_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid OTEL_ENABLED %q: %w", v, err)
		}
		cfg.Log.OTLP = enabled
	} else if v, ok := lookup("OTEL_EXPORTER_OTLP_ENDPOINT"); ok && v != "" {
		cfg.Log.OTLP = true
	}

	return nil
}

// Validate checks the configuration for values the application cannot run with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q (want %q or %q)", c.Database.Driver, DriverPostgres, DriverSQLite)
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Database.ConnectAttempts < 1 {
		return fmt.Errorf("database.connect_attempts must be at least 1")
	}
	if c.Knowledge.TopK < 1 {
		return fmt.Errorf("knowledge.top_k must be at least 1")
	}
	if strings.TrimSpace(c.Server.APIToken) == "" {
		return fmt.Errorf("server.api_token cannot be empty")
	}

	return nil
}
