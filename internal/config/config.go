// Package config manages the application configuration.
//
// Values are layered, lowest precedence first:
//   - defaults baked into Default()
//   - an optional YAML file (path passed to Load or set in AURELIA_CONFIG)
//   - environment variables (a `.env` file is autoloaded first)
//
// The well-known deployment variables PORT, DATABASE_URL and DATABASE_NAME
// are read without a prefix. Every other setting uses the AURELIA_ prefix,
// with a double underscore as the nesting separator:
//
//	AURELIA_REDIS__ADDRESS=localhost:6379 -> redis.address
//
// A missing database or redis address is not an error: the service degrades
// to its static fallbacks instead of refusing to start.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before we read it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of every namespaced environment variable.
	EnvPrefix = "AURELIA_"

	// ConfigFileEnv names the variable holding an optional YAML config path.
	ConfigFileEnv = "AURELIA_CONFIG"

	// ServiceName identifies this service in logs, traces and APM dashboards.
	ServiceName = "aurelia-api"
)

// envAliases maps un-prefixed deployment variables onto koanf keys.
var envAliases = map[string]string{
	"PORT":          "server.port",
	"DATABASE_URL":  "database.url",
	"DATABASE_NAME": "database.name",
}

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags name the key each field is read from.
// The `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer so an explicitly nulled block in a config file
// can still be replaced by DefaultObservabilityConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database"`
	Redis         RedisConfig          `koanf:"redis"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`
}

// DatabaseConfig describes the document store.
//
// URL selects the backend by scheme (mongodb, mongodb+srv, postgres,
// postgresql, memory). Name is the Mongo database name; the Postgres backend
// takes its database from the URL.
type DatabaseConfig struct {
	URL                string `koanf:"url"`
	Name               string `koanf:"name"`
	MaxConns           int32  `koanf:"max_conns" validate:"min=0"`
	ConnectTimeout     int    `koanf:"connect_timeout" validate:"min=1"`
	ProjectsCollection string `koanf:"projects_collection" validate:"required"`
	InquiryCollection  string `koanf:"inquiry_collection" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port"; empty disables redis and the notification queue.
type RedisConfig struct {
	Address  string `koanf:"address" validate:"omitempty,hostname_port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"min=0"`
}

// IntegrationConfig stores third-party credentials.
//
// Inquiry notifications are only sent when ResendAPIKey and NotifyEmail
// are both set (and redis is configured).
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	NotifyEmail  string `koanf:"notify_email" validate:"omitempty,email"`
	FromEmail    string `koanf:"from_email" validate:"required"`
}

// Default returns the baseline configuration every source is layered onto.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			MaxConns:           10,
			ConnectTimeout:     5,
			ProjectsCollection: "project",
			InquiryCollection:  "inquiry",
		},
		Integration: IntegrationConfig{
			FromEmail: "Aurelia Interiors <onboarding@resend.dev>",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey converts an environment variable name into a koanf key.
// It returns "" for variables this service does not own, which tells the
// koanf env provider to skip them.
func envKey(name string) string {
	if key, ok := envAliases[name]; ok {
		return key
	}
	if !strings.HasPrefix(name, EnvPrefix) || name == ConfigFileEnv {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Load builds a Config from defaults, an optional YAML file and the
// environment, then validates it.
//
// path may be empty; in that case AURELIA_CONFIG is consulted.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// An empty prefix hands every variable to envKey, which filters them.
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	// Unmarshal onto the defaults: keys that no source set keep their default.
	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finalize injects derived values and validates the whole tree.
func (c *Config) finalize() error {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config so
	// telemetry is labelled consistently.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}
	return nil
}

// HasDatabaseURL reports whether DATABASE_URL (or database.url) was provided.
func (c *Config) HasDatabaseURL() bool {
	return c.Database.URL != ""
}

// HasDatabaseName reports whether DATABASE_NAME (or database.name) was provided.
func (c *Config) HasDatabaseName() bool {
	return c.Database.Name != ""
}

// NotificationsEnabled reports whether inquiry e-mails can be delivered.
func (c *Config) NotificationsEnabled() bool {
	return c.Redis.Address != "" && c.Integration.ResendAPIKey != "" && c.Integration.NotifyEmail != ""
}
