// Package config provides application configuration loaded from environment
// variables, an optional .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Log      LogConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds connection settings. Driver is "postgres" or "sqlite";
// Path is only used by sqlite.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env          string
	Migrations   bool
	FixturesPath string
}

// LogConfig selects the log level and output format ("json" or "console").
type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig configures access token verification. Secret enables HS256
// tokens (tests and local development); otherwise RS256 keys are fetched
// from JWKSURL, which defaults to <Issuer>/.well-known/jwks.json.
type AuthConfig struct {
	Issuer   string
	Audience string
	JWKSURL  string
	Secret   string
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return d.Path
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// JWKSEndpoint returns JWKSURL or the issuer's well-known location.
func (a AuthConfig) JWKSEndpoint() string {
	if a.JWKSURL != "" {
		return a.JWKSURL
	}
	if a.Issuer == "" {
		return ""
	}
	return strings.TrimSuffix(a.Issuer, "/") + "/.well-known/jwks.json"
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Option customizes Load.
type Option func(*options)

type options struct {
	envFile    string
	configFile string
}

// WithEnvFile loads variables from path before reading the environment.
// A missing file is not an error.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// WithFile reads a YAML config file; environment variables still win.
func WithFile(path string) Option {
	return func(o *options) { o.configFile = path }
}

// Load reads configuration. It uses sensible defaults for local development.
func Load(opts ...Option) (*Config, error) {
	o := options{envFile: ".env"}
	for _, opt := range opts {
		opt(&o)
	}

	if o.envFile != "" {
		_ = godotenv.Load(o.envFile)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", o.configFile, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("port"),
			ReadTimeout:  v.GetDuration("server_read_timeout"),
			WriteTimeout: v.GetDuration("server_write_timeout"),
			IdleTimeout:  v.GetDuration("server_idle_timeout"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("db_driver")),
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
			Path:     v.GetString("db_path"),
		},
		App: AppConfig{
			Env:          v.GetString("app_env"),
			Migrations:   v.GetBool("migrations"),
			FixturesPath: v.GetString("fixtures_path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Auth: AuthConfig{
			Issuer:   v.GetString("auth_issuer"),
			Audience: v.GetString("auth_audience"),
			JWKSURL:  v.GetString("auth_jwks_url"),
			Secret:   v.GetString("auth_secret"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("server_read_timeout", 15*time.Second)
	v.SetDefault("server_write_timeout", 15*time.Second)
	v.SetDefault("server_idle_timeout", 60*time.Second)

	v.SetDefault("db_driver", DriverPostgres)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "library")
	v.SetDefault("db_password", "library")
	v.SetDefault("db_name", "library")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_path", "library.db")

	v.SetDefault("app_env", "development")
	v.SetDefault("migrations", true)
	v.SetDefault("fixtures_path", "data/fixtures")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("config: unknown db driver %q", c.Database.Driver))
	}
	if c.Auth.Secret == "" && c.Auth.JWKSEndpoint() == "" {
		errs = append(errs, errors.New("config: set AUTH_SECRET or AUTH_ISSUER/AUTH_JWKS_URL"))
	}
	return errors.Join(errs...)
}
