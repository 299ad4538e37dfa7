// Package config loads settings from defaults, an optional config file,
// .env and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server struct {
		Port            string        `mapstructure:"port"`
		AllowedOrigins  []string      `mapstructure:"allowed_origins"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Database Database `mapstructure:"database"`

	RateLimit struct {
		Window        time.Duration `mapstructure:"window"`
		ReadMax       int           `mapstructure:"read_max"`
		WriteMax      int           `mapstructure:"write_max"`
		APIMax        int           `mapstructure:"api_max"`
		SweepInterval time.Duration `mapstructure:"sweep_interval"`
	} `mapstructure:"ratelimit"`

	MarketData struct {
		BaseURL         string        `mapstructure:"base_url"`
		Timeout         time.Duration `mapstructure:"timeout"`
		SyncConcurrency int           `mapstructure:"sync_concurrency"`
	} `mapstructure:"marketdata"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Recurring struct {
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"recurring"`
}

// Database holds connection settings. Driver "memory" runs without
// PostgreSQL and keeps everything in process.
type Database struct {
	Driver        string        `mapstructure:"driver"`
	Host          string        `mapstructure:"host"`
	Port          string        `mapstructure:"port"`
	User          string        `mapstructure:"user"`
	Password      string        `mapstructure:"password"`
	Name          string        `mapstructure:"name"`
	SSLMode       string        `mapstructure:"sslmode"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	Migrations    bool          `mapstructure:"migrations"`
}

// URL is the postgres connection string understood by pgx and migrate.
func (d Database) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Location resolves the recurring timezone. Empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Recurring.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Recurring.Timezone)
}

// unprefixed environment names still honored for existing deployments
var legacyEnv = map[string]string{
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.name":     "DB_NAME",
	"server.port":       "PORT",
}

// Load builds the configuration. configFile may be empty to search the
// default locations.
func Load(configFile string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.fintrack")
	}

	v.SetEnvPrefix("FINTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "FINTRACK_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "fintrack")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_retries", 30)
	v.SetDefault("database.retry_interval", 2*time.Second)
	v.SetDefault("database.migrations", true)

	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("ratelimit.read_max", 200)
	v.SetDefault("ratelimit.write_max", 50)
	v.SetDefault("ratelimit.api_max", 100)
	v.SetDefault("ratelimit.sweep_interval", 5*time.Minute)

	v.SetDefault("marketdata.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("marketdata.timeout", 10*time.Second)
	v.SetDefault("marketdata.sync_concurrency", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("recurring.timezone", "")
}

func validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("database.driver must be postgres or memory, got: %s", cfg.Database.Driver)
	}
	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'console' or 'json')", cfg.Log.Format)
	}
	if cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("ratelimit.window must be positive")
	}
	if cfg.RateLimit.SweepInterval <= 0 {
		return fmt.Errorf("ratelimit.sweep_interval must be positive")
	}
	if cfg.RateLimit.ReadMax < 1 || cfg.RateLimit.WriteMax < 1 || cfg.RateLimit.APIMax < 1 {
		return fmt.Errorf("rate limit maxima must be at least 1")
	}
	if cfg.MarketData.SyncConcurrency < 1 {
		return fmt.Errorf("marketdata.sync_concurrency must be at least 1, got: %d", cfg.MarketData.SyncConcurrency)
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("recurring.timezone: %w", err)
	}
	return nil
}
