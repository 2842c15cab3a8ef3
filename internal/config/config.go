package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Supported DB_DRIVER values
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported SESSION_STORE values
const (
	SessionStoreRedis  = "redis"
	SessionStoreCookie = "cookie"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML file.
const ConfigFileEnv = "TACTACHE_CONFIG"

type Config struct {
	Addr    string `mapstructure:"addr"`
	GinMode string `mapstructure:"gin_mode"`

	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	SQLitePath string `mapstructure:"sqlite_path"`

	SessionStore  string `mapstructure:"session_store"`
	SessionSecret string `mapstructure:"session_secret"`
	SessionMaxAge int    `mapstructure:"session_max_age"`
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`

	Timezone           string `mapstructure:"timezone"`
	TaskVisibility     string `mapstructure:"task_visibility"`
	LockCompletedTasks bool   `mapstructure:"lock_completed_tasks"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"addr":                 ":8080",
	"gin_mode":             "debug",
	"db_driver":            DriverMySQL,
	"db_host":              "localhost",
	"db_port":              "3306",
	"db_user":              "taskuser",
	"db_password":          "taskpassword",
	"db_name":              "task_manager",
	"sqlite_path":          "data/tactache.db",
	"session_store":        SessionStoreRedis,
	"session_secret":       "default-secret-key-change-me",
	"session_max_age":      86400 * 7,
	"redis_host":           "localhost",
	"redis_port":           "6379",
	"timezone":             "UTC",
	"task_visibility":      "all",
	"lock_completed_tasks": false,
	"log_level":            "info",
	"log_format":           "text",
}

// Load reads defaults, then the optional YAML file at path (or at
// $TACTACHE_CONFIG when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString(ConfigFileEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	cfg.SessionStore = strings.ToLower(cfg.SessionStore)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported db_driver %q", c.DBDriver))
	}

	switch c.SessionStore {
	case SessionStoreRedis, SessionStoreCookie:
	default:
		errs = append(errs, fmt.Errorf("unsupported session_store %q", c.SessionStore))
	}

	switch c.TaskVisibility {
	case "all", "involved":
	default:
		errs = append(errs, fmt.Errorf("unsupported task_visibility %q", c.TaskVisibility))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}

	if c.SessionSecret == "" {
		errs = append(errs, errors.New("session_secret must not be empty"))
	}

	return errors.Join(errs...)
}

// Location returns the configured time zone. Call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// RedisAddr returns host:port of the session Redis.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
