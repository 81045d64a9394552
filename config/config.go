package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string   `mapstructure:"APP_PORT"`
	Env               string   `mapstructure:"ENV"`
	LogLevel          string   `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int      `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    []string `mapstructure:"ALLOWED_ORIGINS"`

	// Solver endpoint.
	SolverURL            string `mapstructure:"SOLVER_URL"`
	SolverTimeoutSeconds int    `mapstructure:"SOLVER_TIMEOUT_SECONDS"`
	SolverTopK           int    `mapstructure:"SOLVER_TOP_K"`

	// Grid and store defaults.
	DefaultMeetingLength int `mapstructure:"DEFAULT_MEETING_LENGTH"`
	GridDayStartMinutes  int `mapstructure:"GRID_DAY_START_MINUTES"`
	GridSlotMinutes      int `mapstructure:"GRID_SLOT_MINUTES"`

	// Redis configuration. An empty address disables the suggestion cache.
	RedisAddr             string `mapstructure:"REDIS_ADDR"`
	RedisPassword         string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB          int    `mapstructure:"REDIS_CACHE_DB"`
	SolverCacheTTLMinutes int    `mapstructure:"SOLVER_CACHE_TTL_MINUTES"`

	// Cron expression for dependency health checks, e.g. "@every 30s".
	HealthCheckSchedule string `mapstructure:"HEALTH_CHECK_SCHEDULE"`

	// IANA zone used for floating iCalendar times, e.g. "Europe/Berlin".
	CalendarTimezone string `mapstructure:"CALENDAR_TIMEZONE"`
}

var AppConfig Config

// LoadConfig reads .env (if any), config.yaml (if any) and the environment
// into AppConfig.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	cfg, err := Load("")
	if err != nil {
		return err
	}
	AppConfig = *cfg
	return nil
}

// Load builds a Config from an explicit file, or from config.yaml in "." or
// "./config" when path is empty. Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8000"})
	v.SetDefault("SOLVER_URL", "http://localhost:8000/call-model")
	v.SetDefault("SOLVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("SOLVER_TOP_K", 0)
	v.SetDefault("DEFAULT_MEETING_LENGTH", 15)
	v.SetDefault("GRID_DAY_START_MINUTES", 0)
	v.SetDefault("GRID_SLOT_MINUTES", 15)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("SOLVER_CACHE_TTL_MINUTES", 10)
	v.SetDefault("CALENDAR_TIMEZONE", "Local")
	v.SetDefault("HEALTH_CHECK_SCHEDULE", "@every 30s")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the grid or the solver client can't work with.
func (c *Config) Validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("config: APP_PORT is required")
	}
	if c.SolverURL == "" {
		return fmt.Errorf("config: SOLVER_URL is required")
	}
	if c.SolverTimeoutSeconds <= 0 {
		return fmt.Errorf("config: SOLVER_TIMEOUT_SECONDS must be positive, got %d", c.SolverTimeoutSeconds)
	}
	if c.SolverTopK < 0 {
		return fmt.Errorf("config: SOLVER_TOP_K must not be negative, got %d", c.SolverTopK)
	}
	if c.MaxRequestsPerMin <= 0 {
		return fmt.Errorf("config: MAX_REQUESTS_PER_MIN must be positive, got %d", c.MaxRequestsPerMin)
	}
	if c.DefaultMeetingLength <= 0 || c.DefaultMeetingLength > 1440 {
		return fmt.Errorf("config: DEFAULT_MEETING_LENGTH must be within 1..1440, got %d", c.DefaultMeetingLength)
	}
	if c.GridSlotMinutes <= 0 || c.GridDayStartMinutes < 0 || c.GridDayStartMinutes >= 1440 ||
		(1440-c.GridDayStartMinutes)%c.GridSlotMinutes != 0 {
		return fmt.Errorf("config: grid of %d-minute rows from minute %d does not tile the day",
			c.GridSlotMinutes, c.GridDayStartMinutes)
	}
	if _, err := cron.ParseStandard(c.HealthCheckSchedule); err != nil {
		return fmt.Errorf("config: HEALTH_CHECK_SCHEDULE: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: CALENDAR_TIMEZONE: %w", err)
	}
	return nil
}

func (c *Config) SolverTimeout() time.Duration {
	return time.Duration(c.SolverTimeoutSeconds) * time.Second
}

func (c *Config) SolverCacheTTL() time.Duration {
	return time.Duration(c.SolverCacheTTLMinutes) * time.Minute
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// Location resolves CALENDAR_TIMEZONE; empty and "Local" mean time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.CalendarTimezone == "" || c.CalendarTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.CalendarTimezone)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
