package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// MaxPageSize is the largest page size the Upscale search endpoints accept
const MaxPageSize = 50

// Sink types
const (
	SinkSinger   = "singer"
	SinkPostgres = "postgres"
	SinkRedis    = "redis"
)

// Config holds all configuration for the tap
type Config struct {
	TenantID       string `mapstructure:"tenant_id"`
	APIScheme      string `mapstructure:"api_scheme"`
	APIBaseURL     string `mapstructure:"api_base_url"`
	APIEditionID   string `mapstructure:"api_edition_id"`
	APISellingTree string `mapstructure:"api_selling_tree"`
	UIScheme       string `mapstructure:"ui_scheme"`
	UIBaseURL      string `mapstructure:"ui_base_url"`
	LogLevel       string `mapstructure:"log_level"`

	HTTP     HTTPConfig     `mapstructure:"http"`
	Sink     SinkConfig     `mapstructure:"sink"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// HTTPConfig holds Upscale API transport settings
type HTTPConfig struct {
	Timeout              int    `mapstructure:"timeout"`
	PageSize             int    `mapstructure:"page_size"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	InsecureSkipVerify   bool   `mapstructure:"insecure_skip_verify"`
	Proxy                string `mapstructure:"proxy"`
	UserAgent            string `mapstructure:"user_agent"`
}

// RequestTimeout is the deadline applied to every outbound request
func (c HTTPConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SinkConfig selects where records are written
type SinkConfig struct {
	Type string `mapstructure:"type"`
}

// DatabaseConfig holds database configuration for the postgres sink
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Table    string `mapstructure:"table"`
}

// DSN returns the pgx connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// RedisConfig holds Redis connection details for the redis sink
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	Database     int    `mapstructure:"database"`
	StreamPrefix string `mapstructure:"stream_prefix"`
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the JSON config file at path with TAP_* environment overrides
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	setDefaults(v)

	v.SetEnvPrefix("tap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range append(requiredKeys, "api_edition_id") {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports every missing required key and every out-of-range value
func (c *Config) Validate() error {
	required := map[string]string{
		"tenant_id":        c.TenantID,
		"api_scheme":       c.APIScheme,
		"api_base_url":     c.APIBaseURL,
		"api_selling_tree": c.APISellingTree,
		"ui_scheme":        c.UIScheme,
		"ui_base_url":      c.UIBaseURL,
	}

	var missing []string
	for _, key := range requiredKeys {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config keys: %s", strings.Join(missing, ", "))
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %d", c.HTTP.Timeout)
	}
	if c.HTTP.PageSize <= 0 {
		return fmt.Errorf("http.page_size must be positive, got %d", c.HTTP.PageSize)
	}
	if c.HTTP.PageSize > MaxPageSize {
		log.Warnf("http.page_size %d exceeds the API maximum, using %d", c.HTTP.PageSize, MaxPageSize)
		c.HTTP.PageSize = MaxPageSize
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}

	switch c.Sink.Type {
	case SinkSinger, SinkPostgres, SinkRedis:
	default:
		return fmt.Errorf("unknown sink.type %q", c.Sink.Type)
	}

	return nil
}

var requiredKeys = []string{
	"tenant_id",
	"api_scheme",
	"api_base_url",
	"api_selling_tree",
	"ui_scheme",
	"ui_base_url",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("http.timeout", 10)
	v.SetDefault("http.page_size", MaxPageSize)
	v.SetDefault("http.max_requests_per_second", 0)
	v.SetDefault("http.insecure_skip_verify", true)
	v.SetDefault("http.proxy", "")
	v.SetDefault("http.user_agent", "tap-sap-upscale")

	v.SetDefault("sink.type", SinkSinger)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "upscale")
	v.SetDefault("database.user", "upscale_user")
	v.SetDefault("database.password", "")
	v.SetDefault("database.table", "tap_records")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.stream_prefix", "upscale:stream:")
}
