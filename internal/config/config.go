// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. Read once at startup;
// immutable thereafter.
type Config struct {
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Compare CompareConfig `yaml:"compare" mapstructure:"compare"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SourcesConfig points at the per-source spec file.
type SourcesConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// CacheConfig configures the in-memory result cache.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
}

// TTL returns the cache time-to-live.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// RetryConfig configures per-source fetch retries.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMS int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMS     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// InitialBackoff returns the base retry delay.
func (c RetryConfig) InitialBackoff() time.Duration {
	return time.Duration(c.InitialBackoffMS) * time.Millisecond
}

// MaxBackoff returns the retry delay cap.
func (c RetryConfig) MaxBackoff() time.Duration {
	return time.Duration(c.MaxBackoffMS) * time.Millisecond
}

// FetchConfig configures the fetch orchestration.
type FetchConfig struct {
	SourceTimeoutSecs int `yaml:"source_timeout_secs" mapstructure:"source_timeout_secs"`
	MaxConcurrent     int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// SourceTimeout bounds one source's whole pipeline, retries included.
func (c FetchConfig) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutSecs) * time.Second
}

// CompareConfig configures the matching step and the overall deadline.
type CompareConfig struct {
	Left        string `yaml:"left" mapstructure:"left"`
	Right       string `yaml:"right" mapstructure:"right"`
	Threshold   int    `yaml:"threshold" mapstructure:"threshold"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the overall deadline for one comparison query.
func (c CompareConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PRICEPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.file", "sources.yaml")
	v.SetDefault("cache.ttl_minutes", 5)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 1000)
	v.SetDefault("retry.max_backoff_ms", 30000)
	v.SetDefault("fetch.source_timeout_secs", 60)
	v.SetDefault("fetch.max_concurrent", 4)
	v.SetDefault("compare.left", "flipkart")
	v.SetDefault("compare.right", "croma")
	v.SetDefault("compare.threshold", 80)
	v.SetDefault("compare.timeout_secs", 120)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
