package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	PolicyAPI   = "api"
	PolicyAdmin = "admin"
	PolicyAuth  = "auth"
)

var (
	ErrInvalidStore     = errors.New("rate_limit.store must be 'memory' or 'redis'")
	ErrMissingSecretKey = errors.New("admin.secret_key is required")
	ErrInvalidMaxEvents = errors.New("audit.max_events must be at least 2")
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	Host        string `mapstructure:"host"`
	BaseURL     string `mapstructure:"base_url"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// PolicyConfig selects a named preset or spells out an explicit window.
// Explicit values win over the preset when both are set.
type PolicyConfig struct {
	Preset      string        `mapstructure:"preset"`
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

type RateLimitConfig struct {
	Store           string                  `mapstructure:"store"`
	Shards          int                     `mapstructure:"shards"`
	CleanupInterval time.Duration           `mapstructure:"cleanup_interval"`
	Policies        map[string]PolicyConfig `mapstructure:"policies"`
}

type WebhookConfig struct {
	URL         string        `mapstructure:"url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxFailures uint32        `mapstructure:"max_failures"`
}

type AuditConfig struct {
	MaxEvents   int                    `mapstructure:"max_events"`
	Workers     int                    `mapstructure:"workers"`
	QueueSize   int                    `mapstructure:"queue_size"`
	SinkTimeout time.Duration          `mapstructure:"sink_timeout"`
	Webhook     WebhookConfig          `mapstructure:"webhook"`
	Kafka       map[string]interface{} `mapstructure:"kafka"`
	// RedisChannel, when set, publishes exported events on a redis channel.
	RedisChannel string `mapstructure:"redis_channel"`
}

type AdminUser struct {
	ID           string `mapstructure:"id"`
	Email        string `mapstructure:"email"`
	Role         string `mapstructure:"role"`
	PasswordHash string `mapstructure:"password_hash"`
}

type AdminConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Users     []AdminUser   `mapstructure:"users"`
}

func Load(configPath string) (*Config, error) {
	var cfg Config
	if err := loadConfigFile(configPath, "config", &cfg); err != nil {
		return nil, fmt.Errorf("could not load main config file: %w", err)
	}
	SetDefaultValues(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found: %w", fileName, err)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func SetDefaultValues(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.RateLimit.Store == "" {
		cfg.RateLimit.Store = StoreMemory
	}
	if cfg.RateLimit.Shards <= 0 {
		cfg.RateLimit.Shards = 64
	}
	if cfg.RateLimit.CleanupInterval <= 0 {
		cfg.RateLimit.CleanupInterval = 5 * time.Minute
	}
	if cfg.RateLimit.Policies == nil {
		cfg.RateLimit.Policies = make(map[string]PolicyConfig)
	}
	defaults := map[string]string{
		PolicyAPI:   "moderate",
		PolicyAdmin: "strict",
		PolicyAuth:  "auth",
	}
	for name, preset := range defaults {
		if _, ok := cfg.RateLimit.Policies[name]; !ok {
			cfg.RateLimit.Policies[name] = PolicyConfig{Preset: preset}
		}
	}

	if cfg.Audit.MaxEvents == 0 {
		cfg.Audit.MaxEvents = 10000
	}
	if cfg.Audit.Workers <= 0 {
		cfg.Audit.Workers = 2
	}
	if cfg.Audit.QueueSize <= 0 {
		cfg.Audit.QueueSize = 1000
	}
	if cfg.Audit.SinkTimeout <= 0 {
		cfg.Audit.SinkTimeout = 2 * time.Second
	}
	if cfg.Audit.Webhook.Timeout <= 0 {
		cfg.Audit.Webhook.Timeout = 3 * time.Second
	}
	if cfg.Audit.Webhook.MaxFailures == 0 {
		cfg.Audit.Webhook.MaxFailures = 5
	}

	if cfg.Admin.TokenTTL <= 0 {
		cfg.Admin.TokenTTL = time.Hour
	}
}

func (c *Config) Validate() error {
	if c.RateLimit.Store != StoreMemory && c.RateLimit.Store != StoreRedis {
		return ErrInvalidStore
	}
	if c.Admin.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.Audit.MaxEvents < 2 {
		return ErrInvalidMaxEvents
	}
	return nil
}
