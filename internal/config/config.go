package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config holds all configuration required by the API process.
// Values come from env (APP_ENV, DB_HOST, ...) with an optional config.yaml
// underneath. No business logic should depend on raw environment variables.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	DB      DBConfig      `mapstructure:"db"`
	Redis   RedisConfig   `mapstructure:"redis"`
	NATS    NATSConfig    `mapstructure:"nats"`
	Dedup   DedupConfig   `mapstructure:"dedup"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

type AppConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`

	// SSLMode accepts: disable, require, verify-ca, verify-full
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// RedisConfig is optional. An empty host disables delivery dedup.
// Timeout bounds dial, read, write and the startup ping; dedup sits on the
// webhook path and fails open, so it stays short.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// NATSConfig is optional. An empty URL disables fan-out.
type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type DedupConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type WebhookConfig struct {
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

const (
	DefaultDedupTTL     = 24 * time.Hour
	DefaultMaxBodyBytes = 2 << 20
	DefaultNATSSubject  = "calls.normalized"
	DefaultRedisPool    = 10
	DefaultRedisTimeout = 500 * time.Millisecond
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "local")
	v.SetDefault("app.port", 8080)
	v.SetDefault("db.host", "")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.sslmode", "")
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", DefaultRedisPool)
	v.SetDefault("redis.timeout", DefaultRedisTimeout)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", DefaultNATSSubject)
	v.SetDefault("dedup.ttl", DefaultDedupTTL)
	v.SetDefault("webhook.max_body_bytes", DefaultMaxBodyBytes)
}

// Load reads config.yaml (optional) from the working directory, overlays
// the environment and validates the result.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, eris.Wrap(err, "config: read file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, eris.Wrap(err, "config: unmarshal")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every problem at once and fills defaults that depend on
// the environment.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, eris.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, eris.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, eris.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.DB.Host == "" {
		errs = append(errs, eris.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, eris.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, eris.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, eris.New("DB_NAME is required"))
	}
	if strings.TrimSpace(c.DB.SSLMode) == "" {
		if c.IsProduction() {
			errs = append(errs, eris.New("DB_SSLMODE is required in production"))
		} else {
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, eris.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}

	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, eris.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}
	if c.Redis.PoolSize <= 0 {
		c.Redis.PoolSize = DefaultRedisPool
	}
	if c.Redis.Timeout <= 0 {
		c.Redis.Timeout = DefaultRedisTimeout
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		c.NATS.Subject = DefaultNATSSubject
	}

	if c.Dedup.TTL <= 0 {
		c.Dedup.TTL = DefaultDedupTTL
	}
	if c.Webhook.MaxBodyBytes <= 0 {
		c.Webhook.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisEnabled() bool { return c.Redis.Host != "" }

func (c Config) RedisAddr() string { return c.Redis.Addr() }

func (c Config) NATSEnabled() bool { return c.NATS.URL != "" }

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return eris.New(strings.TrimSpace(b.String()))
}
