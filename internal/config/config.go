package config

import (
	"errors"
	"fmt"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SinkDatabase = "database"
	SinkNATS     = "nats"
	SinkHTTP     = "http"
	SinkNone     = "none"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Practice PracticeConfig `mapstructure:"practice"`
	Reward   RewardConfig   `mapstructure:"reward"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver" validate:"oneof=mysql postgres sqlite"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port" validate:"gte=0,lte=65535"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	Path            string            `mapstructure:"path" validate:"required_if=Driver sqlite"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type PracticeConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"min=1,ltefield=MaxLimit"`
	MaxLimit     int `mapstructure:"max_limit" validate:"min=1"`
}

type RewardConfig struct {
	Sink          string     `mapstructure:"sink" validate:"oneof=database nats http none"`
	RetryAttempts uint       `mapstructure:"retry_attempts"`
	NATS          NATSConfig `mapstructure:"nats"`
	HTTP          HTTPConfig `mapstructure:"http"`
}

type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	Subject       string        `mapstructure:"subject"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

type HTTPConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	Path    string        `mapstructure:"path"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SeedConfig struct {
	// File is imported by the seed command when no argument is given.
	File string `mapstructure:"file" validate:"omitempty,file"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/verbdrill")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// Load reads the configuration file (if any), applies defaults and environment
// overrides, and validates the result.
func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("database.driver", DriverMySQL)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "verbdrill")
	v.SetDefault("database.username", "user")
	v.SetDefault("practice.default_limit", 10)
	v.SetDefault("practice.max_limit", 50)
	v.SetDefault("reward.sink", SinkDatabase)
	v.SetDefault("reward.retry_attempts", 3)
	v.SetDefault("reward.nats.subject", "verbdrill.reward")
	v.SetDefault("reward.nats.max_reconnects", 5)
	v.SetDefault("reward.nats.reconnect_wait", 2*time.Second)
	v.SetDefault("reward.http.path", "/xp")
	v.SetDefault("reward.http.timeout", 5*time.Second)

	envBindings := map[string]string{
		"database.password": "DB_PASSWORD",
		"reward.http.token": "VERBDRILL_REWARD_TOKEN",
		"reward.nats.url":   "NATS_URL",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", TranslateError(err, loader.translator))
	}

	return &cfg, nil
}

// Load is a shorthand for NewConfigLoader(configFile).Load().
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}
