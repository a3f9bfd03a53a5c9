package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/jobrpc/pkg/db"
	"github.com/dmitrymomot/jobrpc/pkg/logger"
	"github.com/dmitrymomot/jobrpc/pkg/redis"
)

var errConfig = errors.New("jobadmin: invalid configuration")

// config is read from the environment. JOBRPC_CONFIG_FILE points to an
// optional YAML file whose values sit between the defaults and the
// environment: defaults < file < env.
type config struct {
	Addr        string `env:"JOBRPC_ADDR" envDefault:":8080" yaml:"addr"`
	BasePath    string `env:"JOBRPC_BASE_PATH" envDefault:"/xxl-job-admin" yaml:"base_path"`
	AccessToken string `env:"JOBRPC_ACCESS_TOKEN" yaml:"access_token"`

	LogLevel  string `env:"JOBRPC_LOG_LEVEL" envDefault:"info" yaml:"log_level"`
	LogFormat string `env:"JOBRPC_LOG_FORMAT" envDefault:"json" yaml:"log_format"`

	RequestTimeout  time.Duration `env:"JOBRPC_REQUEST_TIMEOUT" envDefault:"10s" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `env:"JOBRPC_SHUTDOWN_TIMEOUT" envDefault:"30s" yaml:"shutdown_timeout"`
	MaxRequestBody  int64         `env:"JOBRPC_MAX_REQUEST_BODY" envDefault:"4194304" yaml:"max_request_body"`

	// Executors missing three beats drop out of the registry.
	RegistryTTL time.Duration `env:"JOBRPC_REGISTRY_TTL" envDefault:"90s" yaml:"registry_ttl"`

	CallbackWorkers  int `env:"JOBRPC_CALLBACK_WORKERS" envDefault:"10" yaml:"callback_workers"`
	CallbackAttempts int `env:"JOBRPC_CALLBACK_ATTEMPTS" envDefault:"5" yaml:"callback_attempts"`

	// Empty URLs select the in-memory stores.
	Database db.Config          `yaml:"database"`
	Redis    redis.Config       `yaml:"redis"`
	Sentry   logger.SentryConfig `yaml:"sentry"`
}

// loadConfig applies env defaults, then the YAML file, then variables set in
// environ.
func loadConfig(path string, environ map[string]string) (config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		return cfg, errors.Join(errConfig, err)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Join(errConfig, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, errors.Join(errConfig, fmt.Errorf("parse %s: %w", path, err))
		}
	}

	// A tag name no field carries: only variables actually set apply.
	if err := env.ParseWithOptions(&cfg, env.Options{
		Environment:         environ,
		DefaultValueTagName: "envSeedless",
	}); err != nil {
		return cfg, errors.Join(errConfig, err)
	}

	if cfg.Addr == "" {
		return cfg, errors.Join(errConfig, errors.New("addr is required"))
	}
	return cfg, nil
}
