package redis

import "time"

// Config holds Redis connection parameters for the executor registry.
type Config struct {
	// redis:// or rediss:// URL.
	URL string `env:"REDIS_URL" yaml:"url"`

	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10" yaml:"pool_size"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2" yaml:"min_idle_conns"`
	MaxIdleTime  time.Duration `env:"REDIS_MAX_IDLE_TIME" envDefault:"10m" yaml:"max_idle_time"`

	// Registry calls answer an executor waiting at most a few seconds.
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"2s" yaml:"read_timeout"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"2s" yaml:"write_timeout"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"3s" yaml:"dial_timeout"`

	// Startup retries; attempt n waits n*RetryInterval.
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" yaml:"retry_attempts"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s" yaml:"retry_interval"`
}

// DefaultConfig returns the values applied when fields are left zero.
func DefaultConfig(url string) Config {
	return Config{
		URL:           url,
		PoolSize:      10,
		MinIdleConns:  2,
		MaxIdleTime:   10 * time.Minute,
		ReadTimeout:   2 * time.Second,
		WriteTimeout:  2 * time.Second,
		DialTimeout:   3 * time.Second,
		RetryAttempts: 3,
		RetryInterval: 2 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig(c.URL)
	if c.PoolSize > 0 {
		d.PoolSize = c.PoolSize
	}
	if c.MinIdleConns > 0 {
		d.MinIdleConns = c.MinIdleConns
	}
	if c.MaxIdleTime > 0 {
		d.MaxIdleTime = c.MaxIdleTime
	}
	if c.ReadTimeout > 0 {
		d.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		d.WriteTimeout = c.WriteTimeout
	}
	if c.DialTimeout > 0 {
		d.DialTimeout = c.DialTimeout
	}
	if c.RetryAttempts > 0 {
		d.RetryAttempts = c.RetryAttempts
	}
	if c.RetryInterval > 0 {
		d.RetryInterval = c.RetryInterval
	}
	return d
}
