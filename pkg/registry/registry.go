package registry

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
)

// DefaultTTL is how long a registration lives without a refresh.
const DefaultTTL = 3 * adminbiz.DefaultBeatInterval

// ErrInvalidParam is returned when group, key or value is empty.
var ErrInvalidParam = errors.New("registry: group, key and value are required")

// Store keeps registrations.
type Store interface {
	// Register adds or refreshes a registration.
	Register(ctx context.Context, p adminbiz.RegistryParam) error

	// Remove deletes a registration. Removing an absent entry is not an error.
	Remove(ctx context.Context, p adminbiz.RegistryParam) error

	// List returns the live values registered under group and key, sorted.
	List(ctx context.Context, group, key string) ([]string, error)
}

// Option configures a store.
type Option func(*options)

type options struct {
	now       func() time.Time
	keyPrefix string
	ttl       time.Duration
}

func defaultOptions() *options {
	return &options{
		ttl:       DefaultTTL,
		keyPrefix: "jobrpc:registry",
		now:       time.Now,
	}
}

// WithTTL sets how long a registration lives without a refresh. Default: 90s
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithKeyPrefix sets the Redis key prefix. Default: "jobrpc:registry"
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func validate(p adminbiz.RegistryParam) error {
	if p.Validate() != nil {
		return ErrInvalidParam
	}
	return nil
}
