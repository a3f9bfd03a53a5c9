package registry

import (
	"context"
	"errors"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
)

// ErrRedis wraps failures of the underlying Redis commands.
var ErrRedis = errors.New("registry: redis command failed")

var _ Store = (*Redis)(nil)

// Redis keeps registrations in one sorted set per (group, key). Members are
// values scored by their last refresh time in milliseconds.
type Redis struct {
	client redis.UniversalClient
	opts   *options
}

// NewRedis creates a Redis-backed store.
func NewRedis(client redis.UniversalClient, opts ...Option) *Redis {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Redis{client: client, opts: o}
}

func (s *Redis) Register(ctx context.Context, p adminbiz.RegistryParam) error {
	if err := validate(p); err != nil {
		return err
	}

	key := s.key(p.RegistryGroup, p.RegistryKey)
	now := s.opts.now()
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: p.RegistryValue})
		pipe.PExpire(ctx, key, s.opts.ttl)
		return nil
	})
	if err != nil {
		return errors.Join(ErrRedis, err)
	}
	return nil
}

func (s *Redis) Remove(ctx context.Context, p adminbiz.RegistryParam) error {
	if err := validate(p); err != nil {
		return err
	}

	if err := s.client.ZRem(ctx, s.key(p.RegistryGroup, p.RegistryKey), p.RegistryValue).Err(); err != nil {
		return errors.Join(ErrRedis, err)
	}
	return nil
}

func (s *Redis) List(ctx context.Context, group, key string) ([]string, error) {
	k := s.key(group, key)
	cutoff := s.opts.now().Add(-s.opts.ttl).UnixMilli()

	var values *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, k, "-inf", "("+strconv.FormatInt(cutoff, 10))
		values = pipe.ZRangeByScore(ctx, k, &redis.ZRangeBy{Min: "-inf", Max: "+inf"})
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrRedis, err)
	}

	out := values.Val()
	slices.Sort(out)
	return out, nil
}

func (s *Redis) key(group, key string) string {
	return s.opts.keyPrefix + ":" + group + ":" + key
}
