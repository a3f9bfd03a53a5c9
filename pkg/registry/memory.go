package registry

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/jobrpc/pkg/adminbiz"
)

var _ Store = (*Memory)(nil)

// Memory is an in-process Store. Expired entries are dropped lazily on List.
type Memory struct {
	opts    *options
	entries map[string]map[string]time.Time
	mu      sync.Mutex
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Memory{opts: o, entries: make(map[string]map[string]time.Time)}
}

func (s *Memory) Register(_ context.Context, p adminbiz.RegistryParam) error {
	if err := validate(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := p.RegistryGroup + "\x00" + p.RegistryKey
	if s.entries[k] == nil {
		s.entries[k] = make(map[string]time.Time)
	}
	s.entries[k][p.RegistryValue] = s.opts.now()
	return nil
}

func (s *Memory) Remove(_ context.Context, p adminbiz.RegistryParam) error {
	if err := validate(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries[p.RegistryGroup+"\x00"+p.RegistryKey], p.RegistryValue)
	return nil
}

func (s *Memory) List(_ context.Context, group, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.opts.now().Add(-s.opts.ttl)
	values := s.entries[group+"\x00"+key]
	out := make([]string, 0, len(values))
	for v, seen := range values {
		if seen.Before(cutoff) {
			delete(values, v)
			continue
		}
		out = append(out, v)
	}
	slices.Sort(out)
	return out, nil
}
