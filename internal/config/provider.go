package config

import (
	"sync"
	"sync/atomic"
)

// Source builds a fresh Settings. *Loader implements it.
type Source interface {
	Load() (*Settings, error)
}

// Provider hands out a single Settings instance for its lifetime. The first
// successful Load is kept; failed loads are not cached.
type Provider struct {
	source Source

	mu       sync.Mutex
	settings atomic.Pointer[Settings]
}

func NewProvider(source Source) *Provider {
	return &Provider{source: source}
}

// Settings returns the cached instance, loading it on first use. Concurrent
// first calls load exactly once.
func (p *Provider) Settings() (*Settings, error) {
	if s := p.settings.Load(); s != nil {
		return s, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if s := p.settings.Load(); s != nil {
		return s, nil
	}

	s, err := p.source.Load()
	if err != nil {
		return nil, err
	}

	p.settings.Store(s)
	return s, nil
}
