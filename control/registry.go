package control

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry memoizes one Connection per "host:port" endpoint, so only
// one connection to any given Tor process ever exists in a process at
// a time.
type Registry struct {
	mu     sync.Mutex
	conns  map[string]*Connection
	logger *slog.Logger
}

// NewRegistry creates an empty connection registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{conns: make(map[string]*Connection), logger: logger}
}

// Open returns the cached Connection for addr if one exists, or dials,
// authenticates, and caches a new one. errSink is only used
// the first time addr is opened.
func (reg *Registry) Open(addr, password string, errSink func(error)) (*Connection, error) {
	reg.mu.Lock()
	if c, ok := reg.conns[addr]; ok {
		reg.mu.Unlock()
		return c, nil
	}
	reg.mu.Unlock()

	c, err := Open(addr, password, reg.logger, errSink)
	if err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", addr, err)
	}

	reg.mu.Lock()
	// Re-check: a Go caller could invoke Open twice concurrently for the
	// same addr before either completes.
	if existing, ok := reg.conns[addr]; ok {
		reg.mu.Unlock()
		_ = c.Close()
		return existing, nil
	}
	reg.conns[addr] = c
	reg.mu.Unlock()

	return c, nil
}

// Close closes and evicts the connection for addr, if cached. Idempotent.
func (reg *Registry) Close(addr string) error {
	reg.mu.Lock()
	c, ok := reg.conns[addr]
	if ok {
		delete(reg.conns, addr)
	}
	reg.mu.Unlock()

	if !ok {
		return nil
	}
	return c.Close()
}

// CloseAll closes and evicts every cached connection.
func (reg *Registry) CloseAll() {
	reg.mu.Lock()
	conns := reg.conns
	reg.conns = make(map[string]*Connection)
	reg.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}
