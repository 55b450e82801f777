package circuitbreaker

import "sync"

// Registry lazily creates one breaker per key, so that a failing feed host does
// not open the circuit for every other host.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	config   func(key string) Config
}

// NewRegistry returns a registry that builds breakers with config(key).
func NewRegistry(config func(key string) Config) *Registry {
	return &Registry{
		breakers: make(map[string]*CircuitBreaker),
		config:   config,
	}
}

// Get returns the breaker for key, creating it on first use.
func (r *Registry) Get(key string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	cb, ok := r.breakers[key]
	if !ok {
		cb = New(r.config(key))
		r.breakers[key] = cb
	}
	return cb
}

// OpenCount returns the number of breakers currently open.
func (r *Registry) OpenCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, cb := range r.breakers {
		if cb.IsOpen() {
			n++
		}
	}
	return n
}
