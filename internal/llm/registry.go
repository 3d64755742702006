package llm

import (
	"context"
	"fmt"
	"sync"
)

// Factory constructs a client for one provider. A nil Factory marks the
// provider as unconfigured (no credentials).
type Factory func(ctx context.Context) (Client, error)

// Registry caches one client per provider. Construction happens on
// first use; the cache is shared across requests, so lookups are
// serialized to avoid leaking duplicate clients.
type Registry struct {
	mu        sync.Mutex
	factories map[Provider]Factory
	clients   map[Provider]Client
}

// NewRegistry builds a registry from per-provider factories.
func NewRegistry(factories map[Provider]Factory) *Registry {
	return &Registry{
		factories: factories,
		clients:   make(map[Provider]Client),
	}
}

// Client returns the cached client for the provider, constructing it on
// first use. The second result is false when the provider has no
// credentials configured; that is not an error.
func (r *Registry) Client(ctx context.Context, provider Provider) (Client, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[provider]; ok {
		return client, true, nil
	}

	factory := r.factories[provider]
	if factory == nil {
		return nil, false, nil
	}

	client, err := factory(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%w: construct %s client: %v", ErrProvider, provider, err)
	}
	r.clients[provider] = client
	return client, true, nil
}
