package llm

import (
	"fmt"
	"sync"

	"github.com/bidforge/bidforge/internal/types"
)

// LLMRegistry manages LLM provider registration and lookup. It provides a
// centralized, thread-safe registry so the pipeline can resolve the
// configured provider by name without process-wide singletons.
type LLMRegistry interface {
	// RegisterProvider registers an LLM provider with the registry
	RegisterProvider(provider LLMProvider) error

	// UnregisterProvider removes a provider from the registry by name
	UnregisterProvider(name string) error

	// GetProvider retrieves a provider by name
	GetProvider(name string) (LLMProvider, error)

	// ListProviders returns the names of all registered providers
	ListProviders() []string
}

// DefaultLLMRegistry implements LLMRegistry with thread-safe operations.
type DefaultLLMRegistry struct {
	mu        sync.RWMutex
	providers map[string]LLMProvider
}

// NewLLMRegistry creates a new DefaultLLMRegistry instance
func NewLLMRegistry() *DefaultLLMRegistry {
	return &DefaultLLMRegistry{
		providers: make(map[string]LLMProvider),
	}
}

// RegisterProvider registers an LLM provider with the registry.
// Returns ErrProviderAlreadyExists if a provider with the same name is
// already registered, ErrProviderInvalidInput for nil or unnamed providers.
func (r *DefaultLLMRegistry) RegisterProvider(provider LLMProvider) error {
	if provider == nil {
		return types.NewError(ErrProviderInvalidInput, "provider cannot be nil")
	}

	name := provider.Name()
	if name == "" {
		return types.NewError(ErrProviderInvalidInput, "provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return types.NewError(ErrProviderAlreadyExists, fmt.Sprintf("provider %q already registered", name))
	}

	r.providers[name] = provider
	return nil
}

// UnregisterProvider removes a provider from the registry by name.
// Returns ErrProviderNotFound if the provider doesn't exist.
func (r *DefaultLLMRegistry) UnregisterProvider(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return types.NewError(ErrProviderNotFound, fmt.Sprintf("provider %q not found", name))
	}

	delete(r.providers, name)
	return nil
}

// GetProvider retrieves a provider by name.
// Returns ErrProviderNotFound if no provider is registered under name.
func (r *DefaultLLMRegistry) GetProvider(name string) (LLMProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, types.NewError(ErrProviderNotFound, fmt.Sprintf("provider %q not found", name))
	}

	return provider, nil
}

// ListProviders returns the names of all registered providers.
func (r *DefaultLLMRegistry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
