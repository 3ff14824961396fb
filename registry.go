package msgbundle

import (
	"slices"
	"sort"
	"sync"
)

// BundleProvider exposes named bundles to a Registry.
type BundleProvider interface {
	Bundles() map[string]*Bundle
}

// BundleProviderFunc adapts a bare function to the BundleProvider interface.
type BundleProviderFunc func() map[string]*Bundle

// Bundles implements BundleProvider for BundleProviderFunc
func (fn BundleProviderFunc) Bundles() map[string]*Bundle {
	return fn()
}

// Registry maps unique names to bundles. It is safe for concurrent use. The
// zero value is an empty registry.
type Registry struct {
	mu      sync.RWMutex
	bundles map[string]*Bundle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bundles: make(map[string]*Bundle)}
}

// Load aggregates the bundles of every provider. Empty names, nil bundles
// and names already present, in the registry or earlier in the same call,
// fail the whole call with a *LoadError and nothing is committed. Names
// within one provider are checked in sorted order.
func (r *Registry) Load(providers ...BundleProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make(map[string]*Bundle)
	for _, provider := range providers {
		if provider == nil {
			return loadError("", keyRegistryNilProvider)
		}

		entries := provider.Bundles()
		names := make([]string, 0, len(entries))
		for name := range entries {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if name == "" {
				return loadError(name, keyRegistryEmptyName)
			}
			bundle := entries[name]
			if bundle == nil {
				return loadError(name, keyRegistryNilBundle)
			}
			if _, exists := r.bundles[name]; exists {
				return loadError(name, keyRegistryDuplicate, name)
			}
			if _, exists := pending[name]; exists {
				return loadError(name, keyRegistryDuplicate, name)
			}
			pending[name] = bundle
		}
	}

	if r.bundles == nil {
		r.bundles = make(map[string]*Bundle, len(pending))
	}
	for name, bundle := range pending {
		r.bundles[name] = bundle
	}
	return nil
}

// Bundle returns the bundle registered under name.
func (r *Registry) Bundle(name string) (*Bundle, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	bundle, ok := r.bundles[name]
	return bundle, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bundles))
	for name := range r.bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadError(name, key string, args ...any) error {
	msg, err := messages().Printf(Root, key, args...)
	if err != nil {
		msg = messages().MessageFor(Root, key)
	}
	return &LoadError{Name: name, Reason: msg}
}

var (
	discoveryMu sync.Mutex
	discovered  []BundleProvider
	sealed      bool

	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Register makes provider part of the process-wide registry. It is meant to
// be called from init functions, before the first call to Default; later
// calls return ErrRegistrySealed. A nil provider panics with a ContractError.
func Register(provider BundleProvider) error {
	if provider == nil {
		contractViolation(keyRegistryNilProvider)
	}

	discoveryMu.Lock()
	defer discoveryMu.Unlock()

	if sealed {
		return ErrRegistrySealed
	}
	discovered = append(discovered, provider)
	return nil
}

// Default returns the process-wide registry, aggregating every registered
// provider on first use. If aggregation fails the registry stays empty and
// the same error is returned on every call. Providers must not call Default
// or ForName from Bundles.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		discoveryMu.Lock()
		providers := slices.Clone(discovered)
		sealed = true
		discoveryMu.Unlock()

		reg := NewRegistry()
		if err := reg.Load(providers...); err != nil {
			Logger().Error().Err(err).Int("providers", len(providers)).Msg("Failed to load bundle registry")
			defaultErr = err
		}
		defaultRegistry = reg
	})
	return defaultRegistry, defaultErr
}

// ForName returns a bundle from the process-wide registry.
func ForName(name string) (*Bundle, bool) {
	reg, err := Default()
	if err != nil {
		return nil, false
	}
	return reg.Bundle(name)
}
