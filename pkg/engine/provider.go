package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/germanamz/analytical/pkg/providers/clicky"
	"github.com/germanamz/analytical/pkg/providers/google"
	"github.com/germanamz/analytical/pkg/providers/googlelegacy"
	"github.com/germanamz/analytical/pkg/providers/kissmetrics"
	"github.com/germanamz/analytical/pkg/providers/provider"
)

// ProviderFactory creates a Provider from a ProviderConfig.
type ProviderFactory func(cfg ProviderConfig) (provider.Provider, error)

var (
	factoryMu   sync.RWMutex
	factories   = map[string]ProviderFactory{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		factories["google"] = newGoogle
		factories["google_legacy"] = newGoogleLegacy
		factories["kissmetrics"] = newKissMetrics
		factories["clicky"] = newClicky
	})
}

// RegisterProvider registers a custom provider factory under the given kind.
// It can be called before New to extend the engine with additional providers.
func RegisterProvider(kind string, factory ProviderFactory) {
	ensureDefaults()

	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[kind] = factory
}

// Kinds returns the registered provider kinds in sorted order.
func Kinds() []string {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	return kinds
}

// getFactory returns the factory for the given kind.
func getFactory(kind string) (ProviderFactory, bool) {
	ensureDefaults()

	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factories[kind]
	return f, ok
}

func googleOptions(cfg ProviderConfig) google.Options {
	return google.Options{
		Key:               cfg.Key,
		Domain:            cfg.Domain,
		AllowLinker:       cfg.AllowLinker,
		TrackPageLoadTime: cfg.TrackPageLoadTime,
		CustomVariables:   cfg.CustomVariables,
	}
}

func newGoogle(cfg ProviderConfig) (provider.Provider, error) {
	p, err := google.New(googleOptions(cfg))
	if err != nil {
		return nil, err
	}

	return p, nil
}

func newGoogleLegacy(cfg ProviderConfig) (provider.Provider, error) {
	p, err := googlelegacy.New(googleOptions(cfg))
	if err != nil {
		return nil, err
	}

	return p, nil
}

func newKissMetrics(cfg ProviderConfig) (provider.Provider, error) {
	p, err := kissmetrics.New(kissmetrics.Options{Key: cfg.Key})
	if err != nil {
		return nil, err
	}

	return p, nil
}

func newClicky(cfg ProviderConfig) (provider.Provider, error) {
	p, err := clicky.New(clicky.Options{Key: cfg.Key})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// buildProvider creates a Provider from a ProviderConfig using the registered
// factory for its Kind.
func buildProvider(cfg ProviderConfig) (provider.Provider, error) {
	factory, ok := getFactory(cfg.Kind)
	if !ok {
		return nil, fmt.Errorf("engine: unknown provider kind %q", cfg.Kind)
	}

	return factory(cfg)
}
