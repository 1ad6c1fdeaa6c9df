package guide

import (
	"fmt"
	"sort"
	"sync"

	"github.com/atlasai/zelig/internal/config"
	apierrors "github.com/atlasai/zelig/internal/errors"
)

// Factory builds a guide from configuration. client is nil unless the
// caller supplied one; HTTP backends create their own in that case.
type Factory func(cfg config.Config, client Doer) (Guide, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		config.BackendZelig:  newZelig,
		config.BackendGemini: newGemini,
		config.BackendOpenAI: newOpenAI,
		config.BackendEcho:   func(config.Config, Doer) (Guide, error) { return EchoClient{}, nil },
	}
)

// Register adds or replaces a backend factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the guide selected by cfg.Backend and bounds it with the
// configured timeout.
func New(cfg config.Config, client Doer) (Guide, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Backend]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", apierrors.ErrUnknownBackend, cfg.Backend, Backends())
	}

	g, err := factory(cfg, client)
	if err != nil {
		return nil, err
	}
	return WithTimeout(g, cfg.Timeout()), nil
}

func httpClientFor(cfg config.Config, client Doer) (Doer, error) {
	if client != nil {
		return client, nil
	}
	return NewHTTPClient(transportTimeout(cfg))
}

// transportTimeout returns the transport ceiling in seconds for cfg. It sits
// above the call timeout so the context deadline fires first; a disabled
// call timeout leaves the transport unbounded too.
func transportTimeout(cfg config.Config) int {
	if cfg.RequestTimeout <= 0 {
		return 0
	}
	return cfg.RequestTimeout * 2
}

func newZelig(cfg config.Config, client Doer) (Guide, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("zelig backend requires an endpoint")
	}
	c, err := httpClientFor(cfg, client)
	if err != nil {
		return nil, err
	}
	return NewZeligClient(c, cfg.Endpoint), nil
}

func newGemini(cfg config.Config, client Doer) (Guide, error) {
	c, err := httpClientFor(cfg, client)
	if err != nil {
		return nil, err
	}
	g, err := NewGeminiClient(c, cfg.GeminiModel, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func newOpenAI(cfg config.Config, _ Doer) (Guide, error) {
	g, err := NewOpenAIClient(cfg.OpenAIModel, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	if err != nil {
		return nil, err
	}
	return g, nil
}
