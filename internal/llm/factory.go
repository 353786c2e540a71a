package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docinsight/internal/config"
	"docinsight/internal/domain"
	"docinsight/internal/port"
)

// ProviderFactory is a function that creates a Completer from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.Completer, error)

// registry of completion provider factories, populated via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a completion provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewCompleter creates a Completer from a provider config using the registered factory.
func NewCompleter(cfg *config.ProviderConfig) (port.Completer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown completion provider: %s", cfg.Provider)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, domain.ErrMissingAPIKey)
	}
	return factory(cfg)
}

// NewFromConfig builds the primary completer. When secondary or tertiary
// providers are configured they are chained behind it in a FallbackCompleter.
func NewFromConfig(cfg *config.LLMConfig, log *zap.Logger) (port.Completer, error) {
	primary, err := NewCompleter(cfg.PrimaryConfig())
	if err != nil {
		return nil, err
	}

	completers := []port.Completer{primary}
	names := []string{cfg.Provider}
	for _, pc := range []*config.ProviderConfig{cfg.SecondaryConfig(), cfg.TertiaryConfig()} {
		if pc == nil {
			continue
		}
		c, err := NewCompleter(pc)
		if err != nil {
			return nil, fmt.Errorf("fallback provider %s: %w", pc.Provider, err)
		}
		completers = append(completers, c)
		names = append(names, pc.Provider)
	}

	if len(completers) == 1 {
		return primary, nil
	}
	return NewFallbackCompleter(completers, names, log), nil
}
