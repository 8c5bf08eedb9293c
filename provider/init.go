package provider

import (
	"fmt"

	"qachat/config"
)

// FromConfig creates the provider configured in the [local] section.
//
// An empty base_url selects the provider's default endpoint.
func FromConfig(cfg *config.Config) (Provider, error) {
	providerType := MapProviderIDToType(cfg.Local.Provider)

	p, err := NewProvider(Config{
		Type:    providerType,
		BaseURL: cfg.Local.BaseURL,
		Model:   cfg.Local.Model,
		APIKey:  cfg.LocalAPIKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.Local.Provider, err)
	}

	config.DebugLog.Debug("provider initialized", "provider", providerType, "model", p.Model())
	return p, nil
}
