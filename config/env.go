package config

import (
	"encoding/json"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

const (
	EnvApiKey         = "AGRIWELL_API_KEY"
	EnvProviderConfig = "AGRIWELL_PROVIDER_CONFIG"
	EnvBootstrapToken = "AGRIWELL_INITIAL_AUTH_TOKEN"
	EnvPort           = "AGRIWELL_PORT"
	EnvCsrfKey        = "AGRIWELL_CSRF_KEY"
)

// EnvConfig holds the values the hosting environment may inject. Empty
// values leave the yaml config alone.
type EnvConfig struct {
	ApiKey         string `env:"AGRIWELL_API_KEY"`
	BootstrapToken string `env:"AGRIWELL_INITIAL_AUTH_TOKEN"`
	Port           int32  `env:"AGRIWELL_PORT"`
	CsrfKey        string `env:"AGRIWELL_CSRF_KEY"`
	ProviderBlob   string `env:"AGRIWELL_PROVIDER_CONFIG"`

	Provider *ProviderConfig `env:"-"`
}

func loadFromEnv() (EnvConfig, error) {
	cfg := EnvConfig{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing environment")
	}

	if cfg.ProviderBlob != "" {
		provider, err := ParseProviderConfig(cfg.ProviderBlob)
		if err != nil {
			return cfg, errors.Wrapf(err, "reading %v", EnvProviderConfig)
		}
		cfg.Provider = provider
	}
	return cfg, nil
}

// ParseProviderConfig parses the json provider configuration blob handed over by the
// hosting environment
func ParseProviderConfig(blob string) (*ProviderConfig, error) {
	provider := &ProviderConfig{}
	if err := json.Unmarshal([]byte(blob), provider); err != nil {
		return nil, errors.Wrap(err, "invalid provider config")
	}
	return provider, nil
}
