package config

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	defaultPort            int32  = 8080
	defaultReadyWait       string = "2s"
	defaultCookieName      string = "agriwell_session"
	defaultSessionIdle     string = "30m"
	defaultProviderBaseUrl string = "https://identitytoolkit.googleapis.com/v1"
	defaultProviderTimeout string = "10s"
	defaultFormRelayUrl    string = "https://formspree.io/f/meozlopy"
	defaultMapEmbedUrl     string = "https://www.google.com/maps/embed?pb=!1m14!1m8!1m3!1d510562.4500820173!2d103.8442501!3d1.3140001!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x32f96dce7aa152db%3A0xf409f442aa9a620a!2s1NatureCorp%20Davao%20Branch!5e0!3m2!1sen!2ssg!4v1754108821452!5m2!1sen!2ssg"
)

// LoadConfig reads the yaml config at path, fills in defaults & applies
// any overrides found in the environment
func LoadConfig(path string) (*AgriwellConfig, error) {

	log.WithField("source", path).Info("loading config")
	cfg, err := loadFromFile(path)
	if err != nil {
		return nil, err
	}

	log.WithField("source", "environment").Debug("loading config")
	env, err := loadFromEnv()
	if err != nil {
		return nil, err
	}
	overrideFromEnv(env, cfg)

	setDefaults(cfg)

	if cfg.Session.Type != SessionTypeMemory {
		return nil, errors.Errorf("session store type %v not supported", cfg.Session.Type)
	}
	return cfg, nil
}

// set defaults
func setDefaults(cfg *AgriwellConfig) {

	if cfg.Server.Port == 0 {
		log.WithField("server.port", defaultPort).Debug("setting value")
		cfg.Server.Port = defaultPort
	}

	if cfg.Server.ReadyWait == "" {
		log.WithField("server.readyWait", defaultReadyWait).Debug("setting value")
		cfg.Server.ReadyWait = defaultReadyWait
	}

	sess := &cfg.Session
	if sess.Type == "" {
		log.WithField("session.type", SessionTypeMemory).Debug("setting value")
		sess.Type = SessionTypeMemory
	}

	if sess.Idle == "" {
		log.WithField("session.idle", defaultSessionIdle).Debug("setting value")
		sess.Idle = defaultSessionIdle
	}

	if sess.Cookie.Name == "" {
		log.WithField("session.cookie.name", defaultCookieName).Debug("setting value")
		sess.Cookie.Name = defaultCookieName
	}

	provider := &cfg.Provider
	if provider.BaseUrl == "" {
		log.WithField("provider.baseUrl", defaultProviderBaseUrl).Debug("setting value")
		provider.BaseUrl = defaultProviderBaseUrl
	}

	if provider.Timeout == "" {
		log.WithField("provider.timeout", defaultProviderTimeout).Debug("setting value")
		provider.Timeout = defaultProviderTimeout
	}

	if cfg.Site.FormRelayUrl == "" {
		log.WithField("site.formRelayUrl", defaultFormRelayUrl).Debug("setting value")
		cfg.Site.FormRelayUrl = defaultFormRelayUrl
	}

	if cfg.Site.MapEmbedUrl == "" {
		log.WithField("site.mapEmbedUrl", defaultMapEmbedUrl).Debug("setting value")
		cfg.Site.MapEmbedUrl = defaultMapEmbedUrl
	}
}

// loadFromFile reads & parses the config from the supplied path. A missing
// file is not an error, everything can come from defaults & the environment.
func loadFromFile(path string) (*AgriwellConfig, error) {

	cfg := AgriwellConfig{}
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.WithField("source", path).Warn("config file not found, using defaults")
			return &cfg, nil
		}
		return nil, errors.Wrapf(err, "reading config %v", path)
	}

	err = yaml.Unmarshal(bytes, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing config %v", path)
	}

	return &cfg, nil
}

// overrideFromEnv override AgriwellConfig from env
// env values if set will always override the values from yaml config
func overrideFromEnv(env EnvConfig, cfg *AgriwellConfig) {

	if env.Provider != nil {
		log.Debug("the provider config is being overridden from env")
		cfg.Provider = mergeProviderConfig(cfg.Provider, *env.Provider)
	}

	if env.ApiKey != "" {
		log.Debug("the value of provider.apiKey is being overridden from env")
		cfg.Provider.ApiKey = env.ApiKey
	}

	if env.BootstrapToken != "" {
		log.Debug("the value of bootstrapToken is being overridden from env")
		cfg.BootstrapToken = env.BootstrapToken
	}

	if env.CsrfKey != "" {
		log.Debug("the value of server.csrfKey is being overridden from env")
		cfg.Server.CsrfKey = env.CsrfKey
	}

	if env.Port != 0 {
		log.WithField("server.port", env.Port).Debug("the value of server.port is being overridden from env")
		cfg.Server.Port = env.Port
	}
}

// mergeProviderConfig returns base with every non-empty field of override applied
func mergeProviderConfig(base, override ProviderConfig) ProviderConfig {
	if override.ApiKey != "" {
		base.ApiKey = override.ApiKey
	}
	if override.AuthDomain != "" {
		base.AuthDomain = override.AuthDomain
	}
	if override.ProjectId != "" {
		base.ProjectId = override.ProjectId
	}
	if override.AppId != "" {
		base.AppId = override.AppId
	}
	if override.BaseUrl != "" {
		base.BaseUrl = override.BaseUrl
	}
	if override.JwksUrl != "" {
		base.JwksUrl = override.JwksUrl
	}
	if override.Timeout != "" {
		base.Timeout = override.Timeout
	}
	return base
}
