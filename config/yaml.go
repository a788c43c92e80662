package config

import "time"

type CookieConfig struct {
	Name   string `yaml:"name"`
	Secure bool   `yaml:"secure"`
}

type SessionType string

const (
	SessionTypeMemory SessionType = "memory"
)

type SessionConfig struct {
	Type   SessionType  `yaml:"type"`
	Idle   string       `yaml:"idle"` // idle ttl for a page instance, ex: 30m
	Cookie CookieConfig `yaml:"cookie"`
}

// IdleTimeout parses Idle, falling back to the default on a bad value
func (s SessionConfig) IdleTimeout() time.Duration {
	d, err := time.ParseDuration(s.Idle)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultSessionIdle)
	}
	return d
}

type ServerConfig struct {
	Port      int32  `yaml:"port"`
	ReadyWait string `yaml:"readyWait"` // how long GET / waits for a fresh page instance to settle
	CsrfKey   string `yaml:"csrfKey"`   // hex encoded, 32 bytes
}

// ReadyWaitDuration parses ReadyWait, a bad or empty value means do not wait
func (s ServerConfig) ReadyWaitDuration() time.Duration {
	d, err := time.ParseDuration(s.ReadyWait)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ProviderConfig is the identity provider configuration blob supplied by the
// hosting environment. The json tags match the blob injected into the page.
type ProviderConfig struct {
	ApiKey     string `yaml:"apiKey" json:"apiKey"`
	AuthDomain string `yaml:"authDomain" json:"authDomain"`
	ProjectId  string `yaml:"projectId" json:"projectId"`
	AppId      string `yaml:"appId" json:"appId"`
	BaseUrl    string `yaml:"baseUrl" json:"baseUrl"`
	JwksUrl    string `yaml:"jwksUrl" json:"jwksUrl"`
	Timeout    string `yaml:"timeout" json:"timeout"`
}

// RequestTimeout parses Timeout, falling back to the default on a bad value
func (p ProviderConfig) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(p.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(defaultProviderTimeout)
	}
	return d
}

type SiteConfig struct {
	FormRelayUrl string `yaml:"formRelayUrl"`
	MapEmbedUrl  string `yaml:"mapEmbedUrl"`
}

type AgriwellConfig struct {
	Server         ServerConfig   `yaml:"server"`
	Session        SessionConfig  `yaml:"session"`
	Provider       ProviderConfig `yaml:"provider"`
	Site           SiteConfig     `yaml:"site"`
	BootstrapToken string         `yaml:"bootstrapToken"`
}
