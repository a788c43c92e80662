package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYaml = `
server:
  port: 9000
  readyWait: 500ms
session:
  type: memory
  idle: 5m
  cookie:
    name: visitor
    secure: true
provider:
  apiKey: from-file
  projectId: agriwell-test
bootstrapToken: file-token
site:
  formRelayUrl: https://relay.example.com/f/abc
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agriwell.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYaml))
	require.NoError(t, err)

	assert.Equal(t, int32(9000), cfg.Server.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Server.ReadyWaitDuration())
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout())
	assert.Equal(t, "visitor", cfg.Session.Cookie.Name)
	assert.True(t, cfg.Session.Cookie.Secure)
	assert.Equal(t, "from-file", cfg.Provider.ApiKey)
	assert.Equal(t, "file-token", cfg.BootstrapToken)
	assert.Equal(t, "https://relay.example.com/f/abc", cfg.Site.FormRelayUrl)

	// defaults fill what the file left out
	assert.Equal(t, defaultProviderBaseUrl, cfg.Provider.BaseUrl)
	assert.Equal(t, defaultMapEmbedUrl, cfg.Site.MapEmbedUrl)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, SessionTypeMemory, cfg.Session.Type)
	assert.Equal(t, defaultCookieName, cfg.Session.Cookie.Name)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout())
	assert.Equal(t, 10*time.Second, cfg.Provider.RequestTimeout())
	assert.Empty(t, cfg.BootstrapToken)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv(EnvProviderConfig, `{"apiKey":"blob-key","projectId":"blob-project","jwksUrl":"https://keys.example.com"}`)
	t.Setenv(EnvApiKey, "env-key")
	t.Setenv(EnvBootstrapToken, "env-token")
	t.Setenv(EnvPort, "7070")
	t.Setenv(EnvCsrfKey, "00112233")

	cfg, err := LoadConfig(writeConfig(t, sampleYaml))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Provider.ApiKey)
	assert.Equal(t, "blob-project", cfg.Provider.ProjectId)
	assert.Equal(t, "https://keys.example.com", cfg.Provider.JwksUrl)
	assert.Equal(t, "env-token", cfg.BootstrapToken)
	assert.Equal(t, int32(7070), cfg.Server.Port)
	assert.Equal(t, "00112233", cfg.Server.CsrfKey)
}

func TestLoadConfigProviderBlobMergesFields(t *testing.T) {
	t.Setenv(EnvProviderConfig, `{"authDomain":"blob.example.com"}`)

	cfg, err := LoadConfig(writeConfig(t, sampleYaml))
	require.NoError(t, err)

	assert.Equal(t, "blob.example.com", cfg.Provider.AuthDomain)
	assert.Equal(t, "from-file", cfg.Provider.ApiKey)
	assert.Equal(t, "agriwell-test", cfg.Provider.ProjectId)
}

func TestLoadConfigBadProviderBlob(t *testing.T) {
	t.Setenv(EnvProviderConfig, `{not json`)

	_, err := LoadConfig(writeConfig(t, sampleYaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvProviderConfig)
}

func TestLoadConfigRejectsRedisSessions(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "session:\n  type: redis\n"))
	require.Error(t, err)
}

func TestLoadConfigBadPort(t *testing.T) {
	t.Setenv(EnvPort, "eighty")

	_, err := LoadConfig(writeConfig(t, sampleYaml))
	require.Error(t, err)
}
