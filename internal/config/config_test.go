package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PASAR_CONFIG", "")
	t.Setenv("PASAR_HOME", home)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, "https://pasarkampus.id", cfg.BaseURL)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, filepath.Join(home, "pasar.log"), cfg.LogPath())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PASAR_CONFIG", "")
	t.Setenv("PASAR_HOME", t.TempDir())
	t.Setenv("PASAR_API_URL", "http://api.localhost:8080/")
	t.Setenv("PASAR_TOKEN", "tok123")
	t.Setenv("PASAR_POLL_INTERVAL", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://api.localhost:8080", cfg.APIURL)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "tok123", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pasar.yaml")
	content := `
api_url: "https://api.staging.pasarkampus.id"
base_url: "https://staging.pasarkampus.id"
home: "` + dir + `"
log_level: debug
poll_interval: 10s
http_timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PASAR_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.staging.pasarkampus.id", cfg.APIURL)
	assert.Equal(t, "https://staging.pasarkampus.id", cfg.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("PASAR_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestSiteURL(t *testing.T) {
	assert.Equal(t, "https://pasarkampus.id", siteURL("https://api.pasarkampus.id"))
	assert.Equal(t, "http://localhost:3000", siteURL("http://localhost:3000"))
	assert.Equal(t, "http://localhost:8080", siteURL("http://api.localhost:8080"))
	assert.Equal(t, "https://pasarkampus.id:8443/v1", siteURL("https://api.pasarkampus.id:8443/v1"))
}
