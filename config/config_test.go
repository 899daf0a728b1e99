package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app_name: yaml-app
port: "9000"
provider:
  app_id: yaml-id
  app_secret: yaml-secret
  rps: 2.5
dashboard:
  refresh_interval: 30m
  search_debounce: 250ms
  discard_stale: true
chart:
  decoration: false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cnf := Default()

	assert.Equal(t, "weather-dashboard", cnf.AppName)
	assert.Equal(t, "1.0.0", cnf.AppVersion)
	assert.Equal(t, "8080", cnf.Port)
	assert.Equal(t, 30*time.Second, cnf.Provider.Timeout)
	assert.Equal(t, time.Hour, cnf.Dashboard.RefreshInterval)
	assert.Equal(t, 700*time.Millisecond, cnf.Dashboard.SearchDebounce)
	assert.Equal(t, "101020100", cnf.Dashboard.DefaultCityID)
	assert.False(t, cnf.Dashboard.DiscardStale)
	assert.Equal(t, "container", cnf.Chart.Mount)
	assert.True(t, cnf.Chart.Decoration)
	assert.True(t, cnf.IsDevelopment())
	assert.False(t, cnf.IsProduction())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	cnf, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "yaml-app", cnf.AppName)
	assert.Equal(t, "9000", cnf.Port)
	assert.Equal(t, "yaml-id", cnf.Provider.AppID)
	assert.Equal(t, 2.5, cnf.Provider.RPS)
	assert.Equal(t, 30*time.Minute, cnf.Dashboard.RefreshInterval)
	assert.Equal(t, 250*time.Millisecond, cnf.Dashboard.SearchDebounce)
	assert.True(t, cnf.Dashboard.DiscardStale)
	assert.False(t, cnf.Chart.Decoration)

	// untouched by the file
	assert.Equal(t, "1.0.0", cnf.AppVersion)
	assert.Equal(t, 30*time.Second, cnf.Provider.Timeout)
	assert.Equal(t, "http://v1.yiketianqi.com", cnf.Provider.BaseURL)
}

func TestLoad_EnvironmentOverridesYAML(t *testing.T) {
	t.Setenv("APP_NAME", "env-app")
	t.Setenv("PROVIDER_APP_ID", "env-id")
	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "5m")
	t.Setenv("DASHBOARD_DEFAULT_CITY_ID", "101010100")
	t.Setenv("CHART_TITLE", "week")
	t.Setenv("PROVIDER_TIMEOUT", "5s")

	cnf, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-app", cnf.AppName)
	assert.Equal(t, "env-id", cnf.Provider.AppID)
	assert.Equal(t, "yaml-secret", cnf.Provider.AppSecret)
	assert.Equal(t, 5*time.Minute, cnf.Dashboard.RefreshInterval)
	assert.Equal(t, "101010100", cnf.Dashboard.DefaultCityID)
	assert.Equal(t, "week", cnf.Chart.Title)
	assert.Equal(t, 5*time.Second, cnf.Provider.Timeout)
}

func TestLoad_ProviderTimeoutIsDuration(t *testing.T) {
	t.Setenv("PROVIDER_APP_ID", "id")
	t.Setenv("PROVIDER_APP_SECRET", "secret")

	cnf, err := Load(writeConfig(t, "provider:\n  timeout: 1500ms\n"))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cnf.Provider.Timeout)

	_, err = Load(writeConfig(t, "provider:\n  timeout: soon\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML config")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PROVIDER_APP_ID", "id")
	t.Setenv("PROVIDER_APP_SECRET", "secret")

	cnf, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "weather-dashboard", cnf.AppName)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "port: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML config")
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("DASHBOARD_SEARCH_DEBOUNCE", "soon")

	_, err := Load(writeConfig(t, testYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error environment variable parsing")
}

func TestConfigValidation(t *testing.T) {
	cnf := Default()
	err := cnf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider.app_id is required")
	assert.Contains(t, err.Error(), "provider.app_secret is required")

	cnf.Provider.AppID = "id"
	cnf.Provider.AppSecret = "secret"
	assert.NoError(t, cnf.Validate())

	cnf.AppName = ""
	cnf.Dashboard.RefreshInterval = 0
	err = cnf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app_name is required")
	assert.Contains(t, err.Error(), "dashboard.refresh_interval must be positive")
}

func TestShippedConfigFile(t *testing.T) {
	cnf, err := Load("config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "weather-dashboard", cnf.AppName)
	assert.NotEmpty(t, cnf.Provider.AppID)
	assert.Equal(t, 30*time.Second, cnf.Provider.Timeout)
	assert.Equal(t, time.Hour, cnf.Dashboard.RefreshInterval)
}
