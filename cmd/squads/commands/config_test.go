package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymericcousaert/squads-cli/internal/app"
)

func noEnv() []string { return nil }

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", nil, noEnv)
	require.NoError(t, err)

	assert.Equal(t, app.DefaultConfigTenant, cfg.Auth.Tenant)
	assert.Equal(t, app.TokenStorageTypeFile, cfg.Auth.Storage)
	assert.NotEmpty(t, cfg.Auth.CacheDir)
	assert.Equal(t, "emea", cfg.API.Region)
	assert.Equal(t, app.DefaultConfigAPITimeout, cfg.API.Timeout)
	assert.Equal(t, app.OutputFormatTable, cfg.Output.Format)
	assert.Equal(t, app.LogFormatText, cfg.LogFormat)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_format = "json"

[auth]
tenant = "contoso.onmicrosoft.com"

[api]
region = "apac"
`), 0600))

	cfg, err := loadConfig(path, nil, noEnv)
	require.NoError(t, err)

	assert.Equal(t, app.LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "contoso.onmicrosoft.com", cfg.Auth.Tenant)
	assert.Equal(t, "apac", cfg.API.Region)
	// Untouched fields still get defaults.
	assert.Equal(t, app.OutputFormatTable, cfg.Output.Format)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
region = "apac"
`), 0600))

	env := func() []string {
		return []string{
			"SQUADS_API__REGION=amer",
			"SQUADS_AUTH__TENANT=env-tenant",
			"SQUADS_OUTPUT__FORMAT=json",
		}
	}

	cfg, err := loadConfig(path, nil, env)
	require.NoError(t, err)

	assert.Equal(t, "amer", cfg.API.Region)
	assert.Equal(t, "env-tenant", cfg.Auth.Tenant)
	assert.Equal(t, app.OutputFormatJSON, cfg.Output.Format)
}

func TestLoadConfigIgnoresUnprefixedEnv(t *testing.T) {
	env := func() []string {
		return []string{"API__REGION=amer", "HOME=/home/nobody"}
	}

	cfg, err := loadConfig("", nil, env)
	require.NoError(t, err)
	assert.Equal(t, "emea", cfg.API.Region)
}

func TestLoadConfigInvalidRegion(t *testing.T) {
	env := func() []string {
		return []string{"SQUADS_API__REGION=mars"}
	}

	_, err := loadConfig("", nil, env)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"), nil, noEnv)
	assert.Error(t, err)
}
