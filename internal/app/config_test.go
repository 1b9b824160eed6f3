package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, DefaultConfigTenant, cfg.Auth.Tenant)
	assert.Equal(t, TokenStorageTypeFile, cfg.Auth.Storage)
	assert.NotEmpty(t, cfg.Auth.CacheDir)
	assert.Equal(t, DefaultConfigAPIRegion, cfg.API.Region)
	assert.Equal(t, DefaultConfigAPITimeout, cfg.API.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestApplyDefaultsKeyringUser(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.Storage = TokenStorageTypeKeyring
	require.NoError(t, cfg.ApplyDefaults())

	assert.NotEmpty(t, cfg.Auth.KeyringUser)
	assert.Empty(t, cfg.Auth.CacheDir)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Auth.Tenant = "contoso.onmicrosoft.com"
	cfg.API.Region = "apac"
	require.NoError(t, cfg.ApplyDefaults())

	assert.Equal(t, "contoso.onmicrosoft.com", cfg.Auth.Tenant)
	assert.Equal(t, "apac", cfg.API.Region)
}

func TestValidateRejectsBadEnums(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.API.Region = "mars"
	assert.Error(t, cfg.Validate())

	cfg.API.Region = DefaultConfigAPIRegion
	cfg.Output.Format = "yaml"
	assert.Error(t, cfg.Validate())
}

func TestNewCacheStoreUnsupported(t *testing.T) {
	a := &AuthConfig{Storage: "vault"}
	_, err := a.NewCacheStore()
	assert.Error(t, err)
}
