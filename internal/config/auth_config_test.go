package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAuthConfig(t *testing.T) {
	config := NewAuthConfig()

	assert.False(t, config.Enabled)
	assert.Equal(t, DefaultAuthority, config.EntraAuthority)
	assert.Equal(t, 3600, config.JWKSCacheTimeout)
	assert.True(t, config.RequireAuthForHTTP)
	assert.Empty(t, config.EntraClientID)
	assert.Empty(t, config.EntraTenantID)
}

func TestAuthConfig_ShouldAuthenticate(t *testing.T) {
	tests := []struct {
		name               string
		enabled            bool
		requireAuthForHTTP bool
		transport          string
		expected           bool
	}{
		{"disabled auth - stdio transport", false, true, TransportStdio, false},
		{"disabled auth - http transport", false, true, TransportStreamableHTTP, false},
		{"enabled auth - stdio transport", true, true, TransportStdio, false},
		{"enabled auth - http transport", true, true, TransportStreamableHTTP, true},
		{"enabled auth - sse transport", true, true, TransportSSE, true},
		{"enabled auth - http not required", true, false, TransportStreamableHTTP, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &AuthConfig{
				Enabled:            tt.enabled,
				RequireAuthForHTTP: tt.requireAuthForHTTP,
			}
			assert.Equal(t, tt.expected, config.ShouldAuthenticate(tt.transport))
		})
	}
}

func TestAuthConfig_ValidateConfig(t *testing.T) {
	tests := []struct {
		name        string
		config      *AuthConfig
		expectError string
	}{
		{
			name:   "disabled auth needs nothing",
			config: &AuthConfig{Enabled: false},
		},
		{
			name: "complete config",
			config: &AuthConfig{
				Enabled:          true,
				EntraClientID:    "client",
				EntraTenantID:    "tenant",
				JWKSCacheTimeout: 3600,
			},
		},
		{
			name:        "missing client id",
			config:      &AuthConfig{Enabled: true, EntraTenantID: "tenant", JWKSCacheTimeout: 1},
			expectError: "entra_client_id is required",
		},
		{
			name:        "missing tenant id",
			config:      &AuthConfig{Enabled: true, EntraClientID: "client", JWKSCacheTimeout: 1},
			expectError: "entra_tenant_id is required",
		},
		{
			name:        "non-positive cache timeout",
			config:      &AuthConfig{Enabled: true, EntraClientID: "client", EntraTenantID: "tenant"},
			expectError: "jwks_cache_timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateConfig()
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.expectError)
		})
	}
}

func TestAuthConfig_URLs(t *testing.T) {
	tests := []struct {
		name      string
		authority string
		issuer    string
		jwks      string
	}{
		{
			name:      "public cloud",
			authority: "https://login.microsoftonline.com",
			issuer:    "https://login.microsoftonline.com/tenant/v2.0",
			jwks:      "https://login.microsoftonline.com/tenant/discovery/v2.0/keys",
		},
		{
			name:      "trailing slash",
			authority: "https://login.chinacloudapi.cn/",
			issuer:    "https://login.chinacloudapi.cn/tenant/v2.0",
			jwks:      "https://login.chinacloudapi.cn/tenant/discovery/v2.0/keys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &AuthConfig{EntraAuthority: tt.authority, EntraTenantID: "tenant"}
			assert.Equal(t, tt.issuer, config.GetIssuer())
			assert.Equal(t, tt.jwks, config.GetJWKSURL())
		})
	}
}

func TestSignInConfig_ValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  SignInConfig
		wantErr bool
	}{
		{"device code with client", SignInConfig{Method: SignInDeviceCode, ClientID: "c"}, false},
		{"device code without client", SignInConfig{Method: SignInDeviceCode}, true},
		{"azure cli", SignInConfig{Method: SignInAzureCLI}, false},
		{"default chain", SignInConfig{Method: SignInDefault}, false},
		{"token", SignInConfig{Method: SignInToken, Token: "abc"}, false},
		{"token missing", SignInConfig{Method: SignInToken}, true},
		{"unknown", SignInConfig{Method: "password"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateConfig()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
