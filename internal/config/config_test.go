package config

import (
	"testing"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, "v1.0", cfg.APIVersion)
	assert.Equal(t, DefaultPrefsNamespace, cfg.PrefsNamespace)
	assert.NotEmpty(t, cfg.PrefsPath)
	assert.Equal(t, LogLevelFull, cfg.LogLevel)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, 60*time.Second, cfg.ClientTimeout())
	assert.Equal(t, SignInDeviceCode, cfg.SignIn.Method)
	assert.False(t, cfg.Auth.Enabled)
}

func TestParseArgs(t *testing.T) {
	cfg := NewConfig()
	err := cfg.ParseArgs("msgraph-snippets", []string{
		"--endpoint", "https://graph.example.com/",
		"--api-version", "/beta/",
		"--http-log-level", "BASIC",
		"run", "get_organization_users",
		"-v",
		"--port", "9000",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://graph.example.com", cfg.Endpoint)
	assert.Equal(t, "beta", cfg.APIVersion)
	assert.Equal(t, LogLevelBasic, cfg.LogLevel)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "127.0.0.1:9000", cfg.Address())
	assert.Equal(t, []string{"run", "get_organization_users"}, cfg.Args)
	assert.Equal(t, "run", cfg.Command())
}

func TestParseArgsHelp(t *testing.T) {
	cfg := NewConfig()
	err := cfg.ParseArgs("msgraph-snippets", []string{"--help"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestParseArgsUnknownFlag(t *testing.T) {
	cfg := NewConfig()
	err := cfg.ParseArgs("msgraph-snippets", []string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MSGRAPH_SNIPPETS_TOKEN", "env-token")
	t.Setenv("MSGRAPH_SNIPPETS_TENANT_DOMAIN", "contoso.com")
	t.Setenv("MSGRAPH_SNIPPETS_AUTH_ENABLED", "true")

	cfg := NewConfig()
	require.NoError(t, cfg.ParseArgs("msgraph-snippets", []string{"--token", "flag-token"}))

	// flags win over the environment
	assert.Equal(t, "flag-token", cfg.SignIn.Token)
	assert.Equal(t, "contoso.com", cfg.SignIn.TenantDomain)
	assert.True(t, cfg.Auth.Enabled)
}

func TestCommandWithoutArgs(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "", cfg.Command())
}

func TestValidator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *ConfigData)
		valid   bool
		message string
	}{
		{
			name:   "defaults",
			mutate: func(cfg *ConfigData) {},
			valid:  true,
		},
		{
			name:    "relative endpoint",
			mutate:  func(cfg *ConfigData) { cfg.Endpoint = "graph.microsoft.com" },
			message: "invalid endpoint",
		},
		{
			name:    "empty version",
			mutate:  func(cfg *ConfigData) { cfg.APIVersion = "" },
			message: "invalid api-version",
		},
		{
			name:    "unknown log level",
			mutate:  func(cfg *ConfigData) { cfg.LogLevel = "loud" },
			message: "invalid http-log-level",
		},
		{
			name:    "unknown transport",
			mutate:  func(cfg *ConfigData) { cfg.Transport = "grpc" },
			message: "invalid transport",
		},
		{
			name: "bad port for http transport",
			mutate: func(cfg *ConfigData) {
				cfg.Transport = TransportSSE
				cfg.Port = 0
			},
			message: "invalid port",
		},
		{
			name:    "zero timeout",
			mutate:  func(cfg *ConfigData) { cfg.Timeout = 0 },
			message: "timeout must be positive",
		},
		{
			name:    "token method without token",
			mutate:  func(cfg *ConfigData) { cfg.SignIn.Method = SignInToken },
			message: "a token is required",
		},
		{
			name:    "auth enabled without client id",
			mutate:  func(cfg *ConfigData) { cfg.Auth.Enabled = true },
			message: "entra_client_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			v := NewValidator(cfg)
			assert.Equal(t, tt.valid, v.Validate())
			if tt.valid {
				assert.Empty(t, v.GetErrors())
				return
			}
			require.NotEmpty(t, v.GetErrors())
			assert.Contains(t, v.GetErrors()[0], tt.message)
		})
	}
}
