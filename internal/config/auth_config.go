package config

import (
	"fmt"
	"strings"
)

const (
	// DefaultAuthority is the public cloud Entra ID authority.
	DefaultAuthority = "https://login.microsoftonline.com"

	// DefaultSignInClientID is the public client used by the Azure CLI. It is
	// pre-consented for Microsoft Graph in most tenants, which keeps the device
	// code flow usable without an app registration.
	DefaultSignInClientID = "04b07795-8ddf-4a34-a3dc-b7b4e1ad0a8b"
)

// Sign-in methods understood by the signin package.
const (
	SignInDeviceCode = "devicecode"
	SignInAzureCLI   = "cli"
	SignInDefault    = "default"
	SignInToken      = "token"
)

// AuthConfig guards the MCP server's HTTP transports with Entra ID bearer tokens.
type AuthConfig struct {
	Enabled bool `json:"enabled"`

	EntraClientID  string `json:"entra_client_id"`
	EntraTenantID  string `json:"entra_tenant_id"`
	EntraAuthority string `json:"entra_authority"`

	// seconds
	JWKSCacheTimeout int `json:"jwks_cache_timeout"`

	RequireAuthForHTTP bool `json:"require_auth_for_http"`
}

// NewAuthConfig returns inbound auth settings with authentication switched off.
func NewAuthConfig() *AuthConfig {
	return &AuthConfig{
		EntraAuthority:     DefaultAuthority,
		JWKSCacheTimeout:   3600,
		RequireAuthForHTTP: true,
	}
}

// ShouldAuthenticate reports whether requests arriving over transport must
// carry a valid token. stdio is a local pipe and is never authenticated.
func (c *AuthConfig) ShouldAuthenticate(transport string) bool {
	return c.Enabled && transport != TransportStdio && c.RequireAuthForHTTP
}

// ValidateConfig checks the settings needed to validate tokens.
func (c *AuthConfig) ValidateConfig() error {
	if !c.Enabled {
		return nil
	}
	switch {
	case c.EntraClientID == "":
		return fmt.Errorf("auth: entra_client_id is required when authentication is enabled")
	case c.EntraTenantID == "":
		return fmt.Errorf("auth: entra_tenant_id is required when authentication is enabled")
	case c.JWKSCacheTimeout <= 0:
		return fmt.Errorf("auth: jwks_cache_timeout must be positive")
	}
	return nil
}

func (c *AuthConfig) authority() string {
	return strings.TrimSuffix(c.EntraAuthority, "/")
}

// GetIssuer returns the v2.0 issuer for the configured tenant.
func (c *AuthConfig) GetIssuer() string {
	return fmt.Sprintf("%s/%s/v2.0", c.authority(), c.EntraTenantID)
}

// GetJWKSURL returns the signing key discovery endpoint for the configured tenant.
func (c *AuthConfig) GetJWKSURL() string {
	return fmt.Sprintf("%s/%s/discovery/v2.0/keys", c.authority(), c.EntraTenantID)
}

// SignInConfig selects how the signin command obtains a Microsoft Graph token.
type SignInConfig struct {
	Method   string `json:"method"`
	ClientID string `json:"client_id"`
	TenantID string `json:"tenant_id"`

	// Token is used as-is when Method is "token".
	Token string `json:"-"`

	// TenantDomain overrides the domain read from the token claims. It becomes
	// the suffix of generated user principal names.
	TenantDomain string `json:"tenant_domain"`
}

// NewSignInConfig returns sign-in settings using the device code flow.
func NewSignInConfig() *SignInConfig {
	return &SignInConfig{
		Method:   SignInDeviceCode,
		ClientID: DefaultSignInClientID,
		TenantID: "organizations",
	}
}

// ValidateConfig checks that the chosen method has what it needs.
func (c *SignInConfig) ValidateConfig() error {
	switch c.Method {
	case SignInDeviceCode:
		if c.ClientID == "" {
			return fmt.Errorf("signin: client_id is required for the %s method", c.Method)
		}
	case SignInAzureCLI, SignInDefault:
	case SignInToken:
		if c.Token == "" {
			return fmt.Errorf("signin: a token is required for the %s method", c.Method)
		}
	default:
		return fmt.Errorf("signin: unknown method %q (expected %s, %s, %s or %s)",
			c.Method, SignInDeviceCode, SignInAzureCLI, SignInDefault, SignInToken)
	}
	return nil
}
