// Package signin obtains a Microsoft Graph access token and records it,
// with the tenant domain it belongs to, in a credential store.
package signin

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/Azure/msgraph-snippets/internal/auth"
	"github.com/Azure/msgraph-snippets/internal/config"
	"github.com/Azure/msgraph-snippets/internal/credential"
	"github.com/Azure/msgraph-snippets/internal/logger"
)

// GraphScope requests every delegated permission already granted to the client.
const GraphScope = "https://graph.microsoft.com/.default"

// NewCredential returns the token credential for cfg.Method. prompt receives
// the device code instructions; it may be nil when another method is used.
func NewCredential(cfg *config.SignInConfig, prompt func(message string)) (azcore.TokenCredential, error) {
	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}

	switch cfg.Method {
	case config.SignInDeviceCode:
		if prompt == nil {
			prompt = func(message string) { logger.Infof("%s", message) }
		}
		cred, err := azidentity.NewDeviceCodeCredential(&azidentity.DeviceCodeCredentialOptions{
			ClientID: cfg.ClientID,
			TenantID: cfg.TenantID,
			UserPrompt: func(ctx context.Context, msg azidentity.DeviceCodeMessage) error {
				prompt(msg.Message)
				return nil
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create device code credential: %w", err)
		}
		return cred, nil

	case config.SignInAzureCLI:
		cred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
			TenantID: specificTenant(cfg.TenantID),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure CLI credential: %w", err)
		}
		return cred, nil

	case config.SignInDefault:
		cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			TenantID: specificTenant(cfg.TenantID),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create default credential: %w", err)
		}
		return cred, nil
	}

	return credential.NewStaticTokenCredential(cfg.Token), nil
}

// specificTenant drops the multi-tenant aliases, which the CLI and
// environment credentials do not accept.
func specificTenant(tenant string) string {
	switch tenant {
	case "organizations", "common", "consumers":
		return ""
	}
	return tenant
}

// SignIn acquires a Graph token from tc and saves it to store. The tenant is
// tenantDomain when set, otherwise it is read from the token claims.
func SignIn(ctx context.Context, tc azcore.TokenCredential, store credential.Store, tenantDomain string) (credential.Credential, error) {
	token, err := tc.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{GraphScope}})
	if err != nil {
		return credential.Credential{}, fmt.Errorf("failed to acquire token: %w", err)
	}

	tenant := tenantDomain
	if tenant == "" {
		tenant = TenantFromToken(token.Token)
	}
	if tenant == "" {
		logger.Warnf("Could not determine the tenant domain; user creation snippets will not be able to build a principal name")
	}

	cred := credential.New(token.Token, tenant)
	if err := store.Save(cred); err != nil {
		return credential.Credential{}, fmt.Errorf("failed to save credential: %w", err)
	}
	logger.Infof("Signed in to tenant %q, token expires %s", tenant, token.ExpiresOn.Format("2006-01-02 15:04:05"))
	return cred, nil
}

// TenantFromToken returns the tenant domain encoded in an access token, or ""
// when the token cannot be decoded.
func TenantFromToken(token string) string {
	claims, err := auth.ParseUnverified(token)
	if err != nil {
		logger.Debugf("Token is not a readable JWT: %v", err)
		return ""
	}
	return claims.TenantDomain()
}

// SignOut removes the stored credential.
func SignOut(store credential.Store) error {
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	logger.Infof("Signed out")
	return nil
}
