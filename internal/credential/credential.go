// Package credential holds the signed-in bearer token and tenant, and the
// stores that persist them between runs.
package credential

import (
	"errors"

	"github.com/Azure/msgraph-snippets/internal/logger"
)

// ErrNotSignedIn is returned by callers that require a token when none is stored.
var ErrNotSignedIn = errors.New("not signed in: run the signin command first")

// Credential is the bearer token and tenant domain written by sign-in.
// Both fields are optional; nil means "not set".
type Credential struct {
	Token    *string
	TenantID *string
}

// New returns a credential with both fields set. Empty strings are stored as unset.
func New(token, tenantID string) Credential {
	var c Credential
	if token != "" {
		c.Token = &token
	}
	if tenantID != "" {
		c.TenantID = &tenantID
	}
	return c
}

// HasToken reports whether a non-empty token is present.
func (c Credential) HasToken() bool {
	return c.Token != nil && *c.Token != ""
}

// TokenValue returns the token or "".
func (c Credential) TokenValue() string {
	if c.Token == nil {
		return ""
	}
	return *c.Token
}

// Tenant returns the tenant or "".
func (c Credential) Tenant() string {
	if c.TenantID == nil {
		return ""
	}
	return *c.TenantID
}

// Source returns the credential as it is at the time of the call.
type Source func() Credential

// Static returns a Source that always yields c.
func Static(c Credential) Source {
	return func() Credential { return c }
}

// StoreSource reads store on every call. Load failures are logged and
// reported as an empty credential so the request goes out unauthenticated
// and the service answers with its own error.
func StoreSource(store Store) Source {
	return func() Credential {
		c, err := store.Load()
		if err != nil {
			logger.Warnf("Failed to load credential: %v", err)
			return Credential{}
		}
		return c
	}
}
