// Package auth reads Entra ID access tokens: unverified, to learn which
// tenant a sign-in belongs to, and verified, to guard the MCP HTTP transports.
package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of Entra ID access token claims used here.
type Claims struct {
	jwt.RegisteredClaims
	TenantID          string   `json:"tid"`
	Scope             string   `json:"scp"`
	Roles             []string `json:"roles"`
	AppID             string   `json:"appid"`
	PreferredUsername string   `json:"preferred_username"`
	UniqueName        string   `json:"unique_name"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	ObjectID          string   `json:"oid"`
	UPN               string   `json:"upn"`
}

// Principal is the caller identified by a validated token.
type Principal struct {
	UserID   string   `json:"user_id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	TenantID string   `json:"tenant_id"`
	Scopes   []string `json:"scopes"`
}

// ParseUnverified decodes token without checking its signature. Only use the
// result for display or routing decisions, never for authorization.
func ParseUnverified(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}

// TenantDomain returns the domain of the signed-in account (the part after
// '@' in upn, preferred_username or unique_name), falling back to the tenant id.
func (c *Claims) TenantDomain() string {
	for _, name := range []string{c.UPN, c.PreferredUsername, c.UniqueName} {
		if i := strings.LastIndex(name, "@"); i >= 0 && i < len(name)-1 {
			return name[i+1:]
		}
	}
	return c.TenantID
}

// userID prefers oid over sub.
func (c *Claims) userID() string {
	if c.ObjectID != "" {
		return c.ObjectID
	}
	return c.Subject
}

// email prefers email, then upn, then preferred_username.
func (c *Claims) email() string {
	switch {
	case c.Email != "":
		return c.Email
	case c.UPN != "":
		return c.UPN
	}
	return c.PreferredUsername
}

func (c *Claims) principal() *Principal {
	return &Principal{
		UserID:   c.userID(),
		Email:    c.email(),
		Name:     c.Name,
		TenantID: c.TenantID,
		Scopes:   strings.Fields(c.Scope),
	}
}
