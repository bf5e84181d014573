package auth

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/Azure/msgraph-snippets/internal/config"
)

// EntraValidator validates Microsoft Entra ID tokens against the tenant's
// published signing keys.
type EntraValidator struct {
	clientID  string
	tenantID  string
	issuers   []string
	audiences []string
	jwksURL   string
	jwksCache *jwk.Cache
}

// NewEntraValidator registers the tenant's JWKS endpoint in an auto-refreshing cache.
func NewEntraValidator(ctx context.Context, cfg *config.AuthConfig) (*EntraValidator, error) {
	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}

	refresh := time.Duration(cfg.JWKSCacheTimeout/2) * time.Second
	if refresh < 15*time.Minute {
		refresh = 15 * time.Minute
	}

	jwksURL := cfg.GetJWKSURL()
	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(refresh)); err != nil {
		return nil, fmt.Errorf("failed to register JWKS cache: %w", err)
	}

	return &EntraValidator{
		clientID: cfg.EntraClientID,
		tenantID: cfg.EntraTenantID,
		issuers: []string{
			cfg.GetIssuer(),
			fmt.Sprintf("https://sts.windows.net/%s/", cfg.EntraTenantID),
		},
		audiences: []string{
			cfg.EntraClientID,
			"api://" + cfg.EntraClientID,
		},
		jwksURL:   jwksURL,
		jwksCache: cache,
	}, nil
}

// keyFunc resolves the RSA key named by the token's kid header.
func (v *EntraValidator) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("missing kid in token header")
		}

		keySet, err := v.jwksCache.Get(ctx, v.jwksURL)
		if err != nil {
			return nil, fmt.Errorf("failed to get JWKS: %w", err)
		}
		key, found := keySet.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("key %s not found in JWKS", kid)
		}

		var raw interface{}
		if err := key.Raw(&raw); err != nil {
			return nil, fmt.Errorf("failed to get raw key: %w", err)
		}
		return raw, nil
	}
}

// ValidateToken verifies the signature, expiry, tenant, audience and issuer
// of tokenString.
func (v *EntraValidator) ValidateToken(ctx context.Context, tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyFunc(ctx))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if err := v.validateClaims(claims); err != nil {
		return nil, err
	}
	return claims.principal(), nil
}

func (v *EntraValidator) validateClaims(claims *Claims) error {
	if claims.TenantID != v.tenantID {
		return fmt.Errorf("invalid tenant ID: expected %s, got %s", v.tenantID, claims.TenantID)
	}

	if len(claims.Audience) == 0 {
		return fmt.Errorf("missing audience claim")
	}
	if !slices.ContainsFunc(claims.Audience, func(aud string) bool { return slices.Contains(v.audiences, aud) }) {
		return fmt.Errorf("invalid audience: expected %v, got %v", v.audiences, []string(claims.Audience))
	}

	if !slices.Contains(v.issuers, claims.Issuer) {
		return fmt.Errorf("invalid issuer: expected one of %v, got %s", v.issuers, claims.Issuer)
	}
	return nil
}
