package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/msgraph-snippets/internal/config"
	"github.com/Azure/msgraph-snippets/internal/logger"
)

type principalKey struct{}

// PrincipalFromContext returns the caller attached by the middleware, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

// TokenValidator checks a bearer token.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*Principal, error)
}

// HTTPAuthMiddleware rejects MCP HTTP requests without a valid Entra ID token.
type HTTPAuthMiddleware struct {
	transport string
	config    *config.AuthConfig
	validator TokenValidator
}

// NewHTTPAuthMiddleware builds the middleware for transport. The validator is
// only created when authentication applies to that transport.
func NewHTTPAuthMiddleware(ctx context.Context, cfg *config.AuthConfig, transport string) (*HTTPAuthMiddleware, error) {
	m := &HTTPAuthMiddleware{transport: transport, config: cfg}
	if cfg == nil || !cfg.ShouldAuthenticate(transport) {
		return m, nil
	}

	validator, err := NewEntraValidator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authentication validator: %w", err)
	}
	m.validator = validator
	return m, nil
}

// Middleware enforces authentication on next.
func (m *HTTPAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.validator == nil {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			m.sendUnauthorized(w, "Missing Authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			m.sendUnauthorized(w, "Invalid Authorization header format. Expected 'Bearer <token>'")
			return
		}
		if token == "" {
			m.sendUnauthorized(w, "Empty token")
			return
		}

		principal, err := m.validator.ValidateToken(r.Context(), token)
		if err != nil {
			logger.Debugf("Rejected token on %s: %v", r.URL.Path, err)
			m.sendUnauthorized(w, "Invalid token: "+err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, principal)))
	})
}

// sendUnauthorized writes a JSON-RPC error body with status 401.
func (m *HTTPAuthMiddleware) sendUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="msgraph-snippets"`)
	w.WriteHeader(http.StatusUnauthorized)

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    -32600,
			"message": "Authentication required",
			"data":    message,
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Errorf("Failed to encode unauthorized response: %v", err)
	}
}
