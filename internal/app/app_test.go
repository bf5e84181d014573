package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azure/msgraph-snippets/internal/auth"
	"github.com/Azure/msgraph-snippets/internal/config"
	"github.com/Azure/msgraph-snippets/internal/credential"
	"github.com/Azure/msgraph-snippets/internal/snippets"
)

type graphStub struct {
	*httptest.Server
	mu      sync.Mutex
	paths   []string
	bearers []string
	bodies  []string
}

func newGraphStub(t *testing.T) *graphStub {
	t.Helper()
	g := &graphStub{}
	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		g.mu.Lock()
		g.paths = append(g.paths, r.Method+" "+r.URL.Path)
		g.bearers = append(g.bearers, r.Header.Get("Authorization"))
		g.bodies = append(g.bodies, string(body))
		g.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":"new"}`)
			return
		}
		_, _ = io.WriteString(w, `{"value":[{"displayName":"Adele Vance"}]}`)
	}))
	t.Cleanup(g.Close)
	return g
}

func newTestApp(t *testing.T, endpoint string, store credential.Store, input string, opts ...Option) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Endpoint = endpoint
	cfg.LogLevel = config.LogLevelNone

	out := &bytes.Buffer{}
	opts = append([]Option{WithStore(store), WithIO(strings.NewReader(input), out)}, opts...)
	a, err := New(cfg, opts...)
	require.NoError(t, err)
	return a, out
}

func TestNewRejectsBadEndpoint(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Endpoint = "not a url"
	_, err := New(cfg, WithStore(credential.NewMemoryStore(credential.Credential{})))
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	a, out := newTestApp(t, "https://graph.example", credential.NewMemoryStore(credential.Credential{}), "")

	require.NoError(t, a.Execute(context.Background(), []string{"list"}))
	text := out.String()
	assert.Contains(t, text, "USERS")
	assert.Contains(t, text, "CONTACTS")
	for _, op := range snippets.Executable() {
		assert.Contains(t, text, op.Name)
	}
	assert.Less(t, strings.Index(text, "USERS"), strings.Index(text, "CONTACTS"))

	out.Reset()
	require.NoError(t, a.Execute(context.Background(), []string{"list", "contacts"}))
	assert.Contains(t, out.String(), "get_all_contacts")
	assert.NotContains(t, out.String(), "get_organization_users")

	assert.ErrorIs(t, a.Execute(context.Background(), []string{"list", "calendar"}), snippets.ErrUnknownCategory)
}

func TestRunSendsStoredToken(t *testing.T) {
	g := newGraphStub(t)
	store := credential.NewMemoryStore(credential.New("stored-token", "contoso.com"))
	a, out := newTestApp(t, g.URL, store, "")

	require.NoError(t, a.Execute(context.Background(), []string{"run", "get_all_contacts", "insert_organization_user"}))

	assert.Equal(t, []string{"GET /v1.0/contacts", "POST /v1.0/users"}, g.paths)
	assert.Equal(t, []string{"Bearer stored-token", "Bearer stored-token"}, g.bearers)
	assert.Contains(t, g.bodies[1], "@contoso.com")
	assert.Contains(t, out.String(), "  \"value\": [")
	assert.Contains(t, out.String(), `"id": "new"`)
}

func TestRunErrors(t *testing.T) {
	a, _ := newTestApp(t, "https://graph.example", credential.NewMemoryStore(credential.Credential{}), "")

	assert.Error(t, a.Execute(context.Background(), []string{"run"}))
	assert.ErrorIs(t, a.Execute(context.Background(), []string{"run", "users"}), snippets.ErrUnknownOperation)
	assert.ErrorIs(t, a.Execute(context.Background(), []string{"run", "nope"}), snippets.ErrUnknownOperation)
	assert.ErrorIs(t, a.Execute(context.Background(), []string{"frobnicate"}), ErrUnknownCommand)
}

type tokenCredential string

func (c tokenCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: string(c)}, nil
}

func TestSignInAndSignOut(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{UPN: "adele@contoso.onmicrosoft.com"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	store := credential.NewMemoryStore(credential.Credential{})
	factory := func(cfg *config.SignInConfig, prompt func(string)) (azcore.TokenCredential, error) {
		prompt("To sign in, open https://microsoft.com/devicelogin and enter the code ABC")
		return tokenCredential(token), nil
	}
	a, out := newTestApp(t, "https://graph.example", store, "", WithCredentialFactory(factory))

	require.NoError(t, a.Execute(context.Background(), []string{"signin"}))
	assert.Contains(t, out.String(), "devicelogin")
	assert.Contains(t, out.String(), "contoso.onmicrosoft.com")

	cred, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, token, cred.TokenValue())
	assert.Equal(t, "contoso.onmicrosoft.com", a.Dispatcher().RequestContext().Credential.Tenant())

	require.NoError(t, a.Execute(context.Background(), []string{"signout"}))
	cred, err = store.Load()
	require.NoError(t, err)
	assert.False(t, cred.HasToken())
}

func TestShell(t *testing.T) {
	g := newGraphStub(t)
	input := strings.Join([]string{
		"list contacts",
		"",
		"bogus",
		`run "get_all_contacts"`,
		"serve",
		`run "unterminated`,
		"exit",
		"list",
	}, "\n")
	a, out := newTestApp(t, g.URL, credential.NewMemoryStore(credential.New("tok", "")), input)

	require.NoError(t, a.Execute(context.Background(), []string{"shell"}))

	text := out.String()
	assert.Contains(t, text, "get_all_contacts")
	assert.Contains(t, text, `error: unknown command: "bogus"`)
	assert.Contains(t, text, "Adele Vance")
	assert.Contains(t, text, "error: serve is not available inside the shell")
	assert.NotContains(t, text, "USERS", "commands after exit must not run")
	assert.Equal(t, []string{"GET /v1.0/contacts"}, g.paths)
}

func TestShellEOF(t *testing.T) {
	a, out := newTestApp(t, "https://graph.example", credential.NewMemoryStore(credential.Credential{}), "list users")
	require.NoError(t, a.Execute(context.Background(), []string{"shell"}))
	assert.Contains(t, out.String(), "insert_organization_user")
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", prettyJSON([]byte(`{"a":1}`)))
	assert.Equal(t, "plain text", prettyJSON([]byte("plain text")))

	var v map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(prettyJSON([]byte(`{"b":[1,2]}`))), &v))
}
