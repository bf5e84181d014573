package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Azure/msgraph-snippets/internal/logger"
	"github.com/Azure/msgraph-snippets/internal/telemetry"
	"github.com/Azure/msgraph-snippets/internal/version"
	flag "github.com/spf13/pflag"
)

const (
	// DefaultEndpoint is the Microsoft Graph root for the public cloud.
	DefaultEndpoint = "https://graph.microsoft.com"
	// DefaultAPIVersion is the Graph version segment prepended to every path.
	DefaultAPIVersion = "v1.0"
	// DefaultPrefsNamespace is the key the credential is stored under in the
	// preferences file.
	DefaultPrefsNamespace = "com.microsoft.o365_android_unified_API_REST_snippets"
)

// Transports supported by the serve command.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// HTTP log levels, from quietest to noisiest.
const (
	LogLevelNone    = "none"
	LogLevelBasic   = "basic"
	LogLevelHeaders = "headers"
	LogLevelFull    = "full"
)

const envPrefix = "MSGRAPH_SNIPPETS_"

// ConfigData holds the global configuration
type ConfigData struct {
	// Graph endpoint and version
	Endpoint   string
	APIVersion string

	// Preferences file holding the signed-in credential
	PrefsPath      string
	PrefsNamespace string

	// HTTP client timeout in seconds
	Timeout int
	// HTTP pipeline log level (none, basic, headers, full)
	LogLevel string
	// Verbose logging
	Verbose bool

	// Serve options
	Transport string
	Host      string
	Port      int

	// OTLP endpoint for OpenTelemetry traces
	OTLPEndpoint string
	// Application Insights instrumentation key
	AppInsightsKey string

	// Telemetry service, set by InitializeTelemetry
	TelemetryService *telemetry.Service

	Auth   *AuthConfig
	SignIn *SignInConfig

	// Positional arguments: the command and its operands
	Args []string
}

// NewConfig creates and returns a new configuration instance
func NewConfig() *ConfigData {
	return &ConfigData{
		Endpoint:       DefaultEndpoint,
		APIVersion:     DefaultAPIVersion,
		PrefsPath:      defaultPrefsPath(),
		PrefsNamespace: DefaultPrefsNamespace,
		Timeout:        60,
		LogLevel:       LogLevelFull,
		Transport:      TransportStdio,
		Host:           "127.0.0.1",
		Port:           8000,
		Auth:           NewAuthConfig(),
		SignIn:         NewSignInConfig(),
	}
}

func defaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "msgraph-snippets-prefs.yaml"
	}
	return filepath.Join(home, ".msgraph-snippets", "prefs.yaml")
}

// RegisterFlags binds every option to fs.
func (cfg *ConfigData) RegisterFlags(fs *flag.FlagSet) {
	// Graph settings
	fs.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "Microsoft Graph endpoint")
	fs.StringVar(&cfg.APIVersion, "api-version", cfg.APIVersion, "Microsoft Graph API version (v1.0 or beta)")
	fs.IntVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP client timeout in seconds")
	fs.StringVar(&cfg.LogLevel, "http-log-level", cfg.LogLevel, "HTTP log level (none, basic, headers, full)")

	// Credential storage
	fs.StringVar(&cfg.PrefsPath, "prefs", cfg.PrefsPath, "Preferences file holding the signed-in credential")
	fs.StringVar(&cfg.PrefsNamespace, "prefs-namespace", cfg.PrefsNamespace, "Key the credential is stored under in the preferences file")

	// Sign-in settings
	fs.StringVar(&cfg.SignIn.Method, "signin-method", cfg.SignIn.Method, "Sign-in method (devicecode, cli, default, token)")
	fs.StringVar(&cfg.SignIn.ClientID, "signin-client-id", cfg.SignIn.ClientID, "Public client ID used by the device code flow")
	fs.StringVar(&cfg.SignIn.TenantID, "signin-tenant-id", cfg.SignIn.TenantID, "Tenant to sign in to")
	fs.StringVar(&cfg.SignIn.Token, "token", "", "Bearer token to store when --signin-method=token")
	fs.StringVar(&cfg.SignIn.TenantDomain, "tenant-domain", "", "Tenant domain used for new user principal names (default: read from the token)")

	// Server configuration
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport mechanism to use (stdio, sse or streamable-http)")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Host to listen for the server (only used with transport sse or streamable-http)")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Port to listen for the server (only used with transport sse or streamable-http)")

	// Authentication settings
	fs.BoolVar(&cfg.Auth.Enabled, "auth-enabled", cfg.Auth.Enabled, "Require Entra ID tokens on HTTP transports")
	fs.StringVar(&cfg.Auth.EntraClientID, "auth-client-id", "", "Entra ID client ID accepted as token audience")
	fs.StringVar(&cfg.Auth.EntraTenantID, "auth-tenant-id", "", "Entra ID tenant ID accepted as token issuer")
	fs.StringVar(&cfg.Auth.EntraAuthority, "auth-authority", cfg.Auth.EntraAuthority, "Entra ID authority URL")
	fs.IntVar(&cfg.Auth.JWKSCacheTimeout, "auth-jwks-cache-timeout", cfg.Auth.JWKSCacheTimeout, "JWKS cache timeout in seconds")
	fs.BoolVar(&cfg.Auth.RequireAuthForHTTP, "auth-require-for-http", cfg.Auth.RequireAuthForHTTP, "Require authentication for HTTP transports")

	// Logging and telemetry
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose logging")
	fs.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", "", "OTLP endpoint for OpenTelemetry traces (e.g. localhost:4317)")
	fs.StringVar(&cfg.AppInsightsKey, "appinsights-key", "", "Application Insights instrumentation key")
}

// ParseArgs parses args into cfg using a fresh flag set. It returns
// flag.ErrHelp when -h/--help was given.
func (cfg *ConfigData) ParseArgs(name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.RegisterFlags(fs)

	var showHelp bool
	fs.BoolVarP(&showHelp, "help", "h", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if showHelp {
		return flag.ErrHelp
	}

	cfg.Args = fs.Args()
	cfg.loadFromEnv()
	cfg.normalize()
	return nil
}

// ParseFlags parses command line arguments and updates the configuration
func (cfg *ConfigData) ParseFlags() {
	showVersion := false
	for _, arg := range os.Args[1:] {
		if arg == "--version" {
			showVersion = true
		}
	}
	if showVersion {
		cfg.PrintVersion()
		os.Exit(0)
	}

	err := cfg.ParseArgs(os.Args[0], os.Args[1:])
	if err == flag.ErrHelp {
		cfg.PrintUsage()
		os.Exit(0)
	}
	if err != nil {
		fmt.Printf("%v\n\n", err)
		cfg.PrintUsage()
		os.Exit(1)
	}
}

// PrintUsage prints commands and flags.
func (cfg *ConfigData) PrintUsage() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	fmt.Printf("Usage: %s [flags] <command> [args]\n\n", filepath.Base(os.Args[0]))
	fmt.Println("Commands:")
	fmt.Println("  list [users|contacts]   List snippets, optionally for one category")
	fmt.Println("  run <snippet>           Run a snippet and print the response body")
	fmt.Println("  signin                  Acquire a Microsoft Graph token and store it")
	fmt.Println("  signout                 Remove the stored token")
	fmt.Println("  serve                   Expose the snippets as MCP tools")
	fmt.Println("  shell                   Read commands from stdin")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Print(fs.FlagUsages())
}

// loadFromEnv fills settings left at their defaults from MSGRAPH_SNIPPETS_* variables.
func (cfg *ConfigData) loadFromEnv() {
	if v := os.Getenv(envPrefix + "ENDPOINT"); v != "" && cfg.Endpoint == DefaultEndpoint {
		cfg.Endpoint = v
	}
	if v := os.Getenv(envPrefix + "API_VERSION"); v != "" && cfg.APIVersion == DefaultAPIVersion {
		cfg.APIVersion = v
	}
	if v := os.Getenv(envPrefix + "TOKEN"); v != "" && cfg.SignIn.Token == "" {
		cfg.SignIn.Token = v
	}
	if v := os.Getenv(envPrefix + "TENANT_DOMAIN"); v != "" && cfg.SignIn.TenantDomain == "" {
		cfg.SignIn.TenantDomain = v
	}
	if v := os.Getenv(envPrefix + "AUTH_ENTRA_CLIENT_ID"); v != "" && cfg.Auth.EntraClientID == "" {
		cfg.Auth.EntraClientID = v
	}
	if v := os.Getenv(envPrefix + "AUTH_ENTRA_TENANT_ID"); v != "" && cfg.Auth.EntraTenantID == "" {
		cfg.Auth.EntraTenantID = v
	}
	if os.Getenv(envPrefix+"AUTH_ENABLED") == "true" {
		cfg.Auth.Enabled = true
	}
	if v := os.Getenv("APPLICATIONINSIGHTS_INSTRUMENTATION_KEY"); v != "" && cfg.AppInsightsKey == "" {
		cfg.AppInsightsKey = v
	}
}

func (cfg *ConfigData) normalize() {
	cfg.Endpoint = strings.TrimSuffix(cfg.Endpoint, "/")
	cfg.APIVersion = strings.Trim(cfg.APIVersion, "/")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
}

// Command returns the first positional argument, or "" when there is none.
func (cfg *ConfigData) Command() string {
	if len(cfg.Args) == 0 {
		return ""
	}
	return cfg.Args[0]
}

// ClientTimeout returns Timeout as a duration.
func (cfg *ConfigData) ClientTimeout() time.Duration {
	return time.Duration(cfg.Timeout) * time.Second
}

// Address returns host:port for the HTTP transports.
func (cfg *ConfigData) Address() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// InitializeTelemetry initializes the telemetry service
func (cfg *ConfigData) InitializeTelemetry(ctx context.Context, serviceName, serviceVersion string) {
	telemetryConfig := telemetry.NewConfig(serviceName, serviceVersion)
	if cfg.OTLPEndpoint != "" {
		telemetryConfig.SetOTLPEndpoint(cfg.OTLPEndpoint)
	}
	if cfg.AppInsightsKey != "" {
		telemetryConfig.SetInstrumentationKey(cfg.AppInsightsKey)
	}

	cfg.TelemetryService = telemetry.NewService(telemetryConfig)
	if err := cfg.TelemetryService.Initialize(ctx); err != nil {
		// Continue without telemetry - this is not a fatal error
		logger.Warnf("Failed to initialize telemetry: %v", err)
	}

	cfg.TelemetryService.TrackServiceStartup(ctx)
}

// PrintVersion prints version information
func (cfg *ConfigData) PrintVersion() {
	versionInfo := version.GetVersionInfo()
	fmt.Printf("msgraph-snippets version %s\n", versionInfo["version"])
	fmt.Printf("Git commit: %s\n", versionInfo["gitCommit"])
	fmt.Printf("Git tree state: %s\n", versionInfo["gitTreeState"])
	fmt.Printf("Go version: %s\n", versionInfo["goVersion"])
	fmt.Printf("Platform: %s\n", versionInfo["platform"])
}
