package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator handles all validation logic for the configuration
type Validator struct {
	// Configuration to validate
	config *ConfigData
	// Errors discovered during validation
	errors []string
}

// NewValidator creates a new validator instance
func NewValidator(cfg *ConfigData) *Validator {
	return &Validator{
		config: cfg,
		errors: make([]string, 0),
	}
}

func (v *Validator) addf(format string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

// validateEndpoint checks the Graph endpoint and version segment.
func (v *Validator) validateEndpoint() bool {
	u, err := url.Parse(v.config.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		v.addf("invalid endpoint %q: expected an absolute URL", v.config.Endpoint)
		return false
	}
	if v.config.APIVersion == "" || strings.Contains(v.config.APIVersion, "/") {
		v.addf("invalid api-version %q", v.config.APIVersion)
		return false
	}
	return true
}

func (v *Validator) validateLogLevel() bool {
	switch v.config.LogLevel {
	case LogLevelNone, LogLevelBasic, LogLevelHeaders, LogLevelFull:
		return true
	}
	v.addf("invalid http-log-level %q (expected none, basic, headers or full)", v.config.LogLevel)
	return false
}

func (v *Validator) validateTransport() bool {
	switch v.config.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		v.addf("invalid transport %q (expected stdio, sse or streamable-http)", v.config.Transport)
		return false
	}
	if v.config.Transport != TransportStdio && (v.config.Port <= 0 || v.config.Port > 65535) {
		v.addf("invalid port %d", v.config.Port)
		return false
	}
	return true
}

func (v *Validator) validateMisc() bool {
	valid := true
	if v.config.Timeout <= 0 {
		v.addf("timeout must be positive")
		valid = false
	}
	if v.config.PrefsPath == "" {
		v.addf("prefs path cannot be empty")
		valid = false
	}
	if v.config.PrefsNamespace == "" {
		v.addf("prefs namespace cannot be empty")
		valid = false
	}
	return valid
}

// validateAuth checks the sign-in and inbound auth settings.
func (v *Validator) validateAuth() bool {
	valid := true
	if err := v.config.Auth.ValidateConfig(); err != nil {
		v.errors = append(v.errors, err.Error())
		valid = false
	}
	if err := v.config.SignIn.ValidateConfig(); err != nil {
		v.errors = append(v.errors, err.Error())
		valid = false
	}
	return valid
}

// Validate runs all validation checks
func (v *Validator) Validate() bool {
	validEndpoint := v.validateEndpoint()
	validLogLevel := v.validateLogLevel()
	validTransport := v.validateTransport()
	validMisc := v.validateMisc()
	validAuth := v.validateAuth()

	return validEndpoint && validLogLevel && validTransport && validMisc && validAuth
}

// GetErrors returns all errors found during validation
func (v *Validator) GetErrors() []string {
	return v.errors
}

// PrintErrors prints all validation errors to stdout
func (v *Validator) PrintErrors() {
	for _, err := range v.errors {
		fmt.Println(err)
	}
}
