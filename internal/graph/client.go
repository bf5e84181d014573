// Package graph is a minimal Microsoft Graph REST client built on the Azure
// SDK HTTP pipeline. Every request passes through the credential interceptor;
// retries are disabled so failures reach the caller exactly as the service
// returned them.
package graph

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/Azure/msgraph-snippets/internal/credential"
	"github.com/Azure/msgraph-snippets/internal/version"
)

const moduleName = "msgraph-snippets"

// Executor runs completion callbacks. It decides which goroutine a callback
// observes; the default runs it on the worker that finished the request.
type Executor func(task func())

// Inline runs task on the calling goroutine.
func Inline(task func()) { task() }

// ClientOptions is the explicit configuration for NewClient.
type ClientOptions struct {
	// Endpoint is the Graph root, e.g. https://graph.microsoft.com.
	Endpoint string

	// Credential is read once per request. Nil sends every request unauthenticated.
	Credential credential.Source

	// SampleID is sent next to the bearer token. Defaults to DefaultSampleID.
	SampleID string

	// Transport executes requests. Defaults to an http.Client with Timeout.
	Transport policy.Transporter
	Timeout   time.Duration

	// Executor delivers Enqueue callbacks. Defaults to Inline.
	Executor Executor

	// Logging controls what the pipeline's logging policy records.
	Logging policy.LogOptions

	// PerCallPolicies run after the interceptor, once per call.
	PerCallPolicies []policy.Policy
}

// Client sends Graph requests.
type Client struct {
	endpoint string
	pipeline runtime.Pipeline
	executor Executor
}

// NewClient creates a client from opts.
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	u, err := url.Parse(opts.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid Graph endpoint %q", opts.Endpoint)
	}

	source := opts.Credential
	if source == nil {
		source = credential.Static(credential.Credential{})
	}
	sampleID := opts.SampleID
	if sampleID == "" {
		sampleID = DefaultSampleID
	}
	transport := opts.Transport
	if transport == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		transport = &http.Client{Timeout: timeout}
	}
	executor := opts.Executor
	if executor == nil {
		executor = Inline
	}

	perCall := append([]policy.Policy{newInterceptorPolicy(sampleID, source)}, opts.PerCallPolicies...)
	pipeline := runtime.NewPipeline(moduleName, version.GetVersion(),
		runtime.PipelineOptions{
			AllowedHeaders:         []string{headerSampleID},
			AllowedQueryParameters: []string{"$filter"},
			PerCall:                perCall,
		},
		&policy.ClientOptions{
			Logging:   opts.Logging,
			Retry:     policy.RetryOptions{MaxRetries: -1},
			Telemetry: policy.TelemetryOptions{ApplicationID: moduleName},
			Transport: transport,
		},
	)

	return &Client{
		endpoint: u.String(),
		pipeline: pipeline,
		executor: executor,
	}, nil
}

// Endpoint returns the Graph root the client targets.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Users returns the users service.
func (c *Client) Users() *UsersService {
	return &UsersService{client: c}
}

// Contacts returns the organizational contacts service.
func (c *Client) Contacts() *ContactsService {
	return &ContactsService{client: c}
}

// Post hands task to the executor from a new goroutine, the same way Enqueue
// delivers completions.
func (c *Client) Post(task func()) {
	go c.executor(task)
}
