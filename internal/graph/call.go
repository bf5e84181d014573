package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// Callback receives the outcome of an enqueued call. Exactly one of payload
// and err is meaningful.
type Callback func(payload []byte, err error)

// Call is a prepared request. Building one performs no I/O.
type Call struct {
	client      *Client
	method      string
	paths       []string
	query       url.Values
	body        interface{}
	statusCodes []int
}

func (c *Client) newCall(method string, statusCodes []int, paths ...string) *Call {
	return &Call{
		client:      c,
		method:      method,
		paths:       paths,
		query:       url.Values{},
		statusCodes: statusCodes,
	}
}

// Method returns the HTTP method.
func (c *Call) Method() string {
	return c.method
}

// URL returns the absolute request URL including the query string.
func (c *Call) URL() string {
	u := runtime.JoinPaths(c.client.endpoint, c.paths...)
	if len(c.query) == 0 {
		return u
	}
	return u + "?" + c.query.Encode()
}

// Body returns the value sent as JSON, or nil.
func (c *Call) Body() interface{} {
	return c.body
}

func (c *Call) newRequest(ctx context.Context) (*policy.Request, error) {
	req, err := runtime.NewRequest(ctx, c.method, runtime.JoinPaths(c.client.endpoint, c.paths...))
	if err != nil {
		return nil, err
	}
	if len(c.query) > 0 {
		req.Raw().URL.RawQuery = c.query.Encode()
	}
	req.Raw().Header["Accept"] = []string{"application/json"}
	if c.body != nil {
		if err := runtime.MarshalAsJSON(req, c.body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}
	return req, nil
}

// Execute sends the request and returns the raw response body. Transport
// errors and unexpected status codes (as *azcore.ResponseError) are returned
// without wrapping.
func (c *Call) Execute(ctx context.Context) ([]byte, error) {
	req, err := c.newRequest(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.pipeline.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, c.statusCodes...) {
		return nil, runtime.NewResponseError(resp)
	}
	return runtime.Payload(resp)
}

// Enqueue sends the request on a new goroutine and hands the outcome to cb
// through the client's executor, exactly once.
func (c *Call) Enqueue(ctx context.Context, cb Callback) {
	go func() {
		payload, err := c.Execute(ctx)
		c.client.executor(func() { cb(payload, err) })
	}()
}

var okStatus = []int{http.StatusOK}
