package graph

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/Azure/msgraph-snippets/internal/credential"
)

const (
	// DefaultSampleID identifies this client to the Graph service. Remove it
	// when reusing the client outside the samples.
	DefaultSampleID = "go-msgraph-snippets-rest-sample"

	headerAuthorization = "Authorization"
	headerSampleID      = "SampleID"
)

// Interceptor decorates outgoing requests with the signed-in credential.
type Interceptor struct {
	SampleID string
}

// Intercept sets the bearer and sample headers when cred has a token and
// leaves req untouched otherwise. A missing token is not an error: the service
// rejects the request and the caller sees that response.
func (i Interceptor) Intercept(req *http.Request, cred credential.Credential) {
	if !cred.HasToken() {
		return
	}
	req.Header.Set(headerAuthorization, "Bearer "+cred.TokenValue())
	if i.SampleID != "" {
		req.Header.Set(headerSampleID, i.SampleID)
	}
}

// Intercept applies an Interceptor carrying DefaultSampleID.
func Intercept(req *http.Request, cred credential.Credential) {
	Interceptor{SampleID: DefaultSampleID}.Intercept(req, cred)
}

// interceptorPolicy runs the interceptor once per call with the credential
// read at that moment.
type interceptorPolicy struct {
	interceptor Interceptor
	source      credential.Source
}

func newInterceptorPolicy(sampleID string, source credential.Source) policy.Policy {
	return &interceptorPolicy{
		interceptor: Interceptor{SampleID: sampleID},
		source:      source,
	}
}

func (p *interceptorPolicy) Do(req *policy.Request) (*http.Response, error) {
	p.interceptor.Intercept(req.Raw(), p.source())
	return req.Next()
}
