// Package snippets is the fixed catalogue of Microsoft Graph calls the
// application can run, and the dispatcher that runs them.
package snippets

import (
	"github.com/Azure/msgraph-snippets/internal/credential"
	"github.com/Azure/msgraph-snippets/internal/graph"
)

// Category groups operations the way they are listed.
type Category string

const (
	// CategoryUsers holds operations on the tenant's users.
	CategoryUsers Category = "users"
	// CategoryContacts holds operations on organizational contacts.
	CategoryContacts Category = "contacts"
)

// RequestContext carries the per-invocation inputs of an operation.
type RequestContext struct {
	// Version is the Graph API version segment.
	Version string
	// Credential is the snapshot taken when the run started.
	Credential credential.Credential
}

// Operation is one named, pre-built API call. The first operation of each
// category is a marker that carries the category title and cannot run.
type Operation struct {
	Category    Category
	Name        string
	Title       string
	Description string
	DocURL      string
	Method      string
	Path        string
	Marker      bool

	build func(client *graph.Client, rc RequestContext) *graph.Call
}

// Executable reports whether the operation performs a request.
func (o Operation) Executable() bool {
	return !o.Marker && o.build != nil
}

// Call prepares the request for o without sending it.
func (o Operation) Call(client *graph.Client, rc RequestContext) (*graph.Call, error) {
	if !o.Executable() {
		return nil, ErrMarkerOperation
	}
	return o.build(client, rc), nil
}

// Result is the outcome of a run. Err is nil on success.
type Result struct {
	Payload []byte
	Err     error
}

// OK reports whether the run succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}
