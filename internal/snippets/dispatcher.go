package snippets

import (
	"context"

	"github.com/Azure/msgraph-snippets/internal/credential"
	"github.com/Azure/msgraph-snippets/internal/graph"
	"github.com/Azure/msgraph-snippets/internal/logger"
)

// Tracker observes finished runs.
type Tracker interface {
	TrackSnippetRun(ctx context.Context, category, name string, err error)
}

// Dispatcher runs operations against a Graph client.
type Dispatcher struct {
	client  *graph.Client
	version string
	source  credential.Source
	tracker Tracker
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithVersion sets the Graph API version segment.
func WithVersion(version string) Option {
	return func(d *Dispatcher) { d.version = version }
}

// WithCredential sets where the tenant for generated users is read from.
// It should be the same source the client's interceptor reads.
func WithCredential(source credential.Source) Option {
	return func(d *Dispatcher) { d.source = source }
}

// WithTracker reports every finished run to t.
func WithTracker(t Tracker) Option {
	return func(d *Dispatcher) { d.tracker = t }
}

// NewDispatcher returns a dispatcher using API version v1.0 by default.
func NewDispatcher(client *graph.Client, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		client:  client,
		version: "v1.0",
		source:  credential.Static(credential.Credential{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Version returns the Graph API version the dispatcher targets.
func (d *Dispatcher) Version() string {
	return d.version
}

// RequestContext snapshots the inputs of a run.
func (d *Dispatcher) RequestContext() RequestContext {
	return RequestContext{
		Version:    d.version,
		Credential: d.source(),
	}
}

// Run sends op asynchronously and reports its outcome to onResult exactly
// once. Failures are passed through as returned by the client.
func (d *Dispatcher) Run(ctx context.Context, op Operation, onResult func(Result)) {
	complete := func(r Result) {
		if d.tracker != nil {
			d.tracker.TrackSnippetRun(ctx, string(op.Category), op.Name, r.Err)
		}
		logResult(op.Name, r)
		onResult(r)
	}

	call, err := op.Call(d.client, d.RequestContext())
	if err != nil {
		d.client.Post(func() { complete(Result{Err: err}) })
		return
	}

	logger.Debugf(">>> [%s] %s %s", op.Name, call.Method(), call.URL())
	call.Enqueue(ctx, func(payload []byte, err error) {
		complete(Result{Payload: payload, Err: err})
	})
}

// RunAndWait runs op and blocks until it completes or ctx is done.
func (d *Dispatcher) RunAndWait(ctx context.Context, op Operation) Result {
	done := make(chan Result, 1)
	d.Run(ctx, op, func(r Result) { done <- r })

	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}

func logResult(name string, r Result) {
	switch {
	case r.Err != nil:
		logger.Debugf("<<< [%s] ERROR: %v", name, r.Err)
	case len(r.Payload) > 500:
		logger.Debugf("<<< [%s] Result: %d bytes (truncated): %.500s...", name, len(r.Payload), r.Payload)
	default:
		logger.Debugf("<<< [%s] Result: %s", name, r.Payload)
	}
}
