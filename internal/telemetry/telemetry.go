// Package telemetry records traces and usage events for snippet runs.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/microsoft/ApplicationInsights-Go/appinsights"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/Azure/msgraph-snippets"

// Config holds telemetry settings.
type Config struct {
	ServiceName        string
	ServiceVersion     string
	OTLPEndpoint       string
	InstrumentationKey string
	// Disabled turns every tracking call into a no-op.
	Disabled bool
}

// NewConfig returns a config for the named service. Setting
// MSGRAPH_SNIPPETS_TELEMETRY_DISABLED=true disables telemetry.
func NewConfig(serviceName, serviceVersion string) *Config {
	return &Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Disabled:       os.Getenv("MSGRAPH_SNIPPETS_TELEMETRY_DISABLED") == "true",
	}
}

// SetOTLPEndpoint sets the OTLP gRPC collector address.
func (c *Config) SetOTLPEndpoint(endpoint string) {
	c.OTLPEndpoint = endpoint
}

// SetInstrumentationKey sets the Application Insights key.
func (c *Config) SetInstrumentationKey(key string) {
	c.InstrumentationKey = key
}

// Service owns the tracer provider and the Application Insights client.
type Service struct {
	config   *Config
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	insights appinsights.TelemetryClient
}

// NewService creates a service that does nothing until Initialize is called.
func NewService(config *Config) *Service {
	return &Service{
		config: config,
		tracer: noop.NewTracerProvider().Tracer(instrumentationName),
	}
}

// Initialize sets up tracing and, when a key is configured, Application Insights.
func (s *Service) Initialize(ctx context.Context) error {
	if s.config.Disabled {
		return nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", s.config.ServiceName),
		attribute.String("service.version", s.config.ServiceVersion),
	)
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if s.config.OTLPEndpoint != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(s.config.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	s.provider = sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(s.provider)
	s.tracer = s.provider.Tracer(instrumentationName)

	if s.config.InstrumentationKey != "" {
		s.insights = appinsights.NewTelemetryClient(s.config.InstrumentationKey)
		s.insights.Context().CommonProperties["service"] = s.config.ServiceName
		s.insights.Context().CommonProperties["version"] = s.config.ServiceVersion
	}
	return nil
}

// Tracer returns the tracer used for snippet spans.
func (s *Service) Tracer() trace.Tracer {
	return s.tracer
}

// StartSpan starts a span named name.
func (s *Service) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// TrackServiceStartup records that the process started.
func (s *Service) TrackServiceStartup(ctx context.Context) {
	if s == nil || s.config.Disabled {
		return
	}
	_, span := s.StartSpan(ctx, "service.startup",
		attribute.String("os", runtime.GOOS),
		attribute.String("arch", runtime.GOARCH),
	)
	span.End()

	if s.insights != nil {
		event := appinsights.NewEventTelemetry("ServiceStartup")
		event.Properties["os"] = runtime.GOOS
		event.Properties["arch"] = runtime.GOARCH
		s.insights.Track(event)
	}
}

// TrackSnippetRun records the outcome of one snippet invocation.
func (s *Service) TrackSnippetRun(ctx context.Context, category, name string, err error) {
	if s == nil || s.config.Disabled {
		return
	}
	_, span := s.StartSpan(ctx, "snippet.run",
		attribute.String("snippet.category", category),
		attribute.String("snippet.name", name),
		attribute.Bool("snippet.success", err == nil),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	if s.insights != nil {
		event := appinsights.NewEventTelemetry("SnippetRun")
		event.Properties["category"] = category
		event.Properties["snippet"] = name
		event.Properties["success"] = fmt.Sprintf("%t", err == nil)
		s.insights.Track(event)
	}
}

// Shutdown flushes pending spans and events.
func (s *Service) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if s.insights != nil {
		select {
		case <-s.insights.Channel().Close(5 * time.Second):
		case <-ctx.Done():
		}
	}
	if s.provider != nil {
		if err := s.provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down tracer provider: %w", err)
		}
	}
	return nil
}
