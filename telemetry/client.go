package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jjohnsen/azure-devops-migration-tools"

// Client records command events and exceptions.
type Client struct {
	tracer     trace.Tracer
	events     metric.Int64Counter
	exceptions metric.Int64Counter
	logger     *slog.Logger
}

// NewClient creates a Client on top of the given providers.
func NewClient(tp trace.TracerProvider, mp metric.MeterProvider, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	meter := mp.Meter(instrumentationName)

	events, err := meter.Int64Counter("migrationtools.events",
		metric.WithDescription("Number of recorded command events"))
	if err != nil {
		return nil, fmt.Errorf("create events counter: %w", err)
	}

	exceptions, err := meter.Int64Counter("migrationtools.exceptions",
		metric.WithDescription("Number of recorded exceptions"))
	if err != nil {
		return nil, fmt.Errorf("create exceptions counter: %w", err)
	}

	return &Client{
		tracer:     tp.Tracer(instrumentationName),
		events:     events,
		exceptions: exceptions,
		logger:     logger,
	}, nil
}

// StartSpan starts a span named name. The caller ends it.
func (c *Client) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// TrackEvent records a named event as a span and increments the events counter.
func (c *Client) TrackEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	_, span := c.StartSpan(ctx, name, attrs...)
	span.End()

	c.events.Add(ctx, 1, metric.WithAttributes(slices.Concat(attrs, []attribute.KeyValue{attribute.String("event", name)})...))
	c.logger.Debug("telemetry event", slog.String("event", name))
}

// TrackException records err on an error span and increments the exceptions
// counter. A nil err is ignored.
func (c *Client) TrackException(ctx context.Context, err error, attrs ...attribute.KeyValue) {
	if err == nil {
		return
	}

	_, span := c.StartSpan(ctx, "exception", attrs...)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()

	c.exceptions.Add(ctx, 1, metric.WithAttributes(attrs...))
}
