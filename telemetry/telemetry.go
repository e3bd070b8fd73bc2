package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Exporter names accepted in Config.Exporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// ErrUnknownExporter is returned for an unrecognized Config.Exporter.
var ErrUnknownExporter = errors.New("unknown telemetry exporter")

// Config controls telemetry. It is read from the Telemetry section of the
// host settings file.
type Config struct {
	// Enabled turns on span and metric export. Disabled telemetry uses
	// no-op providers.
	Enabled bool `yaml:"Enabled"`

	// ServiceName identifies this process in exported data.
	ServiceName string `yaml:"ServiceName"`

	// Exporter selects where data goes: "stdout" (default) or "none".
	Exporter string `yaml:"Exporter"`
}

// ValidExporter reports whether exporter is a known exporter name.
func ValidExporter(exporter string) bool {
	switch strings.ToLower(exporter) {
	case "", ExporterNone, ExporterStdout:
		return true
	default:
		return false
	}
}

// Providers bundles the tracer and meter providers built from a Config.
type Providers struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	shutdown []func(context.Context) error
}

// NewProviders builds the providers described by cfg. Exported data is
// written to out, or to stderr when out is nil.
func NewProviders(cfg Config, out io.Writer) (*Providers, error) {
	exporter := strings.ToLower(cfg.Exporter)

	if !ValidExporter(exporter) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}

	if !cfg.Enabled || exporter == ExporterNone {
		return &Providers{
			TracerProvider: tracenoop.NewTracerProvider(),
			MeterProvider:  metricnoop.NewMeterProvider(),
		}, nil
	}

	if out == nil {
		out = os.Stderr
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
	)

	spanExporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return nil, fmt.Errorf("create stdout trace exporter: %w", err)
	}

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(out))
	if err != nil {
		return nil, fmt.Errorf("create stdout metric exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(spanExporter),
		sdktrace.WithResource(res),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)

	return &Providers{
		TracerProvider: tp,
		MeterProvider:  mp,
		shutdown:       []func(context.Context) error{tp.Shutdown, mp.Shutdown},
	}, nil
}

// Shutdown flushes and stops the SDK providers. It is a no-op for disabled
// telemetry.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error

	for _, fn := range p.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown: %w", errors.Join(errs...))
	}

	return nil
}
