package migrationtools

import (
	"io"

	"go.uber.org/fx"

	"github.com/jjohnsen/azure-devops-migration-tools/config"
	"github.com/jjohnsen/azure-devops-migration-tools/telemetry"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules         []fx.Option
	LogLevel        string
	LogFormat       string
	LogOutput       io.Writer
	Telemetry       telemetry.Config
	TelemetryOutput io.Writer
	Strict          bool
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithSettings applies host settings: log level and format, and telemetry.
// Options applied later override the log fields.
func WithSettings(settings config.HostSettings) Option {
	return func(opts *Options) {
		opts.LogLevel = settings.Logging.Level
		opts.LogFormat = settings.Logging.Format
		opts.Telemetry = settings.Telemetry
	}
}

// WithLogLevel sets the log level for the application.
// Valid levels are: "debug", "info", "warn", "error".
// If not set or invalid, defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogFormat selects "json" (default) or "text" log records.
func WithLogFormat(format string) Option {
	return func(opts *Options) {
		opts.LogFormat = format
	}
}

// WithLogOutput redirects logs; stderr is used otherwise.
func WithLogOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.LogOutput = w
	}
}

// WithTelemetryOutput redirects exported telemetry; stderr is used otherwise.
func WithTelemetryOutput(w io.Writer) Option {
	return func(opts *Options) {
		opts.TelemetryOutput = w
	}
}

// WithStrict makes option decoding fail on unknown fields.
func WithStrict(strict bool) Option {
	return func(opts *Options) {
		opts.Strict = strict
	}
}
