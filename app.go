package migrationtools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/jjohnsen/azure-devops-migration-tools/catalog"
	"github.com/jjohnsen/azure-devops-migration-tools/logging"
	"github.com/jjohnsen/azure-devops-migration-tools/telemetry"
	"github.com/jjohnsen/azure-devops-migration-tools/upgrade"
)

var errAppNotInitialized = errors.New("app not initialized")

// App wires the option catalog, the schema upgrader and telemetry into an
// Fx container.
type App struct {
	app *fx.App
}

// NewApp creates a new instance of App with Fx configured.
func NewApp(opts ...Option) *App {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	return &App{
		app: configure(&options),
	}
}

func configure(options *Options) *fx.App {
	loggerConfig := logging.LoggerConfig{
		Level:  options.LogLevel,
		Format: options.LogFormat,
	}

	output := options.LogOutput
	if output == nil {
		output = os.Stderr
	}

	logger := createLogger(loggerConfig, output)
	slog.SetDefault(logger)

	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
		fx.Supply(loggerConfig),
		fx.Supply(logger),
		fx.Supply(options.Telemetry),
		fx.Supply(upgrade.Config{Strict: options.Strict}),
		fx.Provide(fx.Annotate(
			func() io.Writer { return telemetryOutput(options) },
			fx.ResultTags(`name:"telemetryOutput"`),
		)),
		catalog.Module,
		upgrade.Module,
		telemetry.Module,
		fx.Options(options.Modules...),
	)
}

func telemetryOutput(options *Options) io.Writer {
	if options.TelemetryOutput != nil {
		return options.TelemetryOutput
	}

	return os.Stderr
}

func createLogger(config logging.LoggerConfig, w io.Writer) *slog.Logger {
	return logging.NewLogger(config, w)
}

// Err returns the error, if any, encountered while building the container.
func (app *App) Err() error {
	if app == nil || app.app == nil {
		return errAppNotInitialized
	}

	return app.app.Err()
}

// Start starts the Fx application.
func (app *App) Start() error {
	if app != nil && app.app != nil {
		err := app.app.Start(context.Background())
		if err != nil {
			return fmt.Errorf("failed to start app: %w", err)
		}

		return nil
	}

	return errAppNotInitialized
}

// Stop stops the Fx application gracefully. Telemetry providers are flushed
// here.
func (app *App) Stop() error {
	if app != nil && app.app != nil {
		err := app.app.Stop(context.Background())
		if err != nil {
			return fmt.Errorf("failed to stop app: %w", err)
		}

		return nil
	}

	return errAppNotInitialized
}
