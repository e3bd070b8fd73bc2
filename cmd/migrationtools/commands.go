package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"

	migrationtools "github.com/jjohnsen/azure-devops-migration-tools"
	"github.com/jjohnsen/azure-devops-migration-tools/config"
	"github.com/jjohnsen/azure-devops-migration-tools/config/fetcher/file"
	yamlparser "github.com/jjohnsen/azure-devops-migration-tools/config/parser/yaml"
	"github.com/jjohnsen/azure-devops-migration-tools/document"
	"github.com/jjohnsen/azure-devops-migration-tools/logging"
	"github.com/jjohnsen/azure-devops-migration-tools/options"
	"github.com/jjohnsen/azure-devops-migration-tools/telemetry"
	"github.com/jjohnsen/azure-devops-migration-tools/upgrade"
)

const (
	defaultConfigPath   = "configuration.json"
	defaultSettingsPath = "appsettings.json"
)

type cliFlags struct {
	configPath   string
	settingsPath string
	logLevel     string
	strict       bool
	dryRun       bool
}

// environment is what every command runs against once bootstrap succeeded.
type environment struct {
	flags       *cliFlags
	stdout      io.Writer
	parser      *yamlparser.Parser
	settingsDoc *document.Object
	registry    *options.Registry
	upgrader    *upgrade.Upgrader
	telemetry   *telemetry.Client
	logger      *slog.Logger
}

type commandFunc func(ctx context.Context, env *environment) error

func run(args []string, stdout, stderr io.Writer) int {
	flags := &cliFlags{}

	root := newRootCmd(flags, stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return 1
	}

	return 0
}

func newRootCmd(flags *cliFlags, stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "migrationtools",
		Short:         "Maintain Azure DevOps migration configuration files",
		Version:       migrationtools.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", defaultConfigPath,
		"Migration configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.settingsPath, "settings", defaultSettingsPath,
		"Base settings file layered under the configuration")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "",
		"Override the log level from the settings file (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flags.strict, "strict", false,
		"Fail when an option record carries fields its type does not define")

	rootCmd.AddCommand(
		newUpgradeCmd(flags, stdout, stderr),
		newInitCmd(flags, stdout, stderr),
		newTypesCmd(flags, stdout, stderr),
	)

	return rootCmd
}

// execute bootstraps the application, runs fn and reports its failure.
// Every error leaving a command passes through here exactly once.
func execute(name string, flags *cliFlags, stdout, stderr io.Writer, fn commandFunc) error {
	bootLogger := logging.NewLogger(logging.LoggerConfig{Level: flags.logLevel}, stderr)

	env, app, err := bootstrap(flags, stdout, stderr, bootLogger)
	if err != nil {
		bootLogger.Error("startup failed", slog.String("command", name), slog.String("error", err.Error()))

		return err
	}

	defer func() {
		stopErr := app.Stop()
		if stopErr != nil {
			env.logger.Warn("shutdown failed", slog.String("error", stopErr.Error()))
		}
	}()

	ctx := context.Background()
	attrs := []attribute.KeyValue{
		attribute.String("command", name),
		attribute.String("config", flags.configPath),
	}

	env.telemetry.TrackEvent(ctx, name, attrs...)

	err = fn(ctx, env)
	if err != nil {
		env.logger.Error("command failed",
			slog.String("command", name),
			slog.String("config", flags.configPath),
			slog.String("error", err.Error()))
		env.telemetry.TrackException(ctx, err, attrs...)

		return err
	}

	return nil
}

func bootstrap(flags *cliFlags, stdout, stderr io.Writer, logger *slog.Logger) (*environment, *migrationtools.App, error) {
	parser := yamlparser.NewParser()

	fetcher, err := file.NewFetcher(flags.settingsPath)()
	if err != nil {
		return nil, nil, fmt.Errorf("settings: %w", err)
	}

	settings, err := config.Provider(&config.HostSettings{}, "")(parser, fetcher)
	if err != nil {
		return nil, nil, fmt.Errorf("settings %q: %w", flags.settingsPath, err)
	}

	settingsParser := yamlparser.NewDocumentParser(yamlparser.FormatFor(flags.settingsPath))

	settingsDoc, err := config.LoadDocument(fetcher, settingsParser, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("settings %q: %w", flags.settingsPath, err)
	}

	env := &environment{
		flags:       flags,
		stdout:      stdout,
		parser:      parser,
		settingsDoc: settingsDoc,
	}

	appOptions := []migrationtools.Option{
		migrationtools.WithSettings(*settings),
		migrationtools.WithLogOutput(stderr),
		migrationtools.WithTelemetryOutput(stderr),
		migrationtools.WithStrict(flags.strict),
		migrationtools.WithModules(fx.Populate(&env.registry, &env.upgrader, &env.telemetry, &env.logger)),
	}

	if flags.logLevel != "" {
		appOptions = append(appOptions, migrationtools.WithLogLevel(flags.logLevel))
	}

	app := migrationtools.NewApp(appOptions...)

	err = app.Start()
	if err != nil {
		return nil, nil, err
	}

	return env, app, nil
}

var errUnexpectedArgs = errors.New("unexpected arguments")

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %v", errUnexpectedArgs, args)
	}

	return nil
}
