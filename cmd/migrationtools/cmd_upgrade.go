package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jjohnsen/azure-devops-migration-tools/config"
	"github.com/jjohnsen/azure-devops-migration-tools/config/fetcher/file"
	yamlparser "github.com/jjohnsen/azure-devops-migration-tools/config/parser/yaml"
)

const configFileMode = 0o600

func newUpgradeCmd(flags *cliFlags, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade a configuration file to the current schema",
		Long: `Upgrade reads the configuration file layered over the base settings file,
detects its schema version and rewrites it in the current layout.

The file is replaced atomically and only when every upgrade step succeeds.`,
		Args: noArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return execute("upgrade", flags, stdout, stderr, runUpgrade)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the upgraded document instead of writing it")

	return cmd
}

func runUpgrade(_ context.Context, env *environment) error {
	path := env.flags.configPath

	fetcher, err := file.NewOptionalFetcher(path)()
	if err != nil {
		return fmt.Errorf("opening configuration: %w", err)
	}

	if !fetcher.Exists() {
		env.logger.Warn("configuration file not found, upgrading the base settings only", slog.String("config", path))
	}

	doc, err := config.LoadDocument(fetcher, yamlparser.NewDocumentParser(yamlparser.FormatFor(path)), env.logger)
	if err != nil {
		return fmt.Errorf("loading %q: %w", path, err)
	}

	view := config.Layer(env.settingsDoc, doc)

	upgraded, results, err := env.upgrader.Upgrade(view, doc)
	if err != nil {
		return err
	}

	if len(results) == 0 && !env.flags.dryRun {
		env.logger.Info("configuration already current", slog.String("config", path))

		return nil
	}

	data, err := env.parser.EncodeDocument(upgraded, yamlparser.FormatFor(path))
	if err != nil {
		return fmt.Errorf("encoding %q: %w", path, err)
	}

	if env.flags.dryRun {
		_, err = env.stdout.Write(data)
		if err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		return nil
	}

	err = file.WriteAtomic(path, data, configFileMode)
	if err != nil {
		return fmt.Errorf("saving %q: %w", path, err)
	}

	env.logger.Info("configuration saved", slog.String("config", path), slog.Int("steps", len(results)))

	return nil
}
