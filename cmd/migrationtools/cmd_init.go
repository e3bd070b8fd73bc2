package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jjohnsen/azure-devops-migration-tools/catalog"
	"github.com/jjohnsen/azure-devops-migration-tools/config"
	"github.com/jjohnsen/azure-devops-migration-tools/config/fetcher/file"
	yamlparser "github.com/jjohnsen/azure-devops-migration-tools/config/parser/yaml"
	"github.com/jjohnsen/azure-devops-migration-tools/document"
	"github.com/jjohnsen/azure-devops-migration-tools/options"
	"github.com/jjohnsen/azure-devops-migration-tools/upgrade"
)

var errConfigExists = errors.New("configuration file already exists")

const starterQuery = "SELECT [System.Id] FROM WorkItems WHERE [System.TeamProject] = @TeamProject " +
	"AND [System.WorkItemType] NOT IN ('Test Suite', 'Test Plan') ORDER BY [System.ChangedDate] desc"

func newInitCmd(flags *cliFlags, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Init writes a configuration file in the current schema with a source and
target endpoint, a disabled work item migration processor and a disabled
change set mapping tool. An existing file is never overwritten.`,
		Args: noArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return execute("init", flags, stdout, stderr, runInit)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the starter document instead of writing it")

	return cmd
}

func runInit(_ context.Context, env *environment) error {
	path := env.flags.configPath

	fetcher, err := file.NewOptionalFetcher(path)()
	if err != nil {
		return fmt.Errorf("opening configuration: %w", err)
	}

	if fetcher.Exists() && !env.flags.dryRun {
		return fmt.Errorf("%w: %s", errConfigExists, path)
	}

	doc, err := starterDocument()
	if err != nil {
		return err
	}

	data, err := env.parser.EncodeDocument(doc, yamlparser.FormatFor(path))
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

	env.logger.Info("starter configuration written", slog.String("config", path))

	return nil
}

type starterEntry struct {
	value        options.Options
	path         string
	isCollection bool
}

func starterDocument() (*document.Object, error) {
	header := document.NewObject()

	root, err := document.GetOrCreateObject(header, upgrade.RootKey)
	if err != nil {
		return nil, err
	}

	root.Set("Version", document.NewScalar(upgrade.CurrentVersionValue))

	endpoint := catalog.TfsTeamProjectEndpoint{
		Collection:                   "https://dev.azure.com/your-organisation/",
		Project:                      "SourceProject",
		ReflectedWorkItemIDFieldName: "Custom.ReflectedWorkItemId",
		AuthenticationMode:           "AccessToken",
	}
	target := endpoint
	target.Project = "TargetProject"

	processor := catalog.TfsWorkItemMigrationProcessor{
		ProcessorOptions: catalog.ProcessorOptions{
			SourceName: catalog.SourceEndpoint,
			TargetName: catalog.TargetEndpoint,
		},
		WIQLQuery:                starterQuery,
		UpdateCreatedDate:        true,
		UpdateCreatedBy:          true,
		GenerateMigrationComment: true,
		WorkItemCreateRetryLimit: 5,
	}

	descriptor := endpoint.Descriptor()
	entries := []starterEntry{
		{value: endpoint, path: descriptor.SectionFor(catalog.SourceEndpoint)},
		{value: target, path: descriptor.SectionFor(catalog.TargetEndpoint)},
		{value: catalog.TfsChangeSetMappingToolOptions{}, path: catalog.CommonToolsCollection, isCollection: true},
		{value: processor, path: catalog.ProcessorsCollection, isCollection: true},
	}

	layers := []*document.Object{header}

	for _, entry := range entries {
		rendered, err := options.Render(entry.value, entry.path, entry.isCollection, true)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", entry.value.Descriptor().DiscriminatorValue, err)
		}

		layers = append(layers, rendered)
	}

	return config.Layer(layers...), nil
}
