// Package catalog lists the option types the migration tools understand and
// builds the registry that resolves them by name.
package catalog

import (
	"go.uber.org/fx"

	"github.com/jjohnsen/azure-devops-migration-tools/options"
)

// Document locations shared by the catalog types.
const (
	EndpointsSection      = "MigrationTools:Endpoints:" + options.KeyPlaceholder
	CommonToolsCollection = "MigrationTools:CommonTools"
	ProcessorsCollection  = "MigrationTools:Processors"
	VersionPath           = "MigrationTools:Version"
)

// Endpoint keys used by the classic single source/target layout.
const (
	SourceEndpoint = "Source"
	TargetEndpoint = "Target"
)

// Deprecated type names and their replacements.
const (
	LegacyWorkItemMigrationContext = "WorkItemMigrationContext"
	LegacyTfsTeamProjectConfig     = "TfsTeamProjectConfig"
)

// Module provides the option type registry to the Fx container.
//
//nolint:gochecknoglobals // fx module definition.
var Module = fx.Module("catalog",
	fx.Provide(NewRegistry),
)

// NewRegistry returns a registry holding every catalog type and the rename
// table for deprecated names.
func NewRegistry() *options.Registry {
	registry := options.NewRegistry()

	options.MustRegister[TfsTeamProjectEndpoint](registry)
	options.MustRegister[TfsChangeSetMappingToolOptions](registry)
	options.MustRegister[GitRepoMappingToolOptions](registry)
	options.MustRegister[TfsUserMappingToolOptions](registry)
	options.MustRegister[FieldMappingToolOptions](registry)
	options.MustRegister[TfsWorkItemMigrationProcessor](registry)
	options.MustRegister[WorkItemPostProcessingProcessor](registry)

	registry.MustRename(LegacyWorkItemMigrationContext, TfsWorkItemMigrationProcessorName)
	registry.MustRename(LegacyTfsTeamProjectConfig, TfsTeamProjectEndpointName)

	return registry
}
