package catalog

import "github.com/jjohnsen/azure-devops-migration-tools/options"

// Registered tool names.
const (
	TfsChangeSetMappingToolOptionsName = "TfsChangeSetMappingToolOptions"
	GitRepoMappingToolOptionsName      = "GitRepoMappingToolOptions"
	TfsUserMappingToolOptionsName      = "TfsUserMappingToolOptions"
	FieldMappingToolOptionsName        = "FieldMappingToolOptions"
)

// ToolOptions holds the fields every tool shares.
type ToolOptions struct {
	Enabled bool `json:"Enabled"`
}

func toolDescriptor(name string) options.Descriptor {
	return options.Descriptor{
		CollectionPath:     CommonToolsCollection,
		DiscriminatorValue: name,
	}
}

// TfsChangeSetMappingToolOptions points at the CSV file mapping changesets to
// commit ids.
type TfsChangeSetMappingToolOptions struct {
	ToolOptions

	ChangeSetMappingFile string `json:"ChangeSetMappingFile"`
}

// Descriptor implements options.Options.
func (TfsChangeSetMappingToolOptions) Descriptor() options.Descriptor {
	return toolDescriptor(TfsChangeSetMappingToolOptionsName)
}

// GitRepoMappingToolOptions renames git repositories referenced by links.
type GitRepoMappingToolOptions struct {
	ToolOptions

	Mappings map[string]string `json:"Mappings"`
}

// Descriptor implements options.Options.
func (GitRepoMappingToolOptions) Descriptor() options.Descriptor {
	return toolDescriptor(GitRepoMappingToolOptionsName)
}

// TfsUserMappingToolOptions configures identity mapping between source and
// target users.
type TfsUserMappingToolOptions struct {
	ToolOptions

	UserMappingFile       string   `json:"UserMappingFile"`
	IdentityFieldsToCheck []string `json:"IdentityFieldsToCheck"`
	MatchUsersByEmail     bool     `json:"MatchUsersByEmail"`
}

// Descriptor implements options.Options.
func (TfsUserMappingToolOptions) Descriptor() options.Descriptor {
	return toolDescriptor(TfsUserMappingToolOptionsName)
}

// FieldMappingToolOptions carries the field maps applied to migrated work
// items. Each map is itself a discriminated record.
type FieldMappingToolOptions struct {
	ToolOptions

	FieldMaps []map[string]any `json:"FieldMaps"`
}

// Descriptor implements options.Options.
func (FieldMappingToolOptions) Descriptor() options.Descriptor {
	return toolDescriptor(FieldMappingToolOptionsName)
}
