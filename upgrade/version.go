package upgrade

import (
	"errors"
	"fmt"

	"github.com/jjohnsen/azure-devops-migration-tools/document"
)

// ErrUnsupportedSchema is returned when a document's layout matches no known schema version.
var ErrUnsupportedSchema = errors.New("unsupported configuration schema")

// SchemaVersion is a coarse tag for the layout of a configuration document.
type SchemaVersion int

const (
	// SchemaUnknown is returned alongside errors.
	SchemaUnknown SchemaVersion = iota
	// SchemaV1 is the flat layout with top-level Source, Target and Processors.
	SchemaV1
	// SchemaV160 nests everything under a MigrationTools object.
	SchemaV160
)

// String returns the tag, e.g. "v1".
func (v SchemaVersion) String() string {
	switch v {
	case SchemaV1:
		return "v1"
	case SchemaV160:
		return "v160"
	default:
		return "unknown"
	}
}

// RootKey holds every v160 setting.
const RootKey = "MigrationTools"

// CurrentVersionValue is stamped into MigrationTools:Version by upgrades.
const CurrentVersionValue = "16.0"

// Top-level keys of the v1 layout.
const (
	LegacyVersionKey              = "Version"
	LegacySourceKey               = "Source"
	LegacyTargetKey               = "Target"
	LegacyChangeSetMappingFileKey = "ChangeSetMappingFile"
)

//nolint:gochecknoglobals // fixed marker list.
var v1Markers = []string{
	LegacyVersionKey,
	LegacySourceKey,
	LegacyTargetKey,
	LegacyChangeSetMappingFileKey,
	"Processors",
	"FieldMaps",
	"GitRepoMapping",
	"WorkItemTypeDefinition",
	"CommonEnrichersConfig",
}

// DetectVersion classifies doc by shape. A MigrationTools object at the root
// means v160; any top-level v1 key means v1. Anything else, including an
// empty document, is unsupported.
func DetectVersion(doc *document.Object) (SchemaVersion, error) {
	if root, exists := doc.Get(RootKey); exists {
		if _, isObject := root.(*document.Object); !isObject {
			return SchemaUnknown, fmt.Errorf("%w: %q is a %s, expected object", ErrUnsupportedSchema, RootKey, root.Kind())
		}

		return SchemaV160, nil
	}

	for _, key := range v1Markers {
		if _, exists := doc.Get(key); exists {
			return SchemaV1, nil
		}
	}

	return SchemaUnknown, fmt.Errorf("%w: no %q section and no v1 keys found", ErrUnsupportedSchema, RootKey)
}
