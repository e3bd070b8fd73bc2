package upgrade

import (
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/jjohnsen/azure-devops-migration-tools/catalog"
	"github.com/jjohnsen/azure-devops-migration-tools/document"
	"github.com/jjohnsen/azure-devops-migration-tools/options"
)

// Module provides the Upgrader to the Fx container. It needs an
// *options.Registry, a *slog.Logger and a Config.
//
//nolint:gochecknoglobals // fx module definition.
var Module = fx.Module("upgrade",
	fx.Provide(New),
)

// Config controls how legacy records are rebound.
type Config struct {
	// Strict fails the upgrade when a legacy record carries keys the new
	// type does not define. By default such keys are dropped.
	Strict bool
}

// Migration transforms a document from one schema version to the next.
type Migration struct {
	From        SchemaVersion
	To          SchemaVersion
	Description string
	// Apply reads from view and writes into target.
	Apply func(view, target *document.Object) error
}

// Result describes one applied migration step.
type Result struct {
	From        SchemaVersion
	To          SchemaVersion
	Description string
	Success     bool
	Err         error
}

// Upgrader brings configuration documents to the current schema version.
type Upgrader struct {
	registry   *options.Registry
	logger     *slog.Logger
	config     Config
	migrations []Migration
}

// New creates an Upgrader with the built-in migration steps.
func New(registry *options.Registry, logger *slog.Logger, config Config) *Upgrader {
	if logger == nil {
		logger = slog.Default()
	}

	upgrader := &Upgrader{
		registry: registry,
		logger:   logger,
		config:   config,
	}

	upgrader.migrations = []Migration{
		{
			From:        SchemaV1,
			To:          SchemaV160,
			Description: "move endpoints and tool settings under " + RootKey,
			Apply:       upgrader.v1ToV160,
		},
	}

	return upgrader
}

// Migrations returns the registered steps in application order.
func (u *Upgrader) Migrations() []Migration {
	steps := make([]Migration, len(u.migrations))
	copy(steps, u.migrations)

	return steps
}

// Upgrade detects the schema version of view and applies every migration
// step from there on. view is the layered read view; doc is the document
// that will be persisted. Neither is modified: the steps write into a copy
// of doc, which is returned on success. On failure no document is returned.
func (u *Upgrader) Upgrade(view, doc *document.Object) (*document.Object, []Result, error) {
	version, err := DetectVersion(view)
	if err != nil {
		return nil, nil, err
	}

	u.logger.Info("configuration schema detected", slog.String("version", version.String()))

	target := doc.Copy()
	results := make([]Result, 0, len(u.migrations))

	for _, migration := range u.migrations {
		if migration.From != version {
			continue
		}

		result := Result{
			From:        migration.From,
			To:          migration.To,
			Description: migration.Description,
		}

		err = migration.Apply(view, target)
		if err != nil {
			result.Err = err
			results = append(results, result)

			return nil, results, fmt.Errorf("migration from %s to %s failed: %w", migration.From, migration.To, err)
		}

		result.Success = true
		results = append(results, result)

		u.logger.Info("configuration migrated",
			slog.String("from", migration.From.String()),
			slog.String("to", migration.To.String()))

		version = migration.To
		view = target
	}

	return target, results, nil
}

func (u *Upgrader) v1ToV160(view, target *document.Object) error {
	err := u.migrateChangeSetMappingFile(view, target)
	if err != nil {
		return err
	}

	for _, endpoint := range []string{LegacySourceKey, LegacyTargetKey} {
		err = u.migrateEndpoint(view, target, endpoint)
		if err != nil {
			return err
		}
	}

	for _, key := range []string{LegacyChangeSetMappingFileKey, LegacySourceKey, LegacyTargetKey, LegacyVersionKey} {
		target.Delete(key)
	}

	root, err := document.GetOrCreateObject(target, RootKey)
	if err != nil {
		return err
	}

	root.Set("Version", document.NewScalar(CurrentVersionValue))

	return nil
}

// migrateChangeSetMappingFile turns the flat ChangeSetMappingFile value into
// a change-set mapping tool record.
func (u *Upgrader) migrateChangeSetMappingFile(view, target *document.Object) error {
	value, exists := view.Get(LegacyChangeSetMappingFileKey)
	if !exists {
		u.logger.Debug("no change set mapping file to migrate")

		return nil
	}

	if scalar, isScalar := value.(*document.Scalar); isScalar && scalar.IsNull() {
		u.logger.Debug("change set mapping file is null, skipping")

		return nil
	}

	record := document.NewObject()
	record.Set(LegacyChangeSetMappingFileKey, value.Clone())

	migrated, err := u.rebind(catalog.TfsChangeSetMappingToolOptionsName, record)
	if err != nil {
		return err
	}

	path := migrated.Descriptor().CollectionPath

	err = options.Save(target, path, migrated, true, true)
	if err != nil {
		return fmt.Errorf("saving %s: %w", migrated.Descriptor().DiscriminatorValue, err)
	}

	u.logger.Info("change set mapping file migrated", slog.String("path", path))

	return nil
}

// migrateEndpoint rebinds a v1 Source or Target section onto its current
// type and writes it to the keyed endpoint section.
func (u *Upgrader) migrateEndpoint(view, target *document.Object, key string) error {
	node, exists := view.Get(key)
	if !exists {
		u.logger.Debug("endpoint not configured, skipping", slog.String("endpoint", key))

		return nil
	}

	section, isObject := node.(*document.Object)
	if !isObject {
		return fmt.Errorf("%w: %q is a %s, expected object", document.ErrPathConflict, key, node.Kind())
	}

	typeName, ok := document.TextField(section, options.DefaultDiscriminatorField)
	if !ok {
		return fmt.Errorf("%w: endpoint %q has no %q", options.ErrUnknownOptionType, key, options.DefaultDiscriminatorField)
	}

	migrated, err := u.rebind(typeName, section)
	if err != nil {
		return fmt.Errorf("endpoint %q: %w", key, err)
	}

	path := migrated.Descriptor().SectionFor(key)

	err = options.Save(target, path, migrated, false, true)
	if err != nil {
		return fmt.Errorf("saving endpoint %q: %w", key, err)
	}

	u.logger.Info("endpoint migrated",
		slog.String("endpoint", key),
		slog.String("from", typeName),
		slog.String("to", migrated.Descriptor().DiscriminatorValue),
		slog.String("path", path))

	return nil
}

// rebind resolves name through the rename table and decodes record onto a
// fresh instance of the resolved type.
func (u *Upgrader) rebind(name string, record *document.Object) (options.Options, error) {
	typ, err := u.registry.ResolveWithRename(name)
	if err != nil {
		return nil, err
	}

	if typ.Name() != name {
		u.logger.Debug("legacy type renamed", slog.String("from", name), slog.String("to", typ.Name()))
	}

	value, err := typ.Decode(record, options.WithStrict(u.config.Strict), options.WithLogger(u.logger))
	if err != nil {
		return nil, fmt.Errorf("rebinding %s: %w", typ.Name(), err)
	}

	return value, nil
}
