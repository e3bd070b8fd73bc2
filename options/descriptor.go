package options

import (
	"fmt"
	"strings"

	"github.com/jjohnsen/azure-devops-migration-tools/document"
)

// DefaultDiscriminatorField is the key that names a record's concrete type.
const DefaultDiscriminatorField = "$type"

// KeyPlaceholder marks the position of an instance key in a section path,
// e.g. "MigrationTools:Endpoints:#KEY#".
const KeyPlaceholder = "#KEY#"

// Options is implemented by every option record type.
type Options interface {
	Descriptor() Descriptor
}

// Descriptor locates an option type inside a configuration document.
type Descriptor struct {
	// SectionPath addresses the singleton section.
	SectionPath string
	// CollectionPath addresses the array holding records of this type.
	CollectionPath string
	// DiscriminatorField names the type key; empty means "$type".
	DiscriminatorField string
	// DiscriminatorValue is the registered name of the type.
	DiscriminatorValue string
}

// Field returns the discriminator key.
func (d Descriptor) Field() string {
	if d.DiscriminatorField == "" {
		return DefaultDiscriminatorField
	}

	return d.DiscriminatorField
}

// SectionFor returns SectionPath with the key placeholder replaced by key.
func (d Descriptor) SectionFor(key string) string {
	return strings.ReplaceAll(d.SectionPath, KeyPlaceholder, key)
}

// PathFor returns CollectionPath for collection use and SectionPath otherwise.
func (d Descriptor) PathFor(isCollection bool) string {
	if isCollection {
		return d.CollectionPath
	}

	return d.SectionPath
}

// Matches reports whether obj carries this descriptor's discriminator value.
func (d Descriptor) Matches(obj *document.Object) bool {
	value, ok := document.TextField(obj, d.Field())

	return ok && value == d.DiscriminatorValue
}

func (d Descriptor) validateSection(path string) error {
	if len(document.ParsePath(path)) == 0 {
		return fmt.Errorf("%w: %s has no section path", document.ErrPathConflict, d.name())
	}

	return nil
}

func (d Descriptor) validateCollection(path string) error {
	switch {
	case strings.TrimSpace(path) == "":
		return fmt.Errorf("%w: %s has no collection path", document.ErrPathConflict, d.name())
	case strings.TrimSpace(d.Field()) == "":
		return fmt.Errorf("%w: %s has no discriminator field", document.ErrPathConflict, d.name())
	case d.DiscriminatorValue == "":
		return fmt.Errorf("%w: collection %q used without a discriminator value", document.ErrPathConflict, path)
	}

	return nil
}

func (d Descriptor) name() string {
	if d.DiscriminatorValue == "" {
		return "option type"
	}

	return d.DiscriminatorValue
}
