package options

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/jjohnsen/azure-devops-migration-tools/document"
)

var (
	// ErrUnknownOptionType is returned when a type name resolves to no registered type.
	ErrUnknownOptionType = errors.New("unknown option type")
	// ErrDuplicateOptionType is returned when a type name is registered twice.
	ErrDuplicateOptionType = errors.New("option type already registered")
	// ErrInvalidDescriptor is returned when a type cannot be registered as described.
	ErrInvalidDescriptor = errors.New("invalid option descriptor")
)

// Type is a registered option type.
type Type struct {
	name       string
	descriptor Descriptor
	newFn      func() Options
	decodeFn   func(node document.Node, cfg loadConfig) (Options, error)
}

// Name returns the registered type name.
func (t *Type) Name() string {
	return t.name
}

// Descriptor returns where records of the type live.
func (t *Type) Descriptor() Descriptor {
	return t.descriptor
}

// New returns a zero-valued instance.
func (t *Type) New() Options {
	return t.newFn()
}

// Decode binds node onto a new instance using the partial decode policy.
func (t *Type) Decode(node document.Node, opts ...LoadOption) (Options, error) {
	return t.decodeFn(node, newLoadConfig(opts))
}

// Registry maps option type names to their types and deprecated names to
// current ones. It is populated once at startup and only read afterwards.
type Registry struct {
	mu      sync.RWMutex
	types   map[string]*Type
	renames map[string]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types:   make(map[string]*Type),
		renames: make(map[string]string),
	}
}

// Register adds T under its discriminator value. T must be a struct type so
// that its zero value is a usable instance, and its descriptor must name it.
func Register[T Options](r *Registry) error {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s is a %s, expected struct", ErrInvalidDescriptor, typ, typ.Kind())
	}

	var zero T

	descriptor := zero.Descriptor()
	if descriptor.DiscriminatorValue == "" {
		return fmt.Errorf("%w: %s has no discriminator value", ErrInvalidDescriptor, typ)
	}

	if descriptor.SectionPath == "" && descriptor.CollectionPath == "" {
		return fmt.Errorf("%w: %s has neither a section nor a collection path", ErrInvalidDescriptor, typ)
	}

	entry := &Type{
		name:       descriptor.DiscriminatorValue,
		descriptor: descriptor,
		newFn: func() Options {
			var value T

			return value
		},
		decodeFn: func(node document.Node, cfg loadConfig) (Options, error) {
			return decode[T](node, cfg)
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[entry.name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOptionType, entry.name)
	}

	r.types[entry.name] = entry

	return nil
}

// MustRegister registers T and panics on error.
func MustRegister[T Options](r *Registry) {
	err := Register[T](r)
	if err != nil {
		panic(err)
	}
}

// Rename maps a deprecated type name onto its current name.
func (r *Registry) Rename(legacy, current string) error {
	if legacy == "" || current == "" || legacy == current {
		return fmt.Errorf("%w: rename %q -> %q", ErrInvalidDescriptor, legacy, current)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.renames[legacy]; exists && existing != current {
		return fmt.Errorf("%w: %q already renamed to %q", ErrDuplicateOptionType, legacy, existing)
	}

	r.renames[legacy] = current

	return nil
}

// MustRename adds a rename and panics on error.
func (r *Registry) MustRename(legacy, current string) {
	err := r.Rename(legacy, current)
	if err != nil {
		panic(err)
	}
}

// Resolve returns the type registered under name.
func (r *Registry) Resolve(name string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.types[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOptionType, name)
	}

	return entry, nil
}

// ResolveWithRename applies the rename table to name before resolving it.
func (r *Registry) ResolveWithRename(name string) (*Type, error) {
	return r.Resolve(r.CurrentName(name))
}

// CurrentName returns the replacement for a deprecated name, or name itself.
func (r *Registry) CurrentName(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if current, renamed := r.renames[name]; renamed {
		return current
	}

	return name
}

// Instantiate returns a zero-valued instance of the named type, after renames.
func (r *Registry) Instantiate(name string) (Options, error) {
	entry, err := r.ResolveWithRename(name)
	if err != nil {
		return nil, err
	}

	return entry.New(), nil
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Renames returns a copy of the rename table.
func (r *Registry) Renames() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renames := make(map[string]string, len(r.renames))
	for legacy, current := range r.renames {
		renames[legacy] = current
	}

	return renames
}
