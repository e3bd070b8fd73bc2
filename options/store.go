package options

import (
	"fmt"
	"log/slog"

	"github.com/jjohnsen/azure-devops-migration-tools/document"
)

// Load decodes the singleton section of T. A missing section yields the zero
// value of T and no error.
func Load[T Options](doc *document.Object, opts ...LoadOption) (T, error) {
	var zero T

	return LoadAt[T](doc, zero.Descriptor().SectionPath, opts...)
}

// LoadAt decodes the object stored at path into T. A missing path yields the
// zero value of T and no error.
func LoadAt[T Options](doc *document.Object, path string, opts ...LoadOption) (T, error) {
	var zero T

	cfg := newLoadConfig(opts)

	err := zero.Descriptor().validateSection(path)
	if err != nil {
		return zero, err
	}

	node, found, err := document.Lookup(doc, path)
	if err != nil {
		return zero, err
	}

	if !found {
		cfg.logger.Debug("section not found, using defaults",
			slog.String("path", path),
			slog.String("type", zero.Descriptor().DiscriminatorValue))

		return zero, nil
	}

	if _, isObject := node.(*document.Object); !isObject {
		return zero, fmt.Errorf("%w: %q is a %s, expected object", document.ErrPathConflict, path, node.Kind())
	}

	return decode[T](node, cfg)
}

// LoadItem decodes the first record of T's collection whose discriminator
// matches. The boolean reports whether a record was found.
func LoadItem[T Options](doc *document.Object, opts ...LoadOption) (T, bool, error) {
	var zero T

	descriptor := zero.Descriptor()
	path := descriptor.CollectionPath

	err := descriptor.validateCollection(path)
	if err != nil {
		return zero, false, err
	}

	node, found, err := document.Lookup(doc, path)
	if err != nil || !found {
		return zero, false, err
	}

	arr, isArray := node.(*document.Array)
	if !isArray {
		return zero, false, fmt.Errorf("%w: %q is a %s, expected array", document.ErrPathConflict, path, node.Kind())
	}

	for _, item := range arr.Items() {
		obj, isObject := item.(*document.Object)
		if !isObject || !descriptor.Matches(obj) {
			continue
		}

		value, err := decode[T](obj, newLoadConfig(opts))
		if err != nil {
			return zero, false, err
		}

		return value, true, nil
	}

	return zero, false, nil
}

// LoadAll decodes every object anywhere in doc whose discriminator matches
// T, in depth-first document order. Matching objects are searched too, so
// nested matches are returned as well; no deduplication takes place.
func LoadAll[T Options](doc *document.Object, opts ...LoadOption) ([]T, error) {
	var zero T

	descriptor := zero.Descriptor()
	cfg := newLoadConfig(opts)

	var (
		found    []T
		firstErr error
	)

	document.Walk(doc, func(node document.Node) {
		obj, isObject := node.(*document.Object)
		if firstErr != nil || !isObject || !descriptor.Matches(obj) {
			return
		}

		value, err := decode[T](obj, cfg)
		if err != nil {
			firstErr = err

			return
		}

		found = append(found, value)
	})

	if firstErr != nil {
		return nil, firstErr
	}

	return found, nil
}

// Save writes value into doc at path.
//
// In singleton mode the encoded fields are merged into the object at path:
// scalars and objects replace existing values, arrays are appended to the
// existing array, and keys absent from value are kept. With addDiscriminator
// the discriminator pair becomes the first key of the section.
//
// In collection mode path must address an array. A record with the same
// discriminator value is replaced at its index; otherwise the record is
// appended. Collection records always carry the discriminator as their first
// key.
func Save(doc *document.Object, path string, value Options, isCollection, addDiscriminator bool) error {
	descriptor := value.Descriptor()

	encoded, err := encode(value)
	if err != nil {
		return err
	}

	if isCollection {
		return upsert(doc, path, descriptor, encoded)
	}

	err = descriptor.validateSection(path)
	if err != nil {
		return err
	}

	section, err := document.GetOrCreateObject(doc, path)
	if err != nil {
		return err
	}

	merge(section, encoded)

	if addDiscriminator {
		section.SetFirst(descriptor.Field(), document.NewScalar(descriptor.DiscriminatorValue))
	}

	return nil
}

// SaveOptions saves value at its own collection or section path.
func SaveOptions(doc *document.Object, value Options, isCollection, addDiscriminator bool) error {
	return Save(doc, value.Descriptor().PathFor(isCollection), value, isCollection, addDiscriminator)
}

// Render builds a standalone document holding only value, placed at path.
func Render(value Options, path string, isCollection, addDiscriminator bool) (*document.Object, error) {
	doc := document.NewObject()

	err := Save(doc, path, value, isCollection, addDiscriminator)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// RenderJSON renders value at its own path and encodes the result as
// indented JSON.
func RenderJSON(value Options, isCollection, addDiscriminator bool) ([]byte, error) {
	doc, err := Render(value, value.Descriptor().PathFor(isCollection), isCollection, addDiscriminator)
	if err != nil {
		return nil, err
	}

	return document.EncodeJSON(doc)
}

func encode(value Options) (*document.Object, error) {
	node, err := document.Marshal(value)
	if err != nil {
		return nil, err
	}

	obj, isObject := node.(*document.Object)
	if !isObject {
		return nil, fmt.Errorf("%w: %T encodes to %s, expected object", document.ErrUnsupportedValue, value, node.Kind())
	}

	return obj, nil
}

func upsert(doc *document.Object, path string, descriptor Descriptor, record *document.Object) error {
	err := descriptor.validateCollection(path)
	if err != nil {
		return err
	}

	arr, err := document.GetOrCreateArray(doc, path)
	if err != nil {
		return err
	}

	record.SetFirst(descriptor.Field(), document.NewScalar(descriptor.DiscriminatorValue))

	for i, item := range arr.Items() {
		obj, isObject := item.(*document.Object)
		if isObject && descriptor.Matches(obj) {
			arr.Set(i, record)

			return nil
		}
	}

	arr.Append(record)

	return nil
}

func merge(dst, src *document.Object) {
	src.Each(func(key string, value document.Node) {
		existing, exists := dst.Get(key)
		if !exists {
			dst.Set(key, value)

			return
		}

		existingArr, existingIsArray := existing.(*document.Array)
		if !existingIsArray {
			dst.Set(key, value)

			return
		}

		switch v := value.(type) {
		case *document.Array:
			existingArr.Append(v.Items()...)
		case *document.Scalar:
			if !v.IsNull() {
				dst.Set(key, v)
			}
		default:
			dst.Set(key, v)
		}
	})
}
