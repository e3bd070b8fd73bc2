package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/jjohnsen/azure-devops-migration-tools/document"
)

// ErrDecode is returned when a document node cannot be bound to an option type.
var ErrDecode = errors.New("option decode failed")

// LoadOption adjusts how records are decoded.
type LoadOption func(*loadConfig)

type loadConfig struct {
	strict bool
	logger *slog.Logger
}

// Strict rejects keys that the target type does not define.
func Strict() LoadOption {
	return func(c *loadConfig) {
		c.strict = true
	}
}

// WithStrict sets strict decoding from a flag value.
func WithStrict(strict bool) LoadOption {
	return func(c *loadConfig) {
		c.strict = strict
	}
}

// WithLogger sets the logger used for debug output. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newLoadConfig(opts []LoadOption) loadConfig {
	cfg := loadConfig{logger: slog.Default()}

	for _, apply := range opts {
		apply(&cfg)
	}

	return cfg
}

// DecodeInto binds node onto target, which must be a pointer to a struct.
// Field names come from json tags. The discriminator key is never treated as
// an unknown field.
func DecodeInto(node document.Node, target any, discriminatorField string, opts ...LoadOption) error {
	return decodeInto(node, target, discriminatorField, newLoadConfig(opts))
}

func decodeInto(node document.Node, target any, discriminatorField string, cfg loadConfig) error {
	obj, isObject := node.(*document.Object)
	if !isObject {
		return fmt.Errorf("%w: expected object, found %s", document.ErrPathConflict, node.Kind())
	}

	input := obj.Copy()
	input.Delete(discriminatorField)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
		Squash:           true,
		ErrorUnused:      cfg.strict,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			numberHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	err = decoder.Decode(document.Interface(input))
	if err != nil {
		return fmt.Errorf("%w: %T: %w", ErrDecode, target, err)
	}

	return nil
}

// numberHook converts json.Number for typed targets. Untyped targets keep the
// number so it is written back unchanged.
func numberHook(_, to reflect.Type, data any) (any, error) {
	number, isNumber := data.(json.Number)
	if !isNumber {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Interface:
		return number, nil
	case reflect.String:
		return number.String(), nil
	}

	if i, err := number.Int64(); err == nil {
		return i, nil
	}

	f, err := number.Float64()
	if err != nil {
		return nil, fmt.Errorf("number %q: %w", number, err)
	}

	return f, nil
}

func decode[T Options](node document.Node, cfg loadConfig) (T, error) {
	var value T

	err := decodeInto(node, &value, value.Descriptor().Field(), cfg)
	if err != nil {
		var zero T

		return zero, err
	}

	return value, nil
}
