package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/goccy/go-yaml"
)

// ErrUnsupportedValue is returned when a Go value has no node representation.
var ErrUnsupportedValue = errors.New("unsupported value")

// ErrTrailingData is returned when JSON input holds more than one value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Decode parses JSON or YAML bytes into a node tree. Mapping key order is
// preserved. Empty input decodes to a null Scalar.
func Decode(data []byte) (Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Null(), nil
	}

	var raw any

	err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap())
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	return FromValue(raw)
}

// DecodeJSON parses strict JSON into a node tree. Object key order is
// preserved and numbers are kept as json.Number, so they are written back
// exactly as they were read. Empty input decodes to a null Scalar.
func DecodeJSON(data []byte) (Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Null(), nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	node, err := decodeJSONValue(decoder)
	if err != nil {
		return nil, fmt.Errorf("decode json document: %w", err)
	}

	_, err = decoder.Token()

	switch {
	case errors.Is(err, io.EOF):
		return node, nil
	case err == nil:
		return nil, fmt.Errorf("decode json document: %w", ErrTrailingData)
	default:
		return nil, fmt.Errorf("decode json document: %w", err)
	}
}

func decodeJSONValue(decoder *json.Decoder) (Node, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	delim, isDelim := token.(json.Delim)
	if !isDelim {
		return NewScalar(token), nil
	}

	switch delim {
	case '{':
		obj := NewObject()

		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, err
			}

			key, isKey := keyToken.(string)
			if !isKey {
				return nil, fmt.Errorf("object key %v is not a string", keyToken)
			}

			value, err := decodeJSONValue(decoder)
			if err != nil {
				return nil, err
			}

			obj.Set(key, value)
		}

		_, err = decoder.Token()
		if err != nil {
			return nil, err
		}

		return obj, nil
	case '[':
		arr := NewArray()

		for decoder.More() {
			value, err := decodeJSONValue(decoder)
			if err != nil {
				return nil, err
			}

			arr.Append(value)
		}

		_, err = decoder.Token()
		if err != nil {
			return nil, err
		}

		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

// Marshal converts any JSON-serializable Go value into a node tree. Struct
// fields keep their declaration order and use their json tags as keys.
func Marshal(value any) (Node, error) {
	if node, ok := value.(Node); ok {
		return node.Clone(), nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", value, err)
	}

	return Decode(data)
}

// FromValue converts decoded Go data into a node tree. It accepts ordered
// yaml.MapSlice mappings, map[string]any (keys sorted), []any and scalars.
func FromValue(value any) (Node, error) {
	switch v := value.(type) {
	case Node:
		return v, nil
	case yaml.MapSlice:
		obj := NewObject()

		for _, item := range v {
			child, err := FromValue(item.Value)
			if err != nil {
				return nil, err
			}

			obj.Set(fmt.Sprint(item.Key), child)
		}

		return obj, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		obj := NewObject()

		for _, key := range keys {
			child, err := FromValue(v[key])
			if err != nil {
				return nil, err
			}

			obj.Set(key, child)
		}

		return obj, nil
	case []any:
		arr := NewArray()

		for _, item := range v {
			child, err := FromValue(item)
			if err != nil {
				return nil, err
			}

			arr.Append(child)
		}

		return arr, nil
	case nil, string, bool, json.Number, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return NewScalar(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

// Interface converts a node tree into plain Go data: map[string]any, []any
// and scalar values.
func Interface(node Node) any {
	switch n := node.(type) {
	case *Object:
		out := make(map[string]any, n.Len())
		for _, key := range n.keys {
			out[key] = Interface(n.values[key])
		}

		return out
	case *Array:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = Interface(item)
		}

		return out
	case *Scalar:
		return n.value
	default:
		return nil
	}
}

// ToMapSlice converts a node tree into goccy/go-yaml ordered data suitable
// for yaml.Marshal. json.Number values become int64 or float64.
func ToMapSlice(node Node) any {
	switch n := node.(type) {
	case *Object:
		out := make(yaml.MapSlice, 0, n.Len())
		for _, key := range n.keys {
			out = append(out, yaml.MapItem{Key: key, Value: ToMapSlice(n.values[key])})
		}

		return out
	case *Array:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = ToMapSlice(item)
		}

		return out
	case *Scalar:
		if number, isNumber := n.value.(json.Number); isNumber {
			return numberValue(number)
		}

		return n.value
	default:
		return nil
	}
}

func numberValue(number json.Number) any {
	if i, err := number.Int64(); err == nil {
		return i
	}

	if f, err := number.Float64(); err == nil {
		return f
	}

	return number.String()
}

// MarshalJSON writes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyData, err := encodeCompact(key)
		if err != nil {
			return nil, err
		}

		buf.Write(keyData)
		buf.WriteByte(':')

		valueData, err := encodeCompact(o.values[key])
		if err != nil {
			return nil, err
		}

		buf.Write(valueData)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON writes the array elements in order.
func (a *Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('[')

	for i, item := range a.items {
		if i > 0 {
			buf.WriteByte(',')
		}

		data, err := encodeCompact(item)
		if err != nil {
			return nil, err
		}

		buf.Write(data)
	}

	buf.WriteByte(']')

	return buf.Bytes(), nil
}

// MarshalJSON writes the scalar value.
func (s *Scalar) MarshalJSON() ([]byte, error) {
	return encodeCompact(s.value)
}

// EncodeJSON renders node as JSON indented with two spaces and terminated by
// a newline. HTML characters are not escaped.
func EncodeJSON(node Node) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(node)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	return buf.Bytes(), nil
}

func encodeCompact(value any) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	err := encoder.Encode(value)
	if err != nil {
		return nil, err
	}

	return slices.Clip(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
