package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jjohnsen/azure-devops-migration-tools/document"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when the specified path is not found in the YAML document.
var ErrPathNotFound = errors.New("path not found")

// ErrNotObject is returned when a document root is not a mapping.
var ErrNotObject = errors.New("document root is not an object")

// Format selects the serialization used for a configuration document.
type Format string

const (
	// FormatJSON writes indented JSON.
	FormatJSON Format = "json"
	// FormatYAML writes block-style YAML.
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from the file extension; anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parser implements config.Parser and config.DocumentParser for YAML and JSON data.
// It uses goccy/go-yaml PathString for efficient path navigation.
type Parser struct {
	format Format
}

// NewParser creates a new YAML parser instance. Its ParseDocument accepts
// YAML, and therefore also JSON written in YAML-compatible form.
func NewParser() *Parser {
	return &Parser{}
}

// NewDocumentParser creates a parser whose ParseDocument reads the given
// format. FormatJSON documents must be strict JSON.
func NewDocumentParser(format Format) *Parser {
	return &Parser{format: format}
}

// Parse parses YAML data and unmarshals it into the target.
// The path parameter specifies a navigation path using colon (:) as separator.
// Empty path parses the entire document.
func (p *Parser) Parse(data []byte, target any, path string) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	if path == "" {
		err := yaml.Unmarshal(data, target)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	yamlPath := convertToYAMLPath(path)

	pathObj, err := yaml.PathString(yamlPath)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	reader := bytes.NewReader(data)

	err = pathObj.Read(reader, target)
	if err != nil {
		if isKeyNotFoundError(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		return fmt.Errorf("reading path %q: %w", path, err)
	}

	return nil
}

// ParseDocument parses JSON or YAML data into an ordered document.
// Empty or whitespace-only data yields an empty document. A root that is not
// a mapping fails with ErrNotObject.
func (p *Parser) ParseDocument(data []byte) (*document.Object, error) {
	decode := document.Decode
	if p.format == FormatJSON {
		decode = document.DecodeJSON
	}

	node, err := decode(data)
	if err != nil {
		return nil, err
	}

	if scalar, isScalar := node.(*document.Scalar); isScalar && scalar.IsNull() {
		return document.NewObject(), nil
	}

	root, isObject := node.(*document.Object)
	if !isObject {
		return nil, fmt.Errorf("%w: found %s", ErrNotObject, node.Kind())
	}

	return root, nil
}

// EncodeDocument serializes root in the requested format.
func (p *Parser) EncodeDocument(root *document.Object, format Format) ([]byte, error) {
	if format == FormatYAML {
		data, err := yaml.Marshal(document.ToMapSlice(root))
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}

		return data, nil
	}

	return document.EncodeJSON(root)
}

// convertToYAMLPath converts a colon-separated path to goccy/go-yaml PathString format.
// Examples:
//   - "Logging" -> "$.Logging"
//   - "Logging:Level" -> "$.Logging.Level"
func convertToYAMLPath(path string) string {
	return "$." + strings.ReplaceAll(path, ":", ".")
}

// isKeyNotFoundError checks if the error indicates a key was not found.
func isKeyNotFoundError(err error) bool {
	return yaml.IsNotFoundNodeError(err)
}
