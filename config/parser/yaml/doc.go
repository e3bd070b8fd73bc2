// Package yaml provides the document parser for the config package.
//
// This package uses github.com/goccy/go-yaml for parsing. JSON is a subset of
// YAML, so the same parser reads both configuration.json style files and YAML
// files. Two entry points are offered:
//
//   - Parse decodes a typed target, optionally starting at a colon-separated
//     path (e.g., "Logging:Level"), using goccy/go-yaml PathString navigation.
//   - ParseDocument decodes the whole file into an ordered document.Object so
//     that it can be edited in place and written back with EncodeDocument.
//     A parser built with NewDocumentParser(FormatJSON) reads strict JSON and
//     keeps numbers exactly as written; otherwise the YAML grammar is used.
//
// Usage:
//
//	format := yaml.FormatFor("configuration.json")
//	parser := yaml.NewDocumentParser(format)
//	root, err := parser.ParseDocument(data)
//	out, err := parser.EncodeDocument(root, format)
//
// Path Conversion:
//   - Empty path "" -> unmarshal entire document
//   - Single key "key" -> "$.key"
//   - Nested path "api:permissions" -> "$.api.permissions"
package yaml
