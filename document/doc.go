// Package document provides the in-memory model of a migration configuration
// document.
//
// A document is a tree of three node variants:
//   - *Object: an ordered mapping of string keys to nodes (insertion order is
//     preserved so that re-serialization is deterministic)
//   - *Array: an ordered sequence of nodes
//   - *Scalar: a string, number, bool or null
//
// # Path Navigation
//
// Nodes are addressed with colon (:) separated paths, the same convention the
// config package uses:
//
//	"Source"                        -> root["Source"]
//	"MigrationTools:Endpoints"      -> root["MigrationTools"]["Endpoints"]
//	""                              -> the root itself
//
// GetOrCreateObject creates missing Object nodes along a path and fails with
// ErrPathConflict when an existing segment is not an Object. It never
// overwrites existing data.
//
// # Decoding and Encoding
//
// Decode turns JSON or YAML bytes into a node tree with key order preserved
// (github.com/goccy/go-yaml ordered maps). EncodeJSON writes a node tree back
// as indented JSON.
package document
