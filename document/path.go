package document

import (
	"errors"
	"fmt"
	"strings"
)

// Separator separates the segments of a document path.
const Separator = ":"

// ErrPathConflict is returned when a path segment that must be an Object
// holds some other kind of node.
var ErrPathConflict = errors.New("configuration path conflict")

// ParsePath splits a colon-separated path into its segments.
// Empty segments are dropped, so "" and ":" both address the root.
func ParsePath(path string) []string {
	parts := strings.Split(path, Separator)
	segments := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		segments = append(segments, part)
	}

	return segments
}

// JoinPath joins segments with the path separator.
func JoinPath(segments ...string) string {
	return strings.Join(segments, Separator)
}

// GetOrCreateObject walks path from root, creating an empty Object for every
// missing segment, and returns the Object at the final segment.
// An existing segment that is not an Object fails with ErrPathConflict; it is
// never overwritten. Calling it again with the same path returns the same
// node and changes nothing.
func GetOrCreateObject(root *Object, path string) (*Object, error) {
	current := root
	walked := make([]string, 0, 4)

	for _, segment := range ParsePath(path) {
		walked = append(walked, segment)

		child, exists := current.Get(segment)
		if !exists {
			next := NewObject()
			current.Set(segment, next)
			current = next

			continue
		}

		next, isObject := child.(*Object)
		if !isObject {
			return nil, fmt.Errorf("%w: %q is a %s, expected object", ErrPathConflict, JoinPath(walked...), child.Kind())
		}

		current = next
	}

	return current, nil
}

// Lookup returns the node at path without creating anything.
// The boolean is false when a segment is missing. Traversing through a
// segment that is not an Object fails with ErrPathConflict.
func Lookup(root *Object, path string) (Node, bool, error) {
	var current Node = root

	walked := make([]string, 0, 4)

	for _, segment := range ParsePath(path) {
		obj, isObject := current.(*Object)
		if !isObject {
			return nil, false, fmt.Errorf("%w: %q is a %s, expected object", ErrPathConflict, JoinPath(walked...), current.Kind())
		}

		walked = append(walked, segment)

		child, exists := obj.Get(segment)
		if !exists {
			return nil, false, nil
		}

		current = child
	}

	return current, true, nil
}

// splitParent separates the last segment of path from its parent path.
func splitParent(path string) (string, string) {
	segments := ParsePath(path)
	if len(segments) == 0 {
		return "", ""
	}

	return JoinPath(segments[:len(segments)-1]...), segments[len(segments)-1]
}

// GetOrCreateArray returns the Array stored at path, creating it (and any
// missing parent Objects) when absent. A non-Array node at the final segment
// or a non-Object parent fails with ErrPathConflict.
func GetOrCreateArray(root *Object, path string) (*Array, error) {
	parentPath, key := splitParent(path)
	if key == "" {
		return nil, fmt.Errorf("%w: empty collection path", ErrPathConflict)
	}

	parent, err := GetOrCreateObject(root, parentPath)
	if err != nil {
		return nil, err
	}

	child, exists := parent.Get(key)
	if !exists {
		arr := NewArray()
		parent.Set(key, arr)

		return arr, nil
	}

	arr, isArray := child.(*Array)
	if !isArray {
		return nil, fmt.Errorf("%w: %q is a %s, expected array", ErrPathConflict, path, child.Kind())
	}

	return arr, nil
}
