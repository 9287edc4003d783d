package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldStore holds the form values of one wizard session as a nested
// record. Paths are dotted, with numeric segments addressing array
// elements: "director.name", "companyNames.0", "partners.1.pan".
//
// Array growth policy: setting index == len(array) appends one element,
// setting index > len(array) fails. Sparse arrays are never created, so
// the same sequence of Set calls always yields the same record.
type FieldStore struct {
	root map[string]any
}

// NewFieldStore returns an empty store.
func NewFieldStore() *FieldStore {
	return &FieldStore{root: make(map[string]any)}
}

// Get resolves path against the stored values. The second return value
// reports whether the path resolved to a stored value.
func (s *FieldStore) Get(path string) (any, bool) {
	return lookupPath(s.root, path)
}

// Set writes value at path, creating intermediate objects and growing
// arrays as needed per the growth policy above.
func (s *FieldStore) Set(path string, value any) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return fmt.Errorf("empty field path")
	}
	// The root is always an object, never an array.
	if _, err := strconv.Atoi(segments[0]); err == nil {
		return fmt.Errorf("path %q: segment %q indexes a non-array value", path, segments[0])
	}
	updated, err := setSegments(s.root, segments, value, path)
	if err != nil {
		return err
	}
	s.root = updated.(map[string]any)
	return nil
}

// Snapshot returns a deep copy of the stored values. Mutating the copy
// does not affect the store.
func (s *FieldStore) Snapshot() map[string]any {
	return deepCopyMap(s.root)
}

// Values returns a read-only view for predicate evaluation. The view
// shares storage with the store and must not be retained across Set calls.
func (s *FieldStore) Values() Values {
	return Values(s.root)
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	raw := strings.Split(path, ".")
	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

func lookupPath(root map[string]any, path string) (any, bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, false
	}
	var current any = root
	for _, seg := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setSegments writes value under the remaining segments of node and
// returns the (possibly replaced) node. Arrays are replaced on append, so
// the parent always receives the result back.
func setSegments(node any, segments []string, value any, fullPath string) (any, error) {
	seg := segments[0]
	last := len(segments) == 1

	if idx, err := strconv.Atoi(seg); err == nil {
		arr, ok := node.([]any)
		if !ok {
			if node == nil {
				arr = make([]any, 0)
			} else if m, isMap := node.(map[string]any); isMap && len(m) == 0 {
				arr = make([]any, 0)
			} else {
				return nil, fmt.Errorf("path %q: segment %q indexes a non-array value", fullPath, seg)
			}
		}
		if idx < 0 || idx > len(arr) {
			return nil, fmt.Errorf("path %q: index %d out of range for array of length %d", fullPath, idx, len(arr))
		}
		if idx == len(arr) {
			arr = append(arr, nil)
		}
		if last {
			arr[idx] = value
			return arr, nil
		}
		child, err := setSegments(childNode(arr[idx], segments[1]), segments[1:], value, fullPath)
		if err != nil {
			return nil, err
		}
		arr[idx] = child
		return arr, nil
	}

	obj, ok := node.(map[string]any)
	if !ok {
		if node != nil {
			return nil, fmt.Errorf("path %q: segment %q traverses a non-object value", fullPath, seg)
		}
		obj = make(map[string]any)
	}
	if last {
		obj[seg] = value
		return obj, nil
	}
	child, err := setSegments(childNode(obj[seg], segments[1]), segments[1:], value, fullPath)
	if err != nil {
		return nil, err
	}
	obj[seg] = child
	return obj, nil
}

// childNode normalizes a missing child so the next segment finds the
// container shape it expects.
func childNode(existing any, nextSegment string) any {
	if existing != nil {
		return existing
	}
	if _, err := strconv.Atoi(nextSegment); err == nil {
		return make([]any, 0)
	}
	return make(map[string]any)
}

func deepCopyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch node := v.(type) {
	case map[string]any:
		return deepCopyMap(node)
	case []any:
		arr := make([]any, len(node))
		for i, item := range node {
			arr[i] = deepCopyValue(item)
		}
		return arr
	default:
		return node
	}
}
