package query

import "strings"

// splitPath splits a dotted path into its segments.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Get returns the value stored at the dotted path. The second result is false when a
// segment is missing or an intermediate value is not a map; lists stop the walk since
// paths carry no index syntax.
func Get(record Record, path string) (any, bool) {
	segs := splitPath(path)
	if len(segs) == 0 || record == nil {
		return nil, false
	}
	var cur any = map[string]any(record)
	for _, seg := range segs {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = node[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// present reports the value at path when it exists and is not null.
func present(record Record, path string) (any, bool) {
	v, ok := Get(record, path)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Set assigns value at the dotted path, creating intermediate maps. Intermediate
// values that are not maps are replaced. Set mutates record; callers building derived
// output pass a record they own.
func Set(record Record, path string, value any) {
	segs := splitPath(path)
	if len(segs) == 0 || record == nil {
		return
	}
	node := map[string]any(record)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := node[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			node[seg] = next
		}
		node = next
	}
	node[segs[len(segs)-1]] = value
}

// Remove deletes the terminal key of path from record. Missing levels are a no-op.
func Remove(record Record, path string) {
	segs := splitPath(path)
	if len(segs) == 0 || record == nil {
		return
	}
	node := map[string]any(record)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := node[seg].(map[string]any)
		if !ok {
			return
		}
		node = next
	}
	delete(node, segs[len(segs)-1])
}

// Without returns a copy of record with path removed. Only the maps along the path
// are copied, everything else is shared with the input, which is never modified.
func Without(record Record, path string) Record {
	if _, ok := Get(record, path); !ok {
		return record
	}
	return withoutSegs(record, splitPath(path))
}

func withoutSegs(node map[string]any, segs []string) map[string]any {
	out := make(map[string]any, len(node))
	for k, v := range node {
		out[k] = v
	}
	if len(segs) == 1 {
		delete(out, segs[0])
		return out
	}
	child, ok := node[segs[0]].(map[string]any)
	if !ok {
		return out
	}
	out[segs[0]] = withoutSegs(child, segs[1:])
	return out
}

// Clone deep-copies maps and lists; scalars are returned as is.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}
