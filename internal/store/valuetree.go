package store

import "github.com/hanpama/graphcache/internal/nodeid"

// GetAtPath reads the value at path inside root, returning (value, true) if
// every step resolved, or (nil, false) if the path runs off the edge of the
// tree (a missing object key or an out-of-range array index).
func GetAtPath(root any, path nodeid.Path) (any, bool) {
	cur := root
	for _, elem := range path {
		switch step := elem.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			v, ok := m[step]
			if !ok {
				return nil, false
			}
			cur = v
		case int:
			s, ok := cur.([]any)
			if !ok || step < 0 || step >= len(s) {
				return nil, false
			}
			cur = s[step]
		}
	}
	return cur, true
}

// SetAtPath writes value at path inside root, growing maps and arrays as
// needed, and returns the (possibly new) root. Arrays grow by padding with
// Undefined holes, never nil, so a later write distinguishing "never
// touched" from "explicitly nulled" stays possible.
func SetAtPath(root any, path nodeid.Path, value any) any {
	if len(path) == 0 {
		return value
	}
	return setAtPathRec(root, path, value)
}

func setAtPathRec(node any, path nodeid.Path, value any) any {
	head := path[0]
	rest := path[1:]
	switch step := head.(type) {
	case string:
		m, ok := node.(map[string]any)
		if !ok {
			m = map[string]any{}
		} else {
			m = shallowCopyMap(m)
		}
		if len(rest) == 0 {
			m[step] = value
		} else {
			m[step] = setAtPathRec(m[step], rest, value)
		}
		return m
	case int:
		s, ok := node.([]any)
		if !ok {
			s = nil
		}
		s = growArray(s, step)
		if len(rest) == 0 {
			s[step] = value
		} else {
			s[step] = setAtPathRec(s[step], rest, value)
		}
		return s
	default:
		return node
	}
}

// DeleteAtPath removes the value at path: a map key is deleted outright; an
// array element is reset to Undefined (its length is never allowed to
// shrink from a delete). It is a no-op if the path does not resolve to an
// existing map key.
func DeleteAtPath(root any, path nodeid.Path) any {
	if len(path) == 0 {
		return root
	}
	return deleteAtPathRec(root, path)
}

func deleteAtPathRec(node any, path nodeid.Path) any {
	head := path[0]
	rest := path[1:]
	switch step := head.(type) {
	case string:
		m, ok := node.(map[string]any)
		if !ok {
			return node
		}
		m = shallowCopyMap(m)
		if len(rest) == 0 {
			delete(m, step)
			return m
		}
		if _, ok := m[step]; !ok {
			return m
		}
		m[step] = deleteAtPathRec(m[step], rest)
		return m
	case int:
		s, ok := node.([]any)
		if !ok || step < 0 || step >= len(s) {
			return node
		}
		s = append([]any(nil), s...)
		if len(rest) == 0 {
			s[step] = Undefined
		} else {
			s[step] = deleteAtPathRec(s[step], rest)
		}
		return s
	default:
		return node
	}
}

// TruncateArray shrinks the array at path to length n, dropping trailing
// elements. Used when an incoming array is shorter than the stored one
// (spec.md §9 open question: shrinking does not sweep edges that pointed
// past the new length here; the editor does that via EdgesUnderPrefix before
// calling this).
func TruncateArray(root any, path nodeid.Path, n int) any {
	cur, ok := GetAtPath(root, path)
	if !ok {
		return root
	}
	s, ok := cur.([]any)
	if !ok || len(s) <= n {
		return root
	}
	return SetAtPath(root, path, append([]any(nil), s[:n]...))
}

func growArray(s []any, n int) []any {
	if len(s) > n {
		out := append([]any(nil), s...)
		return out
	}
	out := make([]any, n+1)
	copy(out, s)
	for i := len(s); i < len(out); i++ {
		out[i] = Undefined
	}
	return out
}

func shallowCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
