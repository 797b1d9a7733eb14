package editor

import (
	"github.com/hanpama/graphcache/internal/language"
	"github.com/hanpama/graphcache/internal/nodeid"
	"github.com/hanpama/graphcache/internal/store"
)

// merger drives one MergePayload call: it holds the query document (for
// fragment lookups) and the resolved variable values, and recurses over the
// selection tree alongside the payload.
type merger struct {
	editor *Editor
	doc    *language.QueryDocument
	vars   map[string]any
}

// mergeSelectionSet walks every field in selectionSet against an object
// payload, merging each into containerID's logical address space at path.
// Fields absent from payload are left untouched (spec.md §4.2: missing
// means unchanged, not cleared).
func (m *merger) mergeSelectionSet(containerID nodeid.ID, path nodeid.Path, selectionSet language.SelectionSet, payload map[string]any) error {
	collected, err := collectFields(m.doc, selectionSet, m.vars)
	if err != nil {
		return err
	}
	for _, cf := range collected.fields {
		field := cf.Fields[0]
		if err := m.mergeField(containerID, path, field, cf.ResponseName, payload); err != nil {
			return err
		}
	}
	return nil
}

// mergeField processes one selected field. A field carrying arguments gets
// its own parameterized node; the edge to it is recorded on containerID at
// the field's path, and the field's value is merged into the parameterized
// node's own root (path reset to empty), never into containerID's value
// directly (invariant 2).
func (m *merger) mergeField(containerID nodeid.ID, path nodeid.Path, field *language.Field, responseName string, payload map[string]any) error {
	value, present := payload[responseName]
	if !present {
		return nil
	}
	fieldPath := path.Append(responseName)

	if len(field.Arguments) > 0 {
		args := resolveArguments(field.Arguments, m.vars)
		target := nodeid.Param(containerID, fieldPath, args)
		m.editor.setReference(containerID, fieldPath, target)
		m.editor.setNodeType(target, store.ParameterizedValueSnapshot)
		return m.mergeValue(target, nodeid.Path{}, field.SelectionSet, value)
	}
	return m.mergeValue(containerID, fieldPath, field.SelectionSet, value)
}

// mergeValue merges a single JSON value (whatever shape) into
// (containerID, path), as described by selectionSet. It is used both for a
// field's own value and, recursively, for array elements addressed at
// path+[index] against the same element selection.
func (m *merger) mergeValue(containerID nodeid.ID, path nodeid.Path, selectionSet language.SelectionSet, value any) error {
	switch v := value.(type) {
	case nil:
		m.editor.removeReferencesUnderPrefix(containerID, path)
		container := m.editor.cow(containerID)
		container.Value = store.SetAtPath(container.Value, path, nil)
		return nil

	case map[string]any:
		if len(selectionSet) == 0 {
			return newError(MalformedPayload, path, "object payload for a field with no sub-selection")
		}
		target, isReference, isNewEdge := m.resolveObjectTarget(containerID, path, selectionSet, v)
		if isReference {
			if isNewEdge {
				m.editor.setReference(containerID, path, target)
				m.editor.setNodeType(target, store.EntityNodeSnapshot)
			}
			return m.mergeSelectionSet(target, nodeid.Path{}, selectionSet, v)
		}
		return m.mergeSelectionSet(containerID, path, selectionSet, v)

	case []any:
		if len(selectionSet) == 0 {
			m.editor.removeReferencesUnderPrefix(containerID, path)
			container := m.editor.cow(containerID)
			container.Value = store.SetAtPath(container.Value, path, v)
			return nil
		}
		return m.mergeArray(containerID, path, selectionSet, v)

	default:
		if len(selectionSet) != 0 {
			return newError(MalformedPayload, path, "scalar payload for a field with a sub-selection")
		}
		m.editor.removeReferencesUnderPrefix(containerID, path)
		container := m.editor.cow(containerID)
		container.Value = store.SetAtPath(container.Value, path, v)
		return nil
	}
}

// resolveObjectTarget decides whether obj at (containerID, path) addresses
// a referenced node, and if so which one.
//
// Priority: (1) the entity-id resolver, authoritative when it has an
// opinion; (2) a reference already recorded at this exact path, reused so
// an update payload that omits the identity field (spec.md §8 scenario 6)
// still lands on the right entity instead of being treated as a fresh
// inline object; (3) no identity at all, a plain inline value.
func (m *merger) resolveObjectTarget(containerID nodeid.ID, path nodeid.Path, selectionSet language.SelectionSet, obj map[string]any) (target nodeid.ID, isReference bool, isNewEdge bool) {
	if id, ok := m.editor.ctx.EntityID(selectionSet, obj); ok {
		return id, true, true
	}
	if node, ok := m.editor.read(containerID); ok {
		if edge, ok2 := node.OutboundAt(path); ok2 {
			return edge.ID, true, false
		}
	}
	return "", false, false
}

// mergeArray merges a JSON array into containerID's value at path, reusing
// elementSelection for every element (spec.md §4.3.4). A shorter incoming
// array truncates the stored one, clearing any references that pointed
// past the new length; a longer one simply extends it.
func (m *merger) mergeArray(containerID nodeid.ID, path nodeid.Path, elementSelection language.SelectionSet, arr []any) error {
	container := m.editor.cow(containerID)
	cur, _ := store.GetAtPath(container.Value, path)
	oldArr, _ := cur.([]any)

	if len(oldArr) > len(arr) {
		for i := len(arr); i < len(oldArr); i++ {
			m.editor.removeReferencesUnderPrefix(containerID, path.Append(i))
		}
		container.Value = store.TruncateArray(container.Value, path, len(arr))
	}

	// Grow the array to its final length up front, so a position no field
	// write ever touches (every field at that index turns out to be a
	// reference, never a sibling scalar) still shows up as a hole rather
	// than shortening the array (spec.md §8 scenario 4: "length preserved").
	for i := 0; i < len(arr); i++ {
		elemPath := path.Append(i)
		if _, ok := store.GetAtPath(container.Value, elemPath); !ok {
			container.Value = store.SetAtPath(container.Value, elemPath, store.Undefined)
		}
	}

	for i, elem := range arr {
		if err := m.mergeValue(containerID, path.Append(i), elementSelection, elem); err != nil {
			return err
		}
	}
	return nil
}
