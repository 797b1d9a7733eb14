// Package editor implements the copy-on-write merge core: it walks a
// resolved selection tree in lockstep with a JSON payload and folds the
// payload into a base snapshot, producing the working set a caller then
// commits into a new immutable snapshot.
package editor

import (
	"github.com/hanpama/graphcache/internal/nodeid"
	"github.com/hanpama/graphcache/internal/store"
)

// Editor is scoped to a single write. It is not safe for concurrent use and
// must not be reused after Commit.
type Editor struct {
	base      *store.Snapshot
	working   map[nodeid.ID]*store.NodeSnapshot
	edited    map[nodeid.ID]bool
	ctx       *Context
	query     *Query
	committed bool
}

// New constructs an Editor around base. base is never mutated.
func New(base *store.Snapshot, ctx *Context, query *Query) *Editor {
	if base == nil {
		base = store.Empty()
	}
	return &Editor{
		base:    base,
		working: map[nodeid.ID]*store.NodeSnapshot{},
		edited:  map[nodeid.ID]bool{},
		ctx:     ctx,
		query:   query,
	}
}

// read returns the node's current snapshot, falling through to base. The
// returned NodeSnapshot must not be mutated; use cow for that.
func (e *Editor) read(id nodeid.ID) (*store.NodeSnapshot, bool) {
	if n, ok := e.working[id]; ok {
		return n, true
	}
	return e.base.GetNodeSnapshot(id)
}

// cow returns a mutable working copy of the node, cloning it from base (or
// creating an empty one) the first time this write touches it, and marking
// it edited.
func (e *Editor) cow(id nodeid.ID) *store.NodeSnapshot {
	if n, ok := e.working[id]; ok {
		return n
	}
	var n *store.NodeSnapshot
	if base, ok := e.base.GetNodeSnapshot(id); ok {
		n = base.Clone()
	} else {
		n = &store.NodeSnapshot{Type: store.EntityNodeSnapshot, Value: map[string]any{}}
	}
	e.working[id] = n
	e.edited[id] = true
	return n
}

// setNodeType records the node kind on the node's working copy, cloning it
// into the working set first if this write has not touched it yet.
func (e *Editor) setNodeType(id nodeid.ID, t store.NodeType) {
	n := e.cow(id)
	n.Type = t
}

// MergePayload runs the selection walker over the query's root selection
// against payload, merging every visited field into the working set.
func (e *Editor) MergePayload(payload map[string]any) error {
	if e.committed {
		return newError(InternalInvariant, nil, "editor reused after commit")
	}
	vars, err := resolveVariables(e.query.VariableDefinitions(), e.ctx.Variables)
	if err != nil {
		return err
	}
	m := &merger{editor: e, doc: e.query.Document(), vars: vars}
	return m.mergeSelectionSet(e.query.RootID, nodeid.Path{}, e.query.Root, payload)
}

// Commit runs reconciliation, freezes the working set into a new Snapshot,
// and returns it with the edited id set. The editor must not be used again
// afterward.
func (e *Editor) Commit() (*store.Snapshot, map[nodeid.ID]struct{}, error) {
	if e.committed {
		return nil, nil, newError(InternalInvariant, nil, "editor reused after commit")
	}
	e.committed = true

	reconcile(e)

	editedIDs := make(map[nodeid.ID]struct{}, len(e.edited))
	for id := range e.edited {
		editedIDs[id] = struct{}{}
	}
	snapshot := store.Commit(e.base, e.working)
	return snapshot, editedIDs, nil
}
