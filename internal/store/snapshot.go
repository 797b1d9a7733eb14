package store

import "github.com/hanpama/graphcache/internal/nodeid"

// Snapshot is an immutable NodeId -> NodeSnapshot mapping. Once returned
// from Commit it is never mutated; unrelated writes share NodeSnapshot
// instances for every node neither write touched.
type Snapshot struct {
	nodes map[nodeid.ID]*NodeSnapshot
}

// Empty returns a snapshot with no nodes, a valid base for a first write.
func Empty() *Snapshot {
	return &Snapshot{nodes: map[nodeid.ID]*NodeSnapshot{}}
}

// GetNodeSnapshot returns the raw record for id, with its inbound/outbound
// edges, or (nil, false) if id is not present.
func (s *Snapshot) GetNodeSnapshot(id nodeid.ID) (*NodeSnapshot, bool) {
	if s == nil {
		return nil, false
	}
	n, ok := s.nodes[id]
	return n, ok
}

// Len reports the number of nodes in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// Get projects id's reconstructed JSON value, inlining every child reference
// recorded in Outbound at its placeholder position. Cycles (the graph
// admits them, spec.md §9) are broken by returning nil the second time a
// node is entered on the same projection path, rather than recursing
// forever.
func (s *Snapshot) Get(id nodeid.ID) any {
	return s.project(id, map[nodeid.ID]bool{})
}

func (s *Snapshot) project(id nodeid.ID, seen map[nodeid.ID]bool) any {
	n, ok := s.GetNodeSnapshot(id)
	if !ok {
		return nil
	}
	if seen[id] {
		return nil
	}
	seen[id] = true
	defer delete(seen, id)
	return projectValue(n.Value, n.Outbound, s, seen)
}

func projectValue(v any, outbound []Edge, s *Snapshot, seen map[nodeid.ID]bool) any {
	result := deepCopyValue(v)
	for _, e := range outbound {
		child := s.project(e.ID, seen)
		if len(e.Path) == 0 {
			result = child
			continue
		}
		result = SetAtPath(result, e.Path, child)
	}
	return stripUndefined(result)
}

// stripUndefined removes the Undefined sentinel from a projected value so
// callers of Get never observe the internal hole marker: an untouched array
// slot becomes nil. Raw NodeSnapshot.Value, returned by GetNodeSnapshot, is
// not passed through this - tests inspecting raw storage see Undefined.
func stripUndefined(v any) any {
	switch val := v.(type) {
	case undefinedType:
		return nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = stripUndefined(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = stripUndefined(e)
		}
		return out
	default:
		return val
	}
}

// Commit overlays working on top of base, producing a new Snapshot. Nodes
// absent from working keep base's NodeSnapshot identity (invariant 3:
// structural sharing of untouched subgraphs).
func Commit(base *Snapshot, working map[nodeid.ID]*NodeSnapshot) *Snapshot {
	nodes := make(map[nodeid.ID]*NodeSnapshot, base.Len()+len(working))
	if base != nil {
		for id, n := range base.nodes {
			nodes[id] = n
		}
	}
	for id, n := range working {
		nodes[id] = n
	}
	return &Snapshot{nodes: nodes}
}
