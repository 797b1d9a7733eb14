// Package store holds the immutable NodeSnapshot/Snapshot model: the data
// at rest once the editor has committed a write. The editor (internal/editor)
// is the only writer; everything here is either read-only or operates on a
// caller-owned working copy.
package store

import "github.com/hanpama/graphcache/internal/nodeid"

// NodeType distinguishes how a node came to exist. It is observable (callers
// may branch on it) but does not change merge semantics.
type NodeType string

const (
	EntityNodeSnapshot         NodeType = "Entity"
	ParameterizedValueSnapshot NodeType = "Parameterized"
)

// Edge is one link in a node's inbound or outbound adjacency. Path is always
// a sequence of steps inside the referencing (parent) node's logical address
// space: for an outbound edge on N, Path is where inside N's own value the
// edge sits; for
// the symmetric inbound edge on the target, Path is the same value, naming
// where inside the parent N the edge originates.
type Edge struct {
	ID   nodeid.ID
	Path nodeid.Path
}

// Undefined marks an array element whose real content lives only in an
// outbound edge. Object fields use the simpler "absent key" form of the same
// concept; arrays need an explicit marker since removing a slice element
// would shift every subsequent index.
type undefinedType struct{}

var Undefined = undefinedType{}

// NodeSnapshot is one node's immutable record once published. The editor
// works against clones of these; nothing in this package mutates a
// NodeSnapshot that's reachable from a committed Snapshot.
type NodeSnapshot struct {
	Type     NodeType
	Value    any
	Inbound  []Edge
	Outbound []Edge
}

// Clone makes an independent copy safe to mutate: Value is deep-copied and
// the edge slices are copied so appending to the clone never aliases the
// original's backing array. This is the shallow-clone-then-mutate discipline
// the spec calls copy-on-write; "shallow" refers to not touching sibling
// nodes, not to aliasing this node's own containers.
func (n *NodeSnapshot) Clone() *NodeSnapshot {
	if n == nil {
		return &NodeSnapshot{}
	}
	return &NodeSnapshot{
		Type:     n.Type,
		Value:    deepCopyValue(n.Value),
		Inbound:  append([]Edge(nil), n.Inbound...),
		Outbound: append([]Edge(nil), n.Outbound...),
	}
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = deepCopyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return val
	}
}

// OutboundAt returns the outbound edge recorded at exactly path, if any.
func (n *NodeSnapshot) OutboundAt(path nodeid.Path) (Edge, bool) {
	for _, e := range n.Outbound {
		if e.Path.Equal(path) {
			return e, true
		}
	}
	return Edge{}, false
}

// EdgesUnderPrefix returns every outbound edge whose path is prefix itself or
// a descendant of it.
func (n *NodeSnapshot) EdgesUnderPrefix(prefix nodeid.Path) []Edge {
	var out []Edge
	for _, e := range n.Outbound {
		if e.Path.HasPrefix(prefix) {
			out = append(out, e)
		}
	}
	return out
}
