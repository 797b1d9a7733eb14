package editor

import (
	"github.com/hanpama/graphcache/internal/nodeid"
	"github.com/hanpama/graphcache/internal/store"
)

// setReference records that containerID's value at path now points to
// target, replacing whatever was there before: any prior outbound edge at
// path is torn down (with symmetric inbound cleanup), any literal value at
// path is hollowed out (invariant 2), and the new edge is added with its
// symmetric inbound. If the edge already points to target it is torn down
// and re-added, so the edge sets come out as they were; the clones this
// leaves behind are reverted by reconciliation when nothing else changed.
func (e *Editor) setReference(containerID nodeid.ID, path nodeid.Path, target nodeid.ID) {
	e.removeReferencesUnderPrefix(containerID, path)
	container := e.cow(containerID)
	container.Outbound = append(container.Outbound, store.Edge{ID: target, Path: path.Clone()})
	e.addInbound(target, containerID, path)
	container.Value = store.DeleteAtPath(container.Value, path)
}

// removeReferencesUnderPrefix tears down every outbound edge on containerID
// whose path is prefix itself or a descendant of it, with symmetric inbound
// cleanup. Used before writing a literal value over a position that might
// currently hold a reference (spec.md §9 open question 3: last write wins).
func (e *Editor) removeReferencesUnderPrefix(containerID nodeid.ID, prefix nodeid.Path) {
	container := e.cow(containerID)
	doomed := container.EdgesUnderPrefix(prefix)
	if len(doomed) == 0 {
		return
	}
	for _, edge := range doomed {
		e.removeInbound(edge.ID, containerID, edge.Path)
	}
	container.Outbound = removeEdgesUnderPrefix(container.Outbound, prefix)
}

// addInbound records that targetID is referenced by fromID at path,
// coalescing on (id, path) set semantics.
func (e *Editor) addInbound(targetID, fromID nodeid.ID, path nodeid.Path) {
	target := e.cow(targetID)
	for _, in := range target.Inbound {
		if in.ID == fromID && in.Path.Equal(path) {
			return
		}
	}
	target.Inbound = append(target.Inbound, store.Edge{ID: fromID, Path: path.Clone()})
}

// removeInbound removes the {fromID, path} inbound edge from targetID, if
// present.
func (e *Editor) removeInbound(targetID, fromID nodeid.ID, path nodeid.Path) {
	target := e.cow(targetID)
	out := target.Inbound[:0:0]
	for _, in := range target.Inbound {
		if in.ID == fromID && in.Path.Equal(path) {
			continue
		}
		out = append(out, in)
	}
	target.Inbound = out
}

func removeEdgesUnderPrefix(edges []store.Edge, prefix nodeid.Path) []store.Edge {
	out := edges[:0:0]
	for _, e := range edges {
		if e.Path.HasPrefix(prefix) {
			continue
		}
		out = append(out, e)
	}
	return out
}
