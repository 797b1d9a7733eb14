package editor

import (
	"reflect"
	"sort"

	"github.com/hanpama/graphcache/internal/store"
)

// reconcile compares every cow'd working node against its base counterpart
// and reverts ones that turn out to be structurally identical: the cow
// clone is discarded and the id is dropped from edited, so a write that
// touches a node without actually changing it never appears in the edited
// set (spec.md §4.3 "Reference-no-op detection").
func reconcile(e *Editor) {
	for id, working := range e.working {
		base, hadBase := e.base.GetNodeSnapshot(id)
		if hadBase && nodeSnapshotsEqual(base, working) {
			delete(e.working, id)
			delete(e.edited, id)
		}
	}
}

func nodeSnapshotsEqual(a, b *store.NodeSnapshot) bool {
	if a.Type != b.Type {
		return false
	}
	if !reflect.DeepEqual(a.Value, b.Value) {
		return false
	}
	return edgeSetsEqual(a.Outbound, b.Outbound) && edgeSetsEqual(a.Inbound, b.Inbound)
}

// edgeSetsEqual compares two edge slices as multisets over (id, path):
// inbound/outbound arrays are explicitly unordered per spec.md §5.
func edgeSetsEqual(a, b []store.Edge) bool {
	if len(a) != len(b) {
		return false
	}
	return sortedEdgeKeys(a) == sortedEdgeKeys(b)
}

func sortedEdgeKeys(edges []store.Edge) string {
	keys := make([]string, len(edges))
	for i, e := range edges {
		keys[i] = string(e.ID) + "|" + e.Path.String()
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += k + "\x00"
	}
	return out
}
