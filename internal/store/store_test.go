package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/graphcache/internal/nodeid"
)

func TestSnapshot_GetProjectsOutboundEdges(t *testing.T) {
	s := Commit(Empty(), map[nodeid.ID]*NodeSnapshot{
		"QueryRoot": {
			Type:     ParameterizedValueSnapshot,
			Value:    map[string]any{},
			Outbound: []Edge{{ID: "User:1", Path: nodeid.Path{"viewer"}}},
		},
		"User:1": {
			Type:    EntityNodeSnapshot,
			Value:   map[string]any{"id": "1", "name": "Ada"},
			Inbound: []Edge{{ID: "QueryRoot", Path: nodeid.Path{"viewer"}}},
		},
	})

	got := s.Get("QueryRoot")
	want := map[string]any{
		"viewer": map[string]any{"id": "1", "name": "Ada"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected projection (-want +got):\n%s", diff)
	}
}

func TestSnapshot_GetBreaksCycles(t *testing.T) {
	s := Commit(Empty(), map[nodeid.ID]*NodeSnapshot{
		"A": {
			Value:    map[string]any{"name": "a"},
			Outbound: []Edge{{ID: "B", Path: nodeid.Path{"next"}}},
		},
		"B": {
			Value:    map[string]any{"name": "b"},
			Outbound: []Edge{{ID: "A", Path: nodeid.Path{"next"}}},
		},
	})

	got := s.Get("A")
	want := map[string]any{
		"name": "a",
		"next": map[string]any{
			"name": "b",
			"next": nil,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected cyclic projection (-want +got):\n%s", diff)
	}
}

func TestSnapshot_GetStripsUndefinedHoles(t *testing.T) {
	s := Commit(Empty(), map[nodeid.ID]*NodeSnapshot{
		"QueryRoot": {
			Value: map[string]any{
				"items": []any{Undefined, map[string]any{"name": "x"}},
			},
		},
	})

	got := s.Get("QueryRoot")
	want := map[string]any{
		"items": []any{nil, map[string]any{"name": "x"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected projection (-want +got):\n%s", diff)
	}
}

func TestCommit_SharesUntouchedNodeIdentity(t *testing.T) {
	base := Commit(Empty(), map[nodeid.ID]*NodeSnapshot{
		"User:1": {Value: map[string]any{"id": "1", "name": "Ada"}},
		"User:2": {Value: map[string]any{"id": "2", "name": "Bob"}},
	})
	untouched, _ := base.GetNodeSnapshot("User:2")

	next := Commit(base, map[nodeid.ID]*NodeSnapshot{
		"User:1": {Value: map[string]any{"id": "1", "name": "Ada Lovelace"}},
	})

	stillUntouched, ok := next.GetNodeSnapshot("User:2")
	if !ok {
		t.Fatalf("expected User:2 to survive commit")
	}
	if stillUntouched != untouched {
		t.Fatalf("expected untouched node to keep identity across commit")
	}

	updated, ok := next.GetNodeSnapshot("User:1")
	if !ok {
		t.Fatalf("expected User:1 to survive commit")
	}
	if diff := cmp.Diff(map[string]any{"id": "1", "name": "Ada Lovelace"}, updated.Value); diff != "" {
		t.Fatalf("unexpected updated value (-want +got):\n%s", diff)
	}

	if base.Len() != 2 {
		t.Fatalf("expected base snapshot to be unaffected by later commit")
	}
}

func TestNodeSnapshot_EdgesUnderPrefix(t *testing.T) {
	n := &NodeSnapshot{
		Outbound: []Edge{
			{ID: "A", Path: nodeid.Path{"items", 0}},
			{ID: "B", Path: nodeid.Path{"items", 1}},
			{ID: "C", Path: nodeid.Path{"other"}},
		},
	}
	got := n.EdgesUnderPrefix(nodeid.Path{"items"})
	if len(got) != 2 {
		t.Fatalf("expected 2 edges under prefix, got %d", len(got))
	}
}

func TestNodeSnapshot_Clone_DoesNotAliasOriginal(t *testing.T) {
	n := &NodeSnapshot{
		Value:    map[string]any{"tags": []any{"a", "b"}},
		Outbound: []Edge{{ID: "X", Path: nodeid.Path{"x"}}},
	}
	clone := n.Clone()
	clone.Value.(map[string]any)["tags"] = append(clone.Value.(map[string]any)["tags"].([]any), "c")
	clone.Outbound = append(clone.Outbound, Edge{ID: "Y", Path: nodeid.Path{"y"}})

	if len(n.Value.(map[string]any)["tags"].([]any)) != 2 {
		t.Fatalf("expected original value untouched by clone mutation")
	}
	if len(n.Outbound) != 1 {
		t.Fatalf("expected original outbound untouched by clone mutation")
	}
}
