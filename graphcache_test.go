package graphcache

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanpama/graphcache/internal/eventbus"
	"github.com/hanpama/graphcache/internal/events"
	"github.com/hanpama/graphcache/internal/nodeid"
	"github.com/stretchr/testify/require"
)

func TestWrite_NewParameterizedFieldThenUpdate(t *testing.T) {
	q := MustParseQuery(`query($id: Int) {
		foo(id: $id, withExtra: true) { id name extra }
	}`, "")
	ctx := NewContext()
	ctx.Variables = map[string]any{"id": 1}

	snapshot, edited, err := Write(context.Background(), ctx, EmptySnapshot(), q, map[string]any{
		"foo": map[string]any{"id": 1, "name": "Foo", "extra": false},
	})
	require.NoError(t, err)
	// QueryRoot, the parameterized "foo" container, and entity "1" all get
	// created fresh against an empty base.
	if len(edited) != 3 {
		t.Fatalf("expected 3 edited nodes on first write, got %d: %v", len(edited), edited)
	}
	require.NotNil(t, ctx.PreviousWrite)
	entity := nodeid.Entity(1)
	if diff := cmp.Diff(map[string]any{"id": 1, "name": "Foo", "extra": false}, ctx.PreviousWrite.NewValues[entity]); diff != "" {
		t.Fatalf("unexpected PreviousWrite.NewValues (-want +got):\n%s", diff)
	}

	snapshot2, edited2, err := Write(context.Background(), ctx, snapshot, q, map[string]any{
		"foo": map[string]any{"id": 1, "name": "Foo Bar"},
	})
	require.NoError(t, err)
	wantEdited := map[ID]struct{}{entity: {}}
	if diff := cmp.Diff(wantEdited, edited2); diff != "" {
		t.Fatalf("unexpected edited set on second write (-want +got):\n%s", diff)
	}
	got := snapshot2.Get(entity).(map[string]any)
	if got["name"] != "Foo Bar" || got["extra"] != false {
		t.Fatalf("unexpected merged entity projection: %#v", got)
	}
}

func TestWrite_IdempotentRepeat(t *testing.T) {
	q := MustParseQuery(`query { foo { id extra } }`, "")
	payload := map[string]any{"foo": []any{map[string]any{"id": 1, "extra": true}}}

	snapshot, _, err := Write(context.Background(), nil, EmptySnapshot(), q, payload)
	require.NoError(t, err)

	_, edited, err := Write(context.Background(), nil, snapshot, q, payload)
	require.NoError(t, err)
	if len(edited) != 0 {
		t.Fatalf("expected second identical write to edit nothing, got %v", edited)
	}
}

func TestWrite_PublishesStartAndFinishEvents(t *testing.T) {
	var starts []events.WriteStart
	var finishes []events.WriteFinish
	unsubStart := eventbus.Subscribe(func(_ context.Context, e events.WriteStart) {
		starts = append(starts, e)
	})
	unsubFinish := eventbus.Subscribe(func(_ context.Context, e events.WriteFinish) {
		finishes = append(finishes, e)
	})
	defer unsubStart()
	defer unsubFinish()

	q := MustParseQuery(`query { foo { id extra } }`, "")
	_, edited, err := Write(context.Background(), nil, EmptySnapshot(), q, map[string]any{
		"foo": map[string]any{"id": 1, "extra": true},
	})
	require.NoError(t, err)

	require.Len(t, starts, 1)
	require.Equal(t, string(StaticRootID), starts[0].RootID)

	require.Len(t, finishes, 1)
	require.Equal(t, string(StaticRootID), finishes[0].RootID)
	require.NoError(t, finishes[0].Err)
	require.Equal(t, len(edited), finishes[0].Edited)
}

func TestWrite_MalformedPayloadLeavesBaseUntouched(t *testing.T) {
	q := MustParseQuery(`query { foo { id } }`, "")
	base := EmptySnapshot()

	snapshot, edited, err := Write(context.Background(), nil, base, q, map[string]any{"foo": "oops"})
	require.Error(t, err)
	var gcErr *Error
	require.ErrorAs(t, err, &gcErr)
	require.Equal(t, MalformedPayload, gcErr.Kind)
	if snapshot != base {
		t.Fatalf("expected Write to return the original base snapshot on error")
	}
	if len(edited) != 0 {
		t.Fatalf("expected empty edited set on error, got %v", edited)
	}
}
