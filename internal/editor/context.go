package editor

import (
	"github.com/hanpama/graphcache/internal/language"
	"github.com/hanpama/graphcache/internal/nodeid"
)

// EntityIDResolver decides whether a payload object selected by selection
// carries a stable identity. It returns (id, true) when it does; (zero,
// false) means the object has no identity of its own and is merged as a
// plain inline value.
//
// selection is the SelectionSet describing the object's own fields (the
// field's child selection for an object field, or the element selection for
// an array element) so the same resolver serves both cases uniformly.
type EntityIDResolver func(selection language.SelectionSet, payload map[string]any) (nodeid.ID, bool)

// DefaultEntityIDResolver treats any payload object carrying a non-null "id"
// field as an entity, stringifying the id the same way nodeid.Entity does.
// It ignores the selection entirely, matching spec.md §3's stated default
// policy ("when a selection's payload object has an id-bearing field, that
// object is an entity").
func DefaultEntityIDResolver(_ language.SelectionSet, payload map[string]any) (nodeid.ID, bool) {
	v, ok := payload["id"]
	if !ok || v == nil {
		return "", false
	}
	return nodeid.Entity(v), true
}

// PreviousWrite is the diagnostic record left behind by a successful write.
// The root package's Write fills this slot (the Editor itself never touches
// it); nothing in the write path reads it back.
type PreviousWrite struct {
	OldValues map[nodeid.ID]any
	NewValues map[nodeid.ID]any
	Payload   map[string]any
	Query     *Query
}

// Context carries the collaborators the editor needs but does not own:
// entity identity policy, variable bindings for the query, and a
// diagnostic slot populated on success.
type Context struct {
	EntityID      EntityIDResolver
	Variables     map[string]any
	PreviousWrite *PreviousWrite
}

// NewContext returns a Context with the default entity-id policy and no
// variables bound.
func NewContext() *Context {
	return &Context{EntityID: DefaultEntityIDResolver, Variables: map[string]any{}}
}
