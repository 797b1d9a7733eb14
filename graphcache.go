package graphcache

import (
	"context"
	"time"

	"github.com/hanpama/graphcache/internal/editor"
	"github.com/hanpama/graphcache/internal/eventbus"
	"github.com/hanpama/graphcache/internal/events"
	"github.com/hanpama/graphcache/internal/language"
	"github.com/hanpama/graphcache/internal/nodeid"
	"github.com/hanpama/graphcache/internal/otel"
	"github.com/hanpama/graphcache/internal/reqid"
	"github.com/hanpama/graphcache/internal/store"
)

// init installs the package's own event bus, so Write's eventbus.Publish
// calls always have somewhere to go. The teacher installs its bus the same
// way from its cmd/ entrypoint (eventbus.Use(eventbus.New())); this package
// has no entrypoint of its own, so it does it on import instead.
func init() {
	eventbus.Use(eventbus.New())
}

// Re-exported types, so callers never need to import the internal packages
// directly.
type (
	ID               = nodeid.ID
	Path             = nodeid.Path
	NodeType         = store.NodeType
	Edge             = store.Edge
	NodeSnapshot     = store.NodeSnapshot
	Snapshot         = store.Snapshot
	Query            = editor.Query
	Context          = editor.Context
	PreviousWrite    = editor.PreviousWrite
	EntityIDResolver = editor.EntityIDResolver
	Error            = editor.Error
	ErrorKind        = editor.ErrorKind
)

const (
	EntityNodeSnapshot         = store.EntityNodeSnapshot
	ParameterizedValueSnapshot = store.ParameterizedValueSnapshot

	MalformedPayload   = editor.MalformedPayload
	UnresolvedVariable = editor.UnresolvedVariable
	InvalidSelection   = editor.InvalidSelection
	InternalInvariant  = editor.InternalInvariant
)

// StaticRootID is the conventional root id used by NewRootQuery.
const StaticRootID = nodeid.StaticRootID

// Undefined is the hole marker an array position carries when its content
// lives only in an outbound edge. Snapshot.Get strips it to nil; raw
// NodeSnapshot.Value retains it.
var Undefined = store.Undefined

// EmptySnapshot returns a Snapshot with no nodes, a valid base for a first
// write.
func EmptySnapshot() *Snapshot { return store.Empty() }

// NewContext returns a Context with the default id-field entity resolver
// and no bound variables.
func NewContext() *Context { return editor.NewContext() }

// NewRootQuery builds a Query rooted at StaticRootID from a parsed
// document and operation.
func NewRootQuery(doc *language.QueryDocument, op *language.OperationDefinition) *Query {
	return editor.NewRootQuery(doc, op)
}

// MustParseQuery parses source and returns a Query for its operation
// (named opName, or the sole operation if opName is empty). It panics on a
// parse error, matching the convention of failing fast on a malformed
// literal baked into test or setup code.
func MustParseQuery(source, opName string) *Query {
	return editor.MustParseQuery(source, opName)
}

// SetupTelemetry subscribes a span-producing handler to every write's
// WriteStart/WriteFinish events and exports them via OTLP/gRPC to endpoint.
// If endpoint is empty, telemetry stays disabled and the returned shutdown
// is a no-op. Call it once during startup; the returned func should be
// deferred to flush pending spans on shutdown.
func SetupTelemetry(endpoint, service string) (func(context.Context) error, error) {
	return otel.Setup(endpoint, service)
}

// Write merges payload into base according to query, producing a new
// Snapshot and the set of node ids whose NodeSnapshot identity changed.
// base is never mutated. On error the write is aborted atomically: base is
// returned unchanged and editedIds is empty.
func Write(ctx context.Context, rc *Context, base *Snapshot, query *Query, payload map[string]any) (*Snapshot, map[ID]struct{}, error) {
	ctx, _ = reqid.NewContext(ctx)
	start := nowFunc()

	eventbus.Publish(ctx, events.WriteStart{RootID: string(query.RootID)})

	workingCtx := rc
	if workingCtx == nil {
		workingCtx = editor.NewContext()
	}
	ed := editor.New(base, workingCtx, query)

	err := ed.MergePayload(payload)
	if err != nil {
		eventbus.Publish(ctx, events.WriteFinish{
			RootID:   string(query.RootID),
			Err:      err,
			Duration: nowFunc().Sub(start),
		})
		return base, map[ID]struct{}{}, err
	}

	snapshot, editedIDs, err := ed.Commit()
	if err != nil {
		eventbus.Publish(ctx, events.WriteFinish{
			RootID:   string(query.RootID),
			Err:      err,
			Duration: nowFunc().Sub(start),
		})
		return base, map[ID]struct{}{}, err
	}

	if rc != nil {
		newValues := make(map[ID]any, len(editedIDs))
		oldValues := make(map[ID]any, len(editedIDs))
		for id := range editedIDs {
			newValues[id] = snapshot.Get(id)
			if _, hadBase := base.GetNodeSnapshot(id); hadBase {
				oldValues[id] = base.Get(id)
			}
		}
		rc.PreviousWrite = &PreviousWrite{
			OldValues: oldValues,
			NewValues: newValues,
			Payload:   payload,
			Query:     query,
		}
	}

	eventbus.Publish(ctx, events.WriteFinish{
		RootID:   string(query.RootID),
		Edited:   len(editedIDs),
		Duration: nowFunc().Sub(start),
	})

	return snapshot, editedIDs, nil
}

var nowFunc = time.Now
