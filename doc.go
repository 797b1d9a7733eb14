// Package graphcache implements the write path of a normalized graph
// cache: merging a JSON payload, described by a resolved GraphQL selection
// tree, into an immutable graph Snapshot.
//
// # Overview
//
// A Snapshot is a directed graph of NodeSnapshots keyed by NodeId. A Query
// selects a subtree rooted at some node; a payload supplies values for
// that subtree. Write walks the query and payload in lockstep, normalizing
// the payload into discrete nodes, recording inter-node references, and
// producing a new Snapshot together with the set of node ids whose value
// changed.
//
// # Node identity
//
// Three kinds of node id exist. Static roots are well-known names such as
// the default query root. Entity ids are derived from a payload object's
// stable identity field through the Context's EntityIDResolver. Fields
// carrying arguments are materialized as their own parameterized node,
// addressed by a deterministic hash of (container id, field path,
// argument map); see the nodeid package.
//
// # Copy-on-write
//
// Write never mutates the base Snapshot. It clones a node into a working
// set the first time a merge touches it, applies the field's value there,
// and maintains the inbound/outbound reference indices as edges change. A
// reconciliation pass at commit time reverts any clone that turns out
// identical to its base counterpart, so unrelated subgraphs keep their
// original identity across writes.
package graphcache
