package editor

import (
	"fmt"

	"github.com/hanpama/graphcache/internal/language"
	"github.com/hanpama/graphcache/internal/nodeid"
)

// Query is a resolved selection tree rooted at RootID. Two queries with the
// same shape and arguments must produce identical node ids (spec.md §6), so
// Query carries no schema or type information of its own: the selection
// walker derives everything it needs from the selection set and the
// payload it is matched against.
type Query struct {
	RootID nodeid.ID
	Root   language.SelectionSet

	doc          *language.QueryDocument
	variableDefs []*language.VariableDefinition
}

// NewRootQuery builds a Query rooted at nodeid.StaticRootID from an
// already-parsed operation's selection set.
func NewRootQuery(doc *language.QueryDocument, op *language.OperationDefinition) *Query {
	return &Query{
		RootID:       nodeid.StaticRootID,
		Root:         op.SelectionSet,
		doc:          doc,
		variableDefs: op.VariableDefinitions,
	}
}

// MustParseQuery parses source as a GraphQL document and returns a Query
// for its operation (named opName, or the sole operation if opName is
// empty). It panics on a parse error or a missing operation, which matches
// the teacher's test-helper convention of failing fast on malformed
// literals baked into test source.
func MustParseQuery(source, opName string) *Query {
	doc, err := language.ParseQuery(source)
	if err != nil {
		panic(fmt.Sprintf("MustParseQuery: %v", err))
	}
	op := language.OperationByName(doc, opName)
	if op == nil {
		panic(fmt.Sprintf("MustParseQuery: operation %q not found", opName))
	}
	return NewRootQuery(doc, op)
}

// Document returns the parsed document backing the query, used by the
// walker to resolve named fragment spreads.
func (q *Query) Document() *language.QueryDocument { return q.doc }

// VariableDefinitions returns the operation's declared variables, used to
// materialize defaults and detect unresolved required variables.
func (q *Query) VariableDefinitions() []*language.VariableDefinition { return q.variableDefs }
