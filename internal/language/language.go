package language

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseQuery parses GraphQL query text into a document. Validation against a
// schema is the caller's responsibility; the editor consumes already-resolved
// selections and never validates field shape itself.
func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// OperationByName returns the named operation, or the sole operation in the
// document when name is empty and there is exactly one.
func OperationByName(doc *QueryDocument, name string) *OperationDefinition {
	if name == "" && len(doc.Operations) == 1 {
		return doc.Operations[0]
	}
	for _, op := range doc.Operations {
		if op.Name == name {
			return op
		}
	}
	return nil
}

// FragmentByName looks up a fragment definition in the document.
func FragmentByName(doc *QueryDocument, name string) *FragmentDefinition {
	if fd := doc.Fragments.ForName(name); fd != nil {
		return fd
	}
	for _, f := range doc.Fragments {
		if f != nil && f.Name == name {
			return f
		}
	}
	return nil
}
