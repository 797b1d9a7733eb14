package editor

import "github.com/hanpama/graphcache/internal/language"

// collectedField groups every occurrence of a response name within a
// selection set (the same field selected twice, or once directly and once
// through a fragment, still merges into a single visit).
type collectedField struct {
	ResponseName string
	Fields       []*language.Field
}

// collectedFieldList preserves the order fields first appear in the query.
type collectedFieldList struct {
	fields []collectedField
	index  map[string]int
}

func newCollectedFieldList() *collectedFieldList {
	return &collectedFieldList{index: make(map[string]int)}
}

func (l *collectedFieldList) add(responseName string, field *language.Field) {
	if idx, ok := l.index[responseName]; ok {
		l.fields[idx].Fields = append(l.fields[idx].Fields, field)
		return
	}
	l.index[responseName] = len(l.fields)
	l.fields = append(l.fields, collectedField{ResponseName: responseName, Fields: []*language.Field{field}})
}

// collectFields flattens a selection set into response-name-ordered field
// groups, inlining fragment spreads and inline fragments and applying
// @skip/@include. There is no object type to check fragment type
// conditions against (the editor has no schema); a fragment's selections
// are always inlined regardless of its type condition, same as the
// teacher's walker would if it had no type to narrow by.
func collectFields(doc *language.QueryDocument, selectionSet language.SelectionSet, vars map[string]any) (*collectedFieldList, error) {
	out := newCollectedFieldList()
	if err := collectFieldsInto(doc, selectionSet, vars, out, map[string]bool{}); err != nil {
		return nil, err
	}
	return out, nil
}

func collectFieldsInto(doc *language.QueryDocument, selectionSet language.SelectionSet, vars map[string]any, out *collectedFieldList, visitedFragments map[string]bool) error {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			if !shouldInclude(sel.Directives, vars) {
				continue
			}
			responseName := sel.Alias
			if responseName == "" {
				responseName = sel.Name
			}
			out.add(responseName, sel)

		case *language.InlineFragment:
			if !shouldInclude(sel.Directives, vars) {
				continue
			}
			if err := collectFieldsInto(doc, sel.SelectionSet, vars, out, visitedFragments); err != nil {
				return err
			}

		case *language.FragmentSpread:
			if !shouldInclude(sel.Directives, vars) {
				continue
			}
			if visitedFragments[sel.Name] {
				continue
			}
			visitedFragments[sel.Name] = true

			def := language.FragmentByName(doc, sel.Name)
			if def == nil {
				return newError(InvalidSelection, nil, "fragment %q is not defined in the query document", sel.Name)
			}
			if !shouldInclude(def.Directives, vars) {
				continue
			}
			if err := collectFieldsInto(doc, def.SelectionSet, vars, out, visitedFragments); err != nil {
				return err
			}
		}
	}
	return nil
}

// shouldInclude evaluates @skip(if:) and @include(if:) on a selection.
func shouldInclude(directives language.DirectiveList, vars map[string]any) bool {
	if skip := directives.ForName("skip"); skip != nil {
		if v, ok := directiveArgumentValue(skip, "if", vars); ok {
			if b, ok := v.(bool); ok && b {
				return false
			}
		}
	}
	if include := directives.ForName("include"); include != nil {
		if v, ok := directiveArgumentValue(include, "if", vars); ok {
			if b, ok := v.(bool); ok && !b {
				return false
			}
		}
	}
	return true
}
