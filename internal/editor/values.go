package editor

import (
	"strconv"
	"strings"

	"github.com/hanpama/graphcache/internal/language"
)

// resolveVariables materializes the variable map a write should use: every
// declared variable gets a value from vars, falling back to its query
// default, or fails with UnresolvedVariable if the type is required and
// neither is present. Types are not schema-checked here (spec.md §1: query
// validation is out of scope); only presence is enforced.
func resolveVariables(defs []*language.VariableDefinition, vars map[string]any) (map[string]any, error) {
	resolved := make(map[string]any, len(defs))
	for _, def := range defs {
		name := def.Variable
		val, ok := lookupVariable(vars, name)
		if !ok {
			if def.DefaultValue != nil {
				val = astValueToGo(def.DefaultValue)
			} else if def.Type != nil && def.Type.NonNull {
				return nil, newError(UnresolvedVariable, nil,
					"variable $%s of required type %s was not provided", name, def.Type.String())
			} else {
				continue
			}
		}
		resolved[name] = val
	}
	// Pass through any extra variables the caller supplied that the query
	// didn't declare; harmless and occasionally convenient in tests.
	for k, v := range vars {
		if _, ok := resolved[k]; !ok {
			resolved[k] = v
		}
	}
	return resolved, nil
}

func lookupVariable(vars map[string]any, name string) (any, bool) {
	if v, ok := vars[name]; ok {
		return v, true
	}
	v, ok := vars[strings.TrimPrefix(name, "$")]
	return v, ok
}

// resolveArguments turns a field's AST arguments into a plain Go map,
// substituting variables and leaving arguments the query omitted entirely
// out of the map — materializing "declared optional, omitted" as null is
// the walker's job once it knows the field's declared argument set, which
// this package does not track (no schema). Callers needing the
// omitted-optional-as-null contract (spec.md §4.1) pass the field's full
// argument list including ones they want defaulted; query-level variable
// defaults are already substituted by resolveVariables before the walk
// starts, and field argument defaults are a
// schema-level concept this module has no schema to read from, so the
// canonicalization in internal/nodeid normalizes only what's provided.
func resolveArguments(args language.ArgumentList, vars map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		out[arg.Name] = valueFromASTWithVars(arg.Value, vars)
	}
	return out
}

// valueFromASTWithVars converts an AST value to a runtime value,
// substituting variable references from vars.
func valueFromASTWithVars(value *language.Value, vars map[string]any) any {
	if value == nil {
		return nil
	}
	if value.Kind == language.Variable {
		if v, ok := lookupVariable(vars, value.Raw); ok {
			return v
		}
		return nil
	}
	return astValueToGo(value)
}

// astValueToGo converts a literal AST value (no variables) to a Go value.
func astValueToGo(value *language.Value) any {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case language.IntValue:
		iv, _ := strconv.Atoi(value.Raw)
		return iv
	case language.FloatValue:
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv
	case language.StringValue, language.BlockValue:
		return value.Raw
	case language.BooleanValue:
		return value.Raw == "true"
	case language.NullValue:
		return nil
	case language.EnumValue:
		return value.Raw
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			out[i] = astValueToGo(c.Value)
		}
		return out
	case language.ObjectValue:
		m := make(map[string]any, len(value.Children))
		for _, f := range value.Children {
			m[f.Name] = astValueToGo(f.Value)
		}
		return m
	default:
		return nil
	}
}

// directiveArgumentValue reads a boolean-valued directive argument such as
// @skip(if: ...) / @include(if: ...), with variable substitution.
func directiveArgumentValue(directive *language.Directive, argName string, vars map[string]any) (any, bool) {
	for _, arg := range directive.Arguments {
		if arg.Name == argName {
			return valueFromASTWithVars(arg.Value, vars), true
		}
	}
	return nil, false
}
