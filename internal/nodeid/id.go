// Package nodeid builds the stable identifiers addressing nodes in a
// normalized graph snapshot: static roots, payload-derived entity ids, and
// deterministic parameterized-field ids.
package nodeid

// ID is an opaque, comparable node identifier. Callers may persist and
// compare ids across writes (it is part of the external contract).
type ID string

// StaticRootID is the conventional root id for a query that selects from the
// root operation type.
const StaticRootID ID = "QueryRoot"

// Static returns the id for a well-known root, e.g. a named root other than
// the default query root (mutation roots, subscription roots).
func Static(name string) ID {
	return ID(name)
}

// Entity returns the id for a payload object carrying a stable identity
// value. The value is stringified the same way regardless of its JSON
// scalar kind, so an int id 1 and a string id "1" collide by design — both
// address the same entity.
func Entity(value any) ID {
	return ID(stringify(value))
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		// int, float64, bool and anything else JSON-decodable: canonical
		// encoding already gives a stable textual form.
		b, err := canonicalJSON(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
