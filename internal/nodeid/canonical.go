package nodeid

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"sort"

	"lukechampine.com/blake3"
)

// canonicalJSON renders v as JSON with object keys sorted, so that two
// structurally equal values (independent of map iteration order or original
// key order) always serialize to the same bytes.
//
// encoding/json already renders float64(1) and int(1) identically ("1"), so
// numeric arguments are normalized for free; string and numeric arguments
// still serialize distinctly ("1" vs 1), and that's all §4.1 requires.
func canonicalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return marshalCanonical(generic)
}

func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		return marshalSortedObject(val)
	case []any:
		return marshalArray(val)
	default:
		return json.Marshal(v)
	}
}

func marshalSortedObject(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := marshalCanonical(m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		valBytes, err := marshalCanonical(v)
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// blake3Hex hashes data with BLAKE3 and returns the hex digest.
func blake3Hex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Param returns the deterministic id for a parameterized field: a
// content hash of the canonical (container, path, args) tuple. Two calls
// with equivalent inputs, including equal argument values in different key
// order, yield the same id.
func Param(container ID, path Path, args map[string]any) ID {
	if args == nil {
		args = map[string]any{}
	}
	tuple := []any{string(container), []any(path), args}
	canonical, err := canonicalJSON(tuple)
	if err != nil {
		// canonicalJSON only fails on values json.Marshal itself can't
		// encode (channels, funcs); arguments are always JSON-decoded
		// data, so this should not happen in practice.
		canonical = []byte(container)
	}
	return ID("P:" + blake3Hex(canonical))
}
