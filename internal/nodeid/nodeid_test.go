package nodeid

import "testing"

func TestParam_Deterministic(t *testing.T) {
	a := Param("QueryRoot", Path{"foo"}, map[string]any{"id": 1, "withExtra": true})
	b := Param("QueryRoot", Path{"foo"}, map[string]any{"withExtra": true, "id": 1})
	if a != b {
		t.Fatalf("expected same id regardless of argument key order, got %q and %q", a, b)
	}
}

func TestParam_NumericVsStringArgsDistinct(t *testing.T) {
	a := Param("QueryRoot", Path{"foo"}, map[string]any{"id": 1})
	b := Param("QueryRoot", Path{"foo"}, map[string]any{"id": "1"})
	if a == b {
		t.Fatalf("expected numeric 1 and string \"1\" to produce distinct ids")
	}
}

func TestParam_FloatIntCollapse(t *testing.T) {
	a := Param("QueryRoot", Path{"foo"}, map[string]any{"id": 1})
	b := Param("QueryRoot", Path{"foo"}, map[string]any{"id": 1.0})
	if a != b {
		t.Fatalf("expected int 1 and float 1.0 to normalize to the same id")
	}
}

func TestParam_PathSensitive(t *testing.T) {
	a := Param("QueryRoot", Path{"foo"}, map[string]any{"id": 1})
	b := Param("QueryRoot", Path{"bar"}, map[string]any{"id": 1})
	if a == b {
		t.Fatalf("expected different field paths to produce different ids")
	}
}

func TestParam_ArrayIndexQualifiedPath(t *testing.T) {
	c := ID("container")
	e1 := Param(c, Path{0, "three", "four"}, map[string]any{"extra": true})
	e2 := Param(c, Path{1, "three", "four"}, map[string]any{"extra": true})
	if e1 == e2 {
		t.Fatalf("expected index-qualified paths to produce distinct ids")
	}
}

func TestEntity_StringAndNumericIDCollide(t *testing.T) {
	if Entity(1) != Entity("1") {
		t.Fatalf("expected int 1 and string \"1\" entity ids to collide")
	}
}
