package jsn

import "testing"

func TestParseTree(t *testing.T) {
	doc := `{
		"name": "level1",
		"count": 3.5,
		"deep": {"flag": true},
		"list": [1, "two", null]
	}`
	n, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if n.Type() != TypeObject || n.Len() != 4 {
		t.Fatalf("root = %v len %d", n.Type(), n.Len())
	}
	if got := n.ValueForKey("name").Str(); got != "level1" {
		t.Errorf("name = %q", got)
	}
	if got := n.ValueForKey("count").Num(); got != 3.5 {
		t.Errorf("count = %g", got)
	}
	if !n.ValueForKey("deep").ValueForKey("flag").Bool() {
		t.Error("deep.flag = false")
	}

	list := n.ValueForKey("list")
	if list.Len() != 3 {
		t.Fatalf("list len = %d", list.Len())
	}
	if list.ValueAt(0).Num() != 1 {
		t.Errorf("list[0] = %g", list.ValueAt(0).Num())
	}
	if list.ValueAt(1).Str() != "two" {
		t.Errorf("list[1] = %q", list.ValueAt(1).Str())
	}
	if list.ValueAt(2).Type() != TypeNull {
		t.Errorf("list[2] = %v", list.ValueAt(2).Type())
	}
}

func TestParseError(t *testing.T) {
	if _, err := Parse([]byte(`{"broken":`)); err == nil {
		t.Error("truncated document must not parse")
	}
}

// Loose accessors return zero values instead of panicking, including on nil
// receivers, so loader code can chain lookups without checking each step.
func TestLooseAccessors(t *testing.T) {
	n, err := Parse([]byte(`{"num": 7}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	missing := n.ValueForKey("nope")
	if missing != nil {
		t.Fatal("missing key should be nil")
	}
	if missing.Str() != "" || missing.Num() != 0 || missing.Bool() {
		t.Error("nil node accessors must return zero values")
	}
	if missing.ValueForKey("deeper") != nil || missing.ValueAt(0) != nil {
		t.Error("nil node lookups must return nil")
	}
	if missing.Type() != TypeNull || missing.Len() != 0 {
		t.Error("nil node must report null/0")
	}

	num := n.ValueForKey("num")
	if num.Str() != "" || num.Bool() {
		t.Error("wrong-kind accessors must return zero values")
	}
	if num.ValueAt(0) != nil {
		t.Error("indexing a number must return nil")
	}
}

func TestStringLen(t *testing.T) {
	n, _ := Parse([]byte(`{"name": "abcde"}`))
	if got := n.ValueForKey("name").Len(); got != 5 {
		t.Errorf("string Len = %d, want 5", got)
	}
}

func TestBuildObject(t *testing.T) {
	n := NewObject()
	n.Set("b", NewNumber(2))
	n.Set("a", NewString("x"))
	n.Set("b", NewBool(true))

	keys := n.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("keys = %v, want insertion order without duplicates", keys)
	}
	if !n.ValueForKey("b").Bool() {
		t.Error("Set did not replace the earlier value")
	}

	var nilNode *Node
	nilNode.Set("k", NewNumber(1))
	NewNumber(1).Set("k", NewNumber(2))
}
