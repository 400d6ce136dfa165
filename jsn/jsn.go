// Package jsn provides a generic typed JSON tree for the level loaders.
// It mirrors the loose accessor style of high_impact's json_t: accessors
// never panic, they return zero values when the node has a different type,
// so callers must check Type() when the distinction matters.
package jsn

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Type identifies the kind of value a Node holds.
type Type int

const (
	TypeNull Type = iota
	TypeBool
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	}
	return "invalid"
}

// Node is one value in a parsed JSON tree.
type Node struct {
	typ  Type
	b    bool
	num  float64
	str  string
	arr  []*Node
	obj  map[string]*Node
	keys []string
}

// Parse decodes data into a Node tree.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("jsn: parse: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw any) (*Node, error) {
	switch v := raw.(type) {
	case nil:
		return &Node{typ: TypeNull}, nil
	case bool:
		return &Node{typ: TypeBool, b: v}, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("jsn: number %q: %w", v.String(), err)
		}
		return &Node{typ: TypeNumber, num: f}, nil
	case string:
		return &Node{typ: TypeString, str: v}, nil
	case []any:
		n := &Node{typ: TypeArray, arr: make([]*Node, 0, len(v))}
		for _, item := range v {
			child, err := fromRaw(item)
			if err != nil {
				return nil, err
			}
			n.arr = append(n.arr, child)
		}
		return n, nil
	case map[string]any:
		n := NewObject()
		for key, item := range v {
			child, err := fromRaw(item)
			if err != nil {
				return nil, err
			}
			n.Set(key, child)
		}
		return n, nil
	}
	return nil, fmt.Errorf("jsn: unsupported value %T", raw)
}

// NewObject returns an empty object node.
func NewObject() *Node {
	return &Node{typ: TypeObject, obj: map[string]*Node{}}
}

// NewString returns a string node.
func NewString(s string) *Node { return &Node{typ: TypeString, str: s} }

// NewNumber returns a number node.
func NewNumber(f float64) *Node { return &Node{typ: TypeNumber, num: f} }

// NewBool returns a bool node.
func NewBool(b bool) *Node { return &Node{typ: TypeBool, b: b} }

// Set stores child under key. It is a no-op on non-object nodes.
func (n *Node) Set(key string, child *Node) {
	if n == nil || n.typ != TypeObject {
		return
	}
	if _, ok := n.obj[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.obj[key] = child
}

// Type reports the node kind. A nil node reports TypeNull.
func (n *Node) Type() Type {
	if n == nil {
		return TypeNull
	}
	return n.typ
}

// Len reports the element count of arrays and objects and the byte length
// of strings. Other kinds report 0.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.typ {
	case TypeArray:
		return len(n.arr)
	case TypeObject:
		return len(n.obj)
	case TypeString:
		return len(n.str)
	}
	return 0
}

// ValueForKey returns the child stored under key, or nil.
func (n *Node) ValueForKey(key string) *Node {
	if n == nil || n.typ != TypeObject {
		return nil
	}
	return n.obj[key]
}

// ValueAt returns the array element at index i, or nil when out of range.
func (n *Node) ValueAt(i int) *Node {
	if n == nil || n.typ != TypeArray || i < 0 || i >= len(n.arr) {
		return nil
	}
	return n.arr[i]
}

// Keys returns object keys in insertion order.
func (n *Node) Keys() []string {
	if n == nil || n.typ != TypeObject {
		return nil
	}
	return n.keys
}

// Str returns the string value, or "" for any other kind.
func (n *Node) Str() string {
	if n == nil || n.typ != TypeString {
		return ""
	}
	return n.str
}

// Num returns the numeric value, or 0 for any other kind.
func (n *Node) Num() float64 {
	if n == nil || n.typ != TypeNumber {
		return 0
	}
	return n.num
}

// Bool returns the bool value, or false for any other kind.
func (n *Node) Bool() bool {
	if n == nil || n.typ != TypeBool {
		return false
	}
	return n.b
}
