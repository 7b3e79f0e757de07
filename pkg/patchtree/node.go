/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package patchtree holds the ordered tree value type the merge engine
// reads and rewrites, and the path/range types used to address it.
//
// The shape follows GoogleCloudPlatform/khi's structurev2 package: a small
// Kind-tagged value plus an order-preserving object node, rather than a
// bare map[string]any.
package patchtree

import (
	"fmt"
)

// Kind tags the concrete shape a Node holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindI64
	KindU64
	KindF64
	KindStr
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindI64:
		return "i64"
	case KindU64:
		return "u64"
	case KindF64:
		return "f64"
	case KindStr:
		return "str"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Node is one value in the tree: Null, Bool, an integer/float/string
// scalar, an Array, or an order-preserving Object.
type Node struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	arr  []Node
	obj  *ObjectNode
}

func Null() Node                  { return Node{kind: KindNull} }
func Bool(v bool) Node            { return Node{kind: KindBool, b: v} }
func I64(v int64) Node            { return Node{kind: KindI64, i: v} }
func U64(v uint64) Node            { return Node{kind: KindU64, u: v} }
func F64(v float64) Node          { return Node{kind: KindF64, f: v} }
func Str(v string) Node           { return Node{kind: KindStr, s: v} }
func Array(v []Node) Node         { return Node{kind: KindArray, arr: v} }
func Object(v *ObjectNode) Node   { return Node{kind: KindObject, obj: v} }

func (n Node) Kind() Kind { return n.kind }

func (n Node) Bool() (bool, bool)       { return n.b, n.kind == KindBool }
func (n Node) I64() (int64, bool)       { return n.i, n.kind == KindI64 }
func (n Node) U64() (uint64, bool)      { return n.u, n.kind == KindU64 }
func (n Node) F64() (float64, bool)     { return n.f, n.kind == KindF64 }
func (n Node) Str() (string, bool)      { return n.s, n.kind == KindStr }
func (n Node) Array() ([]Node, bool)    { return n.arr, n.kind == KindArray }
func (n Node) Object() (*ObjectNode, bool) { return n.obj, n.kind == KindObject }

// IsNull reports whether the node is the Null scalar.
func (n Node) IsNull() bool { return n.kind == KindNull }

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	switch n.kind {
	case KindArray:
		cp := make([]Node, len(n.arr))
		for i, v := range n.arr {
			cp[i] = v.Clone()
		}
		return Array(cp)
	case KindObject:
		return Object(n.obj.Clone())
	default:
		return n
	}
}

// Equal reports deep structural equality.
func (n Node) Equal(other Node) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case KindNull:
		return true
	case KindBool:
		return n.b == other.b
	case KindI64:
		return n.i == other.i
	case KindU64:
		return n.u == other.u
	case KindF64:
		return n.f == other.f
	case KindStr:
		return n.s == other.s
	case KindArray:
		if len(n.arr) != len(other.arr) {
			return false
		}
		for i := range n.arr {
			if !n.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return n.obj.Equal(other.obj)
	default:
		return false
	}
}

// ObjectNode is an insertion-order-preserving string-keyed map, mirroring
// structurev2.StandardMapNode's parallel keys/values slices.
type ObjectNode struct {
	keys   []string
	values []Node
}

// NewObject returns an empty ordered object.
func NewObject() *ObjectNode {
	return &ObjectNode{}
}

// Get returns the value stored under key, if present.
func (o *ObjectNode) Get(key string) (Node, bool) {
	for i, k := range o.keys {
		if k == key {
			return o.values[i], true
		}
	}
	return Node{}, false
}

// Set inserts or overwrites key, preserving the original insertion
// position when the key already exists.
func (o *ObjectNode) Set(key string, v Node) {
	for i, k := range o.keys {
		if k == key {
			o.values[i] = v
			return
		}
	}
	o.keys = append(o.keys, key)
	o.values = append(o.values, v)
}

// Delete removes key if present and reports whether it was found.
func (o *ObjectNode) Delete(key string) bool {
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			o.values = append(o.values[:i], o.values[i+1:]...)
			return true
		}
	}
	return false
}

// Keys returns the keys in insertion order. Callers must not mutate the
// returned slice.
func (o *ObjectNode) Keys() []string { return o.keys }

// Len returns the number of entries.
func (o *ObjectNode) Len() int { return len(o.keys) }

// Clone deep-copies the object, preserving key order.
func (o *ObjectNode) Clone() *ObjectNode {
	cp := &ObjectNode{
		keys:   append([]string(nil), o.keys...),
		values: make([]Node, len(o.values)),
	}
	for i, v := range o.values {
		cp.values[i] = v.Clone()
	}
	return cp
}

// Equal reports whether two objects have the same keys, in the same
// order, with structurally equal values.
func (o *ObjectNode) Equal(other *ObjectNode) bool {
	if other == nil {
		return o.Len() == 0
	}
	if len(o.keys) != len(other.keys) {
		return false
	}
	for i, k := range o.keys {
		if other.keys[i] != k {
			return false
		}
		if !o.values[i].Equal(other.values[i]) {
			return false
		}
	}
	return true
}

// DebugString renders a compact, non-canonical representation used in
// error messages only.
func (n Node) DebugString() string {
	switch n.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", n.b)
	case KindI64:
		return fmt.Sprintf("%d", n.i)
	case KindU64:
		return fmt.Sprintf("%d", n.u)
	case KindF64:
		return fmt.Sprintf("%g", n.f)
	case KindStr:
		return fmt.Sprintf("%q", n.s)
	case KindArray:
		return fmt.Sprintf("array[%d]", len(n.arr))
	case KindObject:
		return fmt.Sprintf("object[%d]", n.obj.Len())
	default:
		return "?"
	}
}
