/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchtree

import (
	"fmt"
	"math"
	"strconv"
)

// Get walks path from root and returns the addressed node. A trailing
// range token is resolved against the parent array and returned as a
// copied Array node of the matched sub-slice (not a mutable handle), or as
// the single element itself for an index range such as "[2]".
func Get(root Node, path Path) (Node, error) {
	if len(path) == 0 {
		return root, nil
	}
	cur := root
	for i, tok := range path {
		last := i == len(path)-1
		if rng, ok, err := ParseRange(tok); ok {
			if err != nil {
				return Node{}, err
			}
			if !last {
				return Node{}, fmt.Errorf("%w: %q not at end of %s", ErrUnexpectedRange, tok, path)
			}
			arr, isArr := cur.Array()
			if !isArr {
				return Node{}, fmt.Errorf("%w: range token against %s", ErrExpectedSeq, cur.Kind())
			}
			start, end, single, berr := rng.Bounds(len(arr))
			if berr != nil {
				return Node{}, berr
			}
			if end > len(arr) {
				return Node{}, fmt.Errorf("%w: [%d:%d] over length %d", ErrOutOfRange, start, end, len(arr))
			}
			if single {
				return arr[start], nil
			}
			return Array(append([]Node(nil), arr[start:end]...)), nil
		}

		switch cur.Kind() {
		case KindObject:
			obj, _ := cur.Object()
			v, ok := obj.Get(tok)
			if !ok {
				return Node{}, fmt.Errorf("%w: key %q", ErrNotFoundTarget, tok)
			}
			cur = v
		case KindArray:
			idx, err := strconv.Atoi(tok)
			if err != nil {
				return Node{}, fmt.Errorf("%w: %q", ErrInvalidIndex, tok)
			}
			arr, _ := cur.Array()
			if idx < 0 || idx >= len(arr) {
				return Node{}, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, idx, len(arr))
			}
			cur = arr[idx]
		default:
			return Node{}, fmt.Errorf("%w: cannot descend into %s at %q", ErrInvalidTarget, cur.Kind(), tok)
		}
	}
	return cur, nil
}

// visitor mutates the node found at the tail of a path; it is invoked by
// both Replace and Remove so the tree-walking logic is written once.
type visitor func(parent *Node, lastTok string) error

// walkToParent walks path[:len(path)-1] from root, returning a pointer to
// the last-but-one node (so the visitor can mutate the final slot in
// place) and the final token.
func walkToParent(root *Node, path Path, visit visitor) error {
	if len(path) == 0 {
		return fmt.Errorf("%w", ErrEmptyPointer)
	}
	cur := root
	for i := 0; i < len(path)-1; i++ {
		tok := path[i]
		if _, ok, _ := ParseRange(tok); ok {
			return fmt.Errorf("%w: %q not at end of %s", ErrUnexpectedRange, tok, path)
		}
		switch cur.Kind() {
		case KindObject:
			obj, _ := cur.Object()
			v, ok := obj.Get(tok)
			if !ok {
				return fmt.Errorf("%w: key %q", ErrNotFoundTarget, tok)
			}
			// obj.values holds Node by value; take address through a
			// temporary, then write back after recursing into it.
			child := v
			if err := walkToParentTail(&child, path[i+1:], visit); err != nil {
				return err
			}
			obj.Set(tok, child)
			return nil
		case KindArray:
			idx, err := strconv.Atoi(tok)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidIndex, tok)
			}
			arr, _ := cur.Array()
			if idx < 0 || idx >= len(arr) {
				return fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, idx, len(arr))
			}
			child := arr[idx]
			if err := walkToParentTail(&child, path[i+1:], visit); err != nil {
				return err
			}
			arr[idx] = child
			*cur = Array(arr)
			return nil
		default:
			return fmt.Errorf("%w: cannot descend into %s at %q", ErrInvalidTarget, cur.Kind(), tok)
		}
	}
	return visit(cur, path[len(path)-1])
}

// walkToParentTail recurses the remaining descent after the first hop,
// reusing walkToParent's single-hop dispatch by re-entering it with the
// remaining path rooted at child.
func walkToParentTail(child *Node, rest Path, visit visitor) error {
	if len(rest) == 0 {
		return fmt.Errorf("%w", ErrEmptyPointer)
	}
	return walkToParent(child, rest, visit)
}

// coerceScalar type-checks value against existing's kind before a Replace
// overwrites it, mirroring original_source's apply_add Value::String /
// Value::Static(StaticNode) arms: a Str target only ever accepts another
// Str (no coercion), a Bool/I64/U64/F64 target accepts any numeric/bool
// value that try_as_{i64,u64,f64,bool} could losslessly convert, and
// mismatches — e.g. replacing a bool field with a string — fail rather
// than silently changing the field's type. An existing Null/Object/Array
// target has nothing to check against, so it passes value through
// unchanged: those positions have no prior scalar type to preserve.
func coerceScalar(existing, incoming Node) (Node, error) {
	switch existing.Kind() {
	case KindBool:
		if b, ok := incoming.Bool(); ok {
			return Bool(b), nil
		}
		return Node{}, fmt.Errorf("%w: expected bool, got %s", ErrTryType, incoming.Kind())
	case KindI64:
		if n, ok := asI64(incoming); ok {
			return I64(n), nil
		}
		return Node{}, fmt.Errorf("%w: expected an int64-representable value, got %s", ErrTryType, incoming.Kind())
	case KindU64:
		if n, ok := asU64(incoming); ok {
			return U64(n), nil
		}
		return Node{}, fmt.Errorf("%w: expected a uint64-representable value, got %s", ErrTryType, incoming.Kind())
	case KindF64:
		if n, ok := asF64(incoming); ok {
			return F64(n), nil
		}
		return Node{}, fmt.Errorf("%w: expected a float64-representable value, got %s", ErrTryType, incoming.Kind())
	case KindStr:
		if s, ok := incoming.Str(); ok {
			return Str(s), nil
		}
		return Node{}, fmt.Errorf("%w: expected string, got %s", ErrInvalidString, incoming.Kind())
	default:
		return incoming, nil
	}
}

func asI64(n Node) (int64, bool) {
	switch n.Kind() {
	case KindI64:
		v, _ := n.I64()
		return v, true
	case KindU64:
		v, _ := n.U64()
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case KindF64:
		v, _ := n.F64()
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

func asU64(n Node) (uint64, bool) {
	switch n.Kind() {
	case KindU64:
		v, _ := n.U64()
		return v, true
	case KindI64:
		v, _ := n.I64()
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case KindF64:
		v, _ := n.F64()
		if v < 0 || v != math.Trunc(v) {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

func asF64(n Node) (float64, bool) {
	switch n.Kind() {
	case KindF64:
		v, _ := n.F64()
		return v, true
	case KindI64:
		v, _ := n.I64()
		return float64(v), true
	case KindU64:
		v, _ := n.U64()
		return float64(v), true
	default:
		return 0, false
	}
}

// Replace installs value at path, requiring every intermediate segment to
// already exist. The final segment may be an object key (created, or
// type-checked against its current value and overwritten) or an array
// index (must exist, type-checked the same way) — a range token is the
// sole responsibility of callers working a Seq patch, handled by
// patchop's range patcher, not here.
func Replace(root *Node, path Path, value Node) error {
	return walkToParent(root, path, func(parent *Node, lastTok string) error {
		if _, ok, _ := ParseRange(lastTok); ok {
			return fmt.Errorf("%w: %q", ErrUnexpectedRange, lastTok)
		}
		switch parent.Kind() {
		case KindObject:
			obj, _ := parent.Object()
			toSet := value
			if existing, ok := obj.Get(lastTok); ok {
				coerced, err := coerceScalar(existing, value)
				if err != nil {
					return fmt.Errorf("%s: %w", lastTok, err)
				}
				toSet = coerced
			}
			obj.Set(lastTok, toSet)
			return nil
		case KindArray:
			idx, err := strconv.Atoi(lastTok)
			if err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidIndex, lastTok)
			}
			arr, _ := parent.Array()
			if idx < 0 || idx >= len(arr) {
				return fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, idx, len(arr))
			}
			coerced, err := coerceScalar(arr[idx], value)
			if err != nil {
				return fmt.Errorf("index %d: %w", idx, err)
			}
			arr[idx] = coerced
			*parent = Array(arr)
			return nil
		default:
			return fmt.Errorf("%w: cannot set field on %s", ErrInvalidTarget, parent.Kind())
		}
	})
}

// Add installs value at path, auto-vivifying missing structure along the
// way: a missing object key is created as an empty Object before
// descending further, and an array walked past its current length is
// grown with Null placeholders up to the needed index. Mirrors
// original_source's apply_add: map.entry(token).or_insert_with(Object)
// for objects, `while list.len() <= index { list.push(Null) }` for
// arrays. Unlike Replace, Add never type-checks an existing leaf value —
// the same blind map.insert/list[index]=value the original performs for
// its Object/Array arms.
func Add(root *Node, path Path, value Node) error {
	if len(path) == 0 {
		return fmt.Errorf("%w", ErrEmptyPointer)
	}
	return addStep(root, path, value)
}

func addStep(cur *Node, path Path, value Node) error {
	tok := path[0]
	last := len(path) == 1
	if _, ok, _ := ParseRange(tok); ok {
		return fmt.Errorf("%w: %q not at end of %s", ErrUnexpectedRange, tok, path)
	}

	switch cur.Kind() {
	case KindObject:
		obj, _ := cur.Object()
		if last {
			obj.Set(tok, value)
			return nil
		}
		child, ok := obj.Get(tok)
		if !ok {
			child = Object(NewObject())
		}
		if err := addStep(&child, path[1:], value); err != nil {
			return err
		}
		obj.Set(tok, child)
		return nil
	case KindArray:
		idx, err := strconv.Atoi(tok)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidIndex, tok)
		}
		if idx < 0 {
			return fmt.Errorf("%w: negative index %d", ErrInvalidIndex, idx)
		}
		arr, _ := cur.Array()
		for len(arr) <= idx {
			arr = append(arr, Null())
		}
		if last {
			arr[idx] = value
			*cur = Array(arr)
			return nil
		}
		child := arr[idx]
		if err := addStep(&child, path[1:], value); err != nil {
			return err
		}
		arr[idx] = child
		*cur = Array(arr)
		return nil
	default:
		return fmt.Errorf("%w: cannot descend into %s at %q", ErrInvalidTarget, cur.Kind(), tok)
	}
}

// Remove deletes the object key named by path's final segment (the
// one-field case used by C3 Pure(Remove)). It does not remove array
// elements: a final segment under an array fails with ErrInvalidTarget;
// array removal goes through patchop's sequence merger, which marks
// removed slots with a sentinel so offsets stay consistent.
func Remove(root *Node, path Path) error {
	return walkToParent(root, path, func(parent *Node, lastTok string) error {
		switch parent.Kind() {
		case KindObject:
			obj, _ := parent.Object()
			if !obj.Delete(lastTok) {
				return fmt.Errorf("%w: key %q", ErrNotFoundTarget, lastTok)
			}
			return nil
		default:
			return fmt.Errorf("%w: cannot remove field from %s", ErrInvalidTarget, parent.Kind())
		}
	})
}

// ParentArray resolves path[:len(path)-1] and requires the node it
// addresses to be an Array, returning a pointer so patchop's range patcher
// can mutate it in place. The last token of path is returned unparsed for
// the caller to interpret as a Range.
func ParentArray(root *Node, path Path) (arr *[]Node, lastTok string, err error) {
	if len(path) == 0 {
		return nil, "", fmt.Errorf("%w", ErrEmptyPointer)
	}
	parentPath := path[:len(path)-1]
	node, gerr := Get(*root, parentPath)
	if gerr != nil {
		return nil, "", gerr
	}
	a, ok := node.Array()
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrExpectedSeq, node.Kind())
	}
	cp := append([]Node(nil), a...)
	return &cp, path[len(path)-1], nil
}

// SetArrayAt writes back a mutated array slice to parentPath.
func SetArrayAt(root *Node, parentPath Path, arr []Node) error {
	if len(parentPath) == 0 {
		*root = Array(arr)
		return nil
	}
	return Replace(root, parentPath, Array(arr))
}
