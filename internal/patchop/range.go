/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchop

import (
	"fmt"

	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// ApplyRange applies one Seq(op, range) patch to the array addressed by
// path's parent. Replace overwrites the matched slice with Value's own
// array elements (repeating/truncating to the span length — see below);
// Remove deletes the matched span; Add inserts Value's elements at the
// span's start.
//
// Open question (spec.md §9, decided in DESIGN.md): a RangeFrom patch
// whose Start is past the current array length grows the array first —
// appending op.Value's zero/default-shaped elements up to Start — then
// applies the patch, rather than erroring or silently no-op'ing.
func ApplyRange(root *patchtree.Node, path patchtree.Path, op Op, rng patchtree.Range) error {
	arrPtr, _, err := patchtree.ParentArray(root, path)
	if err != nil {
		return err
	}
	arr := *arrPtr
	parentPath := path[:len(path)-1]

	valElems, valIsArray := op.Value.Array()
	if op.Kind != OpRemove && !valIsArray {
		valElems = []patchtree.Node{op.Value}
	}

	start, end, _, berr := rng.Bounds(len(arr))
	if berr != nil {
		if rng.Kind == patchtree.RangeFrom && rng.Start > len(arr) {
			arr = growWithDefaults(arr, rng.Start, op.Value)
			start, end = rng.Start, len(arr)
		} else {
			return berr
		}
	} else if end > len(arr) && rng.Kind != patchtree.RangeIndex {
		arr = growWithDefaults(arr, end, op.Value)
	}

	switch op.Kind {
	case OpReplace:
		if end > len(arr) {
			return fmt.Errorf("%w: replace span [%d:%d] over length %d", patchtree.ErrOutOfRange, start, end, len(arr))
		}
		replacement := repeatOrTruncate(valElems, end-start)
		if end == start && rng.Kind == patchtree.RangeFrom {
			// A RangeFrom patch that grew the array to reach Start has an
			// empty span at the new end: append the patch's values rather
			// than truncating them away.
			replacement = valElems
		}
		out := make([]patchtree.Node, 0, len(arr))
		out = append(out, arr[:start]...)
		out = append(out, replacement...)
		out = append(out, arr[end:]...)
		arr = out
	case OpRemove:
		if end > len(arr) {
			end = len(arr)
		}
		out := make([]patchtree.Node, 0, len(arr))
		out = append(out, arr[:start]...)
		out = append(out, arr[end:]...)
		arr = out
	case OpAdd:
		if start > len(arr) {
			arr = growWithDefaults(arr, start, op.Value)
		}
		out := make([]patchtree.Node, 0, len(arr)+len(valElems))
		out = append(out, arr[:start]...)
		out = append(out, valElems...)
		out = append(out, arr[start:]...)
		arr = out
	default:
		return fmt.Errorf("%w: op kind %d", patchtree.ErrInvalidTarget, op.Kind)
	}

	return patchtree.SetArrayAt(root, parentPath, arr)
}

// growWithDefaults extends arr to length n, appending the zero value of
// sample's kind (sample's first element's kind if sample is an array; Null
// for an empty array): 0, 0.0, false, "", [], {} or Null. This lets a
// RangeFrom/RangeFromTo patch that starts past the current end still be
// applied without losing the intervening positions.
func growWithDefaults(arr []patchtree.Node, n int, sample patchtree.Node) []patchtree.Node {
	if n <= len(arr) {
		return arr
	}
	fill := patchtree.Null()
	if elems, ok := sample.Array(); ok && len(elems) > 0 {
		fill = elems[0]
	} else if !ok {
		fill = sample
	}
	switch fill.Kind() {
	case patchtree.KindBool:
		fill = patchtree.Bool(false)
	case patchtree.KindI64:
		fill = patchtree.I64(0)
	case patchtree.KindU64:
		fill = patchtree.U64(0)
	case patchtree.KindF64:
		fill = patchtree.F64(0)
	case patchtree.KindStr:
		fill = patchtree.Str("")
	case patchtree.KindArray:
		fill = patchtree.Array([]patchtree.Node{})
	case patchtree.KindObject:
		fill = patchtree.Object(patchtree.NewObject())
	}
	out := make([]patchtree.Node, len(arr), n)
	copy(out, arr)
	for len(out) < n {
		out = append(out, fill.Clone())
	}
	return out
}

// repeatOrTruncate adapts vals to exactly n elements: truncated if longer,
// cycled (repeating the last element) if shorter than n and non-empty.
func repeatOrTruncate(vals []patchtree.Node, n int) []patchtree.Node {
	if n <= 0 {
		return nil
	}
	if len(vals) == 0 {
		out := make([]patchtree.Node, n)
		for i := range out {
			out[i] = patchtree.Null()
		}
		return out
	}
	if len(vals) >= n {
		return vals[:n]
	}
	out := make([]patchtree.Node, 0, n)
	out = append(out, vals...)
	last := vals[len(vals)-1]
	for len(out) < n {
		out = append(out, last.Clone())
	}
	return out
}
