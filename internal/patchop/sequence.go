/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchop

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// removedSentinel marks an array slot as logically deleted during C5's
// two-pass merge, so later passes can still address original indices
// before a final filter drops the marked slots. Mirrors the upstream
// merge engine's own "##Mark_As_Removed##" sentinel string.
const removedSentinel = "##Mark_As_Removed##"

func isSentinel(n patchtree.Node) bool {
	s, ok := n.Str()
	return ok && s == removedSentinel
}

// ApplySequence merges every PrioritizedPatch targeting the same array
// path into one array, per spec.md §4.5:
//
//  1. sort ascending by (priority, op_rank(Replace<Remove<Add))
//  2. partition into non-Add (Replace/Remove) and Add
//  3. apply non-Add patches in order, overwriting ranges directly and
//     marking removed ranges with a sentinel rather than shrinking the
//     array (so later patches still see original index positions)
//  4. apply Add patches in order, tracking a running offset so inserts
//     compound correctly against the now-longer array
//  5. strip every sentinel-marked slot in one final pass
//
// Determinism depends only on (priority, op_rank) total order and input
// order, never on goroutine completion order — callers may decode patches
// concurrently but must hand ApplySequence a fully materialized, ordered
// slice.
func ApplySequence(root *patchtree.Node, path patchtree.Path, patches []PrioritizedPatch) error {
	if len(patches) == 0 {
		return nil
	}
	node, err := patchtree.Get(*root, path)
	if err != nil {
		return err
	}
	cur, ok := node.Array()
	if !ok {
		return fmt.Errorf("sequence merge at %s: %w: %s", path, patchtree.ErrExpectedSeq, node.Kind())
	}
	arr := append([]patchtree.Node(nil), cur...)

	sorted := append([]PrioritizedPatch(nil), patches...)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i], sorted[j]
		if pi.Priority != pj.Priority {
			return pi.Priority < pj.Priority
		}
		return pi.Patch.Op.Kind.rank() < pj.Patch.Op.Kind.rank()
	})

	nonAdd, add := lo.FilterReject(sorted, func(p PrioritizedPatch, _ int) bool {
		return p.Patch.Op.Kind != OpAdd
	})

	for _, pp := range nonAdd {
		rng := patchRange(pp.Patch)
		start, end, _, berr := rng.Bounds(len(arr))
		if berr != nil {
			return fmt.Errorf("sequence merge at %s: %w", path, berr)
		}
		if end > len(arr) {
			return fmt.Errorf("sequence merge at %s: %w: [%d:%d] over length %d", path, patchtree.ErrOutOfRange, start, end, len(arr))
		}
		switch pp.Patch.Op.Kind {
		case OpReplace:
			vals := valueElems(pp.Patch.Op.Value, end-start)
			copy(arr[start:end], vals)
		case OpRemove:
			for i := start; i < end; i++ {
				arr[i] = patchtree.Str(removedSentinel)
			}
		}
	}

	origLen := len(arr)
	offset := 0
	for _, pp := range add {
		rng := patchRange(pp.Patch)
		start, _, _, berr := rng.Bounds(origLen)
		insertAt := start
		if berr != nil {
			insertAt = origLen
		}
		insertAt += offset
		if insertAt > len(arr) {
			insertAt = len(arr)
		}
		vals, _ := pp.Patch.Op.Value.Array()
		if vals == nil {
			vals = []patchtree.Node{pp.Patch.Op.Value}
		}
		out := make([]patchtree.Node, 0, len(arr)+len(vals))
		out = append(out, arr[:insertAt]...)
		out = append(out, vals...)
		out = append(out, arr[insertAt:]...)
		arr = out
		offset += len(vals)
	}

	final := make([]patchtree.Node, 0, len(arr))
	for _, v := range arr {
		if isSentinel(v) {
			continue
		}
		final = append(final, v)
	}

	return patchtree.SetArrayAt(root, path, final)
}

// patchRange returns p's target range. ApplySequence only ever receives
// ShapeSeq patches (internal/collect expands ShapeDiscrete into ShapeSeq
// entries before filing them into a template's seq_map), so a non-Seq
// shape here would be a caller bug; fall back to the full range rather
// than panicking.
func patchRange(p Patch) patchtree.Range {
	if p.Shape == ShapeSeq {
		return p.Range
	}
	return patchtree.Range{Kind: patchtree.RangeFull}
}

func valueElems(v patchtree.Node, n int) []patchtree.Node {
	if elems, ok := v.Array(); ok {
		return repeatOrTruncate(elems, n)
	}
	return repeatOrTruncate([]patchtree.Node{v}, n)
}
