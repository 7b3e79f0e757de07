/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package linediff implements C6: the same priority-ordered merge
// algorithm as internal/patchop's sequence merger (C5), specialized to a
// flat []string document instead of a patchtree.Node array. ADSF and
// ASDSF text databases (internal/animtext) are both just ordered line
// lists, so they share this one implementation rather than each growing
// their own merge loop.
package linediff

import (
	"fmt"
	"sort"

	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// OpKind mirrors patchop.OpKind, kept separate so this package has no
// dependency on internal/patchop; from pkg/patchtree it uses only Range.
type OpKind int

const (
	OpAdd OpKind = iota
	OpReplace
	OpRemove
)

func (k OpKind) rank() int {
	switch k {
	case OpReplace:
		return 0
	case OpRemove:
		return 1
	case OpAdd:
		return 2
	default:
		return 3
	}
}

// SeqPatch is one line-range patch instruction.
type SeqPatch struct {
	Op     OpKind
	Range  patchtree.Range
	Lines  []string // replacement/insertion lines for Replace/Add
}

// PrioritizedPatch pairs a SeqPatch with its source mod's priority.
type PrioritizedPatch struct {
	Patch    SeqPatch
	Priority int
}

const removedSentinel = "\x00##Mark_As_Removed##\x00"

// Merge applies every PrioritizedPatch against base, following the exact
// same sort/partition/overwrite/offset/strip algorithm as
// patchop.ApplySequence: sort ascending by (priority, op_rank), apply
// Replace/Remove first (marking removed lines with a sentinel instead of
// shrinking), then apply Add with a running offset, then strip sentinels.
func Merge(base []string, patches []PrioritizedPatch) ([]string, error) {
	if len(patches) == 0 {
		return append([]string(nil), base...), nil
	}
	lines := append([]string(nil), base...)

	sorted := append([]PrioritizedPatch(nil), patches...)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i], sorted[j]
		if pi.Priority != pj.Priority {
			return pi.Priority < pj.Priority
		}
		return pi.Patch.Op.rank() < pj.Patch.Op.rank()
	})

	var nonAdd, add []PrioritizedPatch
	for _, p := range sorted {
		if p.Patch.Op == OpAdd {
			add = append(add, p)
		} else {
			nonAdd = append(nonAdd, p)
		}
	}

	for _, pp := range nonAdd {
		start, end, _, err := pp.Patch.Range.Bounds(len(lines))
		if err != nil {
			return nil, fmt.Errorf("linediff merge: %w", err)
		}
		if end > len(lines) {
			return nil, fmt.Errorf("linediff merge: %w: [%d:%d] over length %d", patchtree.ErrOutOfRange, start, end, len(lines))
		}
		switch pp.Patch.Op {
		case OpReplace:
			repl := repeatOrTruncate(pp.Patch.Lines, end-start)
			copy(lines[start:end], repl)
		case OpRemove:
			for i := start; i < end; i++ {
				lines[i] = removedSentinel
			}
		}
	}

	origLen := len(lines)
	offset := 0
	for _, pp := range add {
		start, _, _, err := pp.Patch.Range.Bounds(origLen)
		insertAt := start
		if err != nil {
			insertAt = origLen
		}
		insertAt += offset
		if insertAt > len(lines) {
			insertAt = len(lines)
		}
		out := make([]string, 0, len(lines)+len(pp.Patch.Lines))
		out = append(out, lines[:insertAt]...)
		out = append(out, pp.Patch.Lines...)
		out = append(out, lines[insertAt:]...)
		lines = out
		offset += len(pp.Patch.Lines)
	}

	final := make([]string, 0, len(lines))
	for _, l := range lines {
		if l == removedSentinel {
			continue
		}
		final = append(final, l)
	}
	return final, nil
}

func repeatOrTruncate(vals []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(vals) == 0 {
		return make([]string, n)
	}
	if len(vals) >= n {
		return vals[:n]
	}
	out := make([]string, 0, n)
	out = append(out, vals...)
	last := vals[len(vals)-1]
	for len(out) < n {
		out = append(out, last)
	}
	return out
}
