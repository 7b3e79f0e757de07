/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package animtext decodes the two Skyrim animation text database
// formats, ADSF (animation data single file) and ASDSF (animation set
// data single file), both plain line-oriented text using the same
// OPEN/ORIGINAL/CLOSE diff-comment grammar as Nemesis XML patches
// (internal/nemesis), but addressed purely by line position rather than
// by an XML tag path — grounded on
// original_source/core/skyrim_anim_parser/src/{adsf,asdsf}.
package animtext

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ardikabs/d-merge/internal/linediff"
	"github.com/ardikabs/d-merge/internal/nemesis"
	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// Format distinguishes the two line-oriented database shapes; both share
// the same patch grammar, only the base-file line count heuristics (not
// modeled here beyond pass-through) differ at the original's encoder
// layer, which is out of scope (spec.md non-goal: binary re-encoding).
type Format int

const (
	FormatADSF Format = iota
	FormatASDSF
)

// DecodePatches scans r — one mod's ADSF or ASDSF patch fragment — and
// returns the line-range patches it describes, tracking a running line
// cursor across context lines exactly as Nemesis's decoder tracks a tag
// path, since these formats have no tag nesting at all: the whole file is
// one flat line array.
func DecodePatches(format Format, r io.Reader, priority int) ([]linediff.PrioritizedPatch, error) {
	var out []linediff.PrioritizedPatch
	cursor := 0

	onContext := func(line string) error {
		cursor++
		return nil
	}

	onTriple := func(t nemesis.Triple) error {
		p, err := buildLinePatch(cursor, t)
		if err != nil {
			return fmt.Errorf("animtext: triple %d: %w", t.ID, err)
		}
		out = append(out, linediff.PrioritizedPatch{Patch: p, Priority: priority})
		cursor += len(t.OldLines)
		return nil
	}

	if err := nemesis.ScanTriples(r, onContext, onTriple); err != nil {
		return nil, fmt.Errorf("animtext: %w", err)
	}
	return out, nil
}

func buildLinePatch(cursor int, t nemesis.Triple) (linediff.SeqPatch, error) {
	newLines := make([]string, len(t.NewLines))
	copy(newLines, t.NewLines)

	switch {
	case len(t.OldLines) == 0:
		return linediff.SeqPatch{
			Op:    linediff.OpAdd,
			Range: patchtree.Range{Kind: patchtree.RangeIndex, Start: cursor},
			Lines: newLines,
		}, nil
	case len(newLines) == 0:
		return linediff.SeqPatch{
			Op:    linediff.OpRemove,
			Range: patchtree.Range{Kind: patchtree.RangeFromTo, Start: cursor, End: cursor + len(t.OldLines)},
		}, nil
	default:
		return linediff.SeqPatch{
			Op:    linediff.OpReplace,
			Range: patchtree.Range{Kind: patchtree.RangeFromTo, Start: cursor, End: cursor + len(t.OldLines)},
			Lines: newLines,
		}, nil
	}
}

// ReadLines loads a whole base ADSF/ASDSF text file into a flat line
// array, the document shape linediff.Merge operates on.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("animtext: read lines: %w", err)
	}
	return lines, nil
}
