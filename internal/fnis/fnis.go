/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package fnis parses FNIS animation-list files and turns their entries
// into the same patch operations the Nemesis decoder produces, so both
// feed the apply driver through internal/collect without it knowing which
// mod format an entry originated from.
//
// Grounded on original_source/core/nemesis_merge/src/behaviors/tasks/fnis
// (list_parser.rs, patch_gen/{add,offset_arm,gen_list_patch}.rs). The
// state-name hash the original derives for furniture/paired animations
// is not reimplemented (spec.md §9 open question) — this parser passes
// the raw suffix token through unresolved.
package fnis

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ardikabs/d-merge/internal/mergeerrors"
	"github.com/ardikabs/d-merge/internal/patchop"
	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// Kind is the animation-list record type FNIS recognizes.
type Kind int

const (
	KindAlternate Kind = iota
	KindFurniture
	KindPaired
	KindKillMove
)

// Entry is one parsed line from a FNIS_<creature>_List.txt file.
type Entry struct {
	Kind       Kind
	AnimName   string
	ClipName   string
	StateHint  string // opaque suffix used to derive a state name, not reimplemented
	CreatureID string
}

// ParseList parses one FNIS animation-list file.
func ParseList(r io.Reader, creatureID string) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	var entries []Entry
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "'") || strings.HasPrefix(line, "version") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		kind, ok := classify(fields[0])
		if !ok {
			continue
		}
		e := Entry{
			Kind:       kind,
			AnimName:   fields[1],
			ClipName:   fields[2],
			CreatureID: creatureID,
		}
		if len(fields) > 3 {
			e.StateHint = fields[3]
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fnis: parse list: %w", err)
	}
	return entries, nil
}

func classify(token string) (Kind, bool) {
	switch strings.ToLower(token) {
	case "anim":
		return KindAlternate, true
	case "furniture", "furnituredouble":
		return KindFurniture, true
	case "paired":
		return KindPaired, true
	case "killmove":
		return KindKillMove, true
	default:
		return 0, false
	}
}

// GeneratePatches turns entries into patch operations against the
// clip-generator array of the creature's behavior template, at Priority.
// Kill-move entries are rejected: this engine does not support them
// (spec.md non-goal), recorded as a policy error rather than silently
// dropped.
func GeneratePatches(entries []Entry, priority int) ([]patchop.PrioritizedPatch, error) {
	var out []patchop.PrioritizedPatch
	for i, e := range entries {
		if e.Kind == KindKillMove {
			return out, fmt.Errorf("fnis: entry %d (%s): %w", i, e.AnimName, mergeerrors.ErrKillMoveUnsupported)
		}
		path := patchtree.Path{"#clipGenerators", e.CreatureID}
		value := patchtree.Object(clipObject(e))
		out = append(out, patchop.PrioritizedPatch{
			Priority: priority,
			Patch: patchop.Patch{
				Shape: patchop.ShapeSeq,
				Path:  path,
				Op:    patchop.Op{Kind: patchop.OpAdd, Value: patchtree.Array([]patchtree.Node{value})},
				Range: patchtree.Range{Kind: patchtree.RangeFrom, Start: 0},
			},
		})
	}
	return out, nil
}

func clipObject(e Entry) *patchtree.ObjectNode {
	obj := patchtree.NewObject()
	obj.Set("animName", patchtree.Str(e.AnimName))
	obj.Set("clipName", patchtree.Str(e.ClipName))
	if e.StateHint != "" {
		obj.Set("stateHint", patchtree.Str(e.StateHint))
	}
	switch e.Kind {
	case KindFurniture:
		obj.Set("kind", patchtree.Str("furniture"))
	case KindPaired:
		obj.Set("kind", patchtree.Str("paired"))
	default:
		obj.Set("kind", patchtree.Str("alternate"))
	}
	return obj
}
