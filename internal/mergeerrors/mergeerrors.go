/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package mergeerrors implements the fail-at-end error taxonomy: errors
// from every stage of a run are collected rather than aborting the run,
// and the run only fails once all work has been attempted and the
// collected Summary is non-empty. Grounded on
// internal/controller/hibernateplan/error_handler.go's fmt.Errorf(%w)
// wrapping idiom, generalized from "one reconcile, one error" to
// "accumulate every error across a whole merge run."
package mergeerrors

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// ErrKillMoveUnsupported is a policy error: FNIS kill-move animation
// entries are not supported by this merge engine (spec.md non-goal).
var ErrKillMoveUnsupported = errors.New("fnis kill-move entries are not supported")

// Category buckets one error into the run-level counters §6 of spec.md
// names.
type Category int

const (
	CategoryFNIS Category = iota
	CategoryOwnedFile
	CategoryADSF
	CategoryASDSF
	CategoryPatch
	CategoryApply
	CategoryHKX
)

func (c Category) String() string {
	switch c {
	case CategoryFNIS:
		return "fnis"
	case CategoryOwnedFile:
		return "owned_file"
	case CategoryADSF:
		return "adsf"
	case CategoryASDSF:
		return "asdsf"
	case CategoryPatch:
		return "patch"
	case CategoryApply:
		return "apply"
	case CategoryHKX:
		return "hkx"
	default:
		return "unknown"
	}
}

// Entry is one collected failure, tagged with the stage it happened in
// and, where applicable, the template and source file that produced it.
type Entry struct {
	Category Category
	Template string
	Source   string
	Err      error
}

// Summary aggregates every Entry seen during one behavior_gen run. It is
// safe for concurrent use: apply-driver goroutines across templates call
// Add independently.
type Summary struct {
	mu             sync.Mutex
	entries        []Entry
	patchesRead    int
	countsByCat    map[Category]int
}

// NewSummary returns an empty, ready-to-use Summary.
func NewSummary() *Summary {
	return &Summary{countsByCat: make(map[Category]int)}
}

// Add records one failure.
func (s *Summary) Add(cat Category, template, source string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Category: cat, Template: template, Source: source, Err: err})
	s.countsByCat[cat]++
}

// IncPatchesRead bumps the total count of patches successfully decoded,
// independent of whether any later stage fails on them.
func (s *Summary) IncPatchesRead(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patchesRead += n
}

// Count returns how many entries were recorded under cat.
func (s *Summary) Count(cat Category) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countsByCat[cat]
}

// PatchesRead returns the total successfully decoded patch count.
func (s *Summary) PatchesRead() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patchesRead
}

// Empty reports whether no failures were recorded — the run succeeds iff
// Empty() is true once every stage has finished.
func (s *Summary) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) == 0
}

// Entries returns a snapshot of every recorded failure.
func (s *Summary) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Error renders the Summary as a single error, joining every entry —
// the error behavior_gen returns once a run fails.
func (s *Summary) Error() error {
	if s.Empty() {
		return nil
	}
	entries := s.Entries()
	errs := make([]error, 0, len(entries))
	for _, e := range entries {
		errs = append(errs, fmt.Errorf("[%s] template=%q source=%q: %w", e.Category, e.Template, e.Source, e.Err))
	}
	return errors.Join(errs...)
}

// ClassifyPathError maps a patchtree path/range error into its run-level
// category; unrecognized errors fall back to CategoryApply.
func ClassifyPathError(err error) Category {
	switch {
	case errors.Is(err, patchtree.ErrEmptyPointer),
		errors.Is(err, patchtree.ErrInvalidIndex),
		errors.Is(err, patchtree.ErrInvalidString),
		errors.Is(err, patchtree.ErrInvalidTarget),
		errors.Is(err, patchtree.ErrTryType),
		errors.Is(err, patchtree.ErrNotFoundTarget),
		errors.Is(err, patchtree.ErrUnsupportedRangeKind),
		errors.Is(err, patchtree.ErrUnexpectedRange),
		errors.Is(err, patchtree.ErrOutOfRange),
		errors.Is(err, patchtree.ErrWrongMatrix),
		errors.Is(err, patchtree.ErrExpectedSeq):
		return CategoryPatch
	default:
		return CategoryApply
	}
}
