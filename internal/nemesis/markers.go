/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package nemesis decodes the Nemesis-style diff-comment convention used
// inside behavior template text: a triple of HTML/XML comment markers
// delimiting a mod's OPEN (new) content, the ORIGINAL content it
// replaces, and CLOSE. internal/animtext reuses the marker scanner below
// (ScanTriples) for the plain-text ADSF/ASDSF formats, which follow the
// same three-marker grammar without the surrounding hkobject/hkparam XML.
package nemesis

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// MarkerState is which part of an OPEN/ORIGINAL/CLOSE triple the scanner
// is currently inside.
type MarkerState int

const (
	StateOutside MarkerState = iota
	StateOpen              // between OPEN and ORIGINAL: the mod's new content
	StateOriginal          // between ORIGINAL and CLOSE: the content it replaces
)

var (
	openRe  = regexp.MustCompile(`^\s*<!--\s*MOD_CODE\s*~(\d+)~\s*OPEN\s*-->\s*$`)
	origRe  = regexp.MustCompile(`^\s*<!--\s*ORIGINAL\s*-->\s*$`)
	closeRe = regexp.MustCompile(`^\s*<!--\s*CLOSE\s*-->\s*$`)
)

// Marker is one recognized comment marker line.
type Marker struct {
	Kind MarkerKind
	ID   int // only meaningful for MarkerOpen
}

type MarkerKind int

const (
	MarkerNone MarkerKind = iota
	MarkerOpen
	MarkerOriginal
	MarkerClose
)

// MatchMarker classifies a single line as one of the three markers, or
// MarkerNone if it is ordinary content.
func MatchMarker(line string) (Marker, error) {
	if m := openRe.FindStringSubmatch(line); m != nil {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return Marker{}, fmt.Errorf("nemesis: bad MOD_CODE id %q: %w", m[1], err)
		}
		return Marker{Kind: MarkerOpen, ID: id}, nil
	}
	if origRe.MatchString(line) {
		return Marker{Kind: MarkerOriginal}, nil
	}
	if closeRe.MatchString(line) {
		return Marker{Kind: MarkerClose}, nil
	}
	return Marker{Kind: MarkerNone}, nil
}

// Triple is one fully scanned OPEN/ORIGINAL/CLOSE block: the mod's new
// lines (after OPEN, before ORIGINAL) and the original lines it replaces
// (after ORIGINAL, before CLOSE). Surrounding context lines are not stored
// here; ScanTriples hands them to its onContext callback, which the decoder
// uses to resolve the enclosing field/array path. HadOriginal records whether an ORIGINAL
// marker was ever seen, distinguishing a triple with a genuinely empty
// ORIGINAL block (HadOriginal=true, OldLines empty) from one that closed
// immediately after OPEN without ever reaching ORIGINAL (HadOriginal=false) —
// the decoder treats the latter as a Remove rather than an Add.
type Triple struct {
	ID          int
	NewLines    []string
	OldLines    []string
	HadOriginal bool
}

// ScanTriples walks r line by line, returning every line outside any
// triple (context, in order) interleaved with the triples themselves via
// the onContext/onTriple callbacks, so the caller can track nesting state
// (hkobject/hkparam tags) as it goes.
func ScanTriples(r io.Reader, onContext func(line string) error, onTriple func(t Triple) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	state := StateOutside
	var cur Triple
	for sc.Scan() {
		line := sc.Text()
		m, err := MatchMarker(line)
		if err != nil {
			return err
		}
		switch m.Kind {
		case MarkerOpen:
			if state != StateOutside {
				return fmt.Errorf("nemesis: nested OPEN marker (id %d) while in state %d", m.ID, state)
			}
			state = StateOpen
			cur = Triple{ID: m.ID}
		case MarkerOriginal:
			if state != StateOpen {
				return fmt.Errorf("nemesis: ORIGINAL marker outside an OPEN block")
			}
			state = StateOriginal
			cur.HadOriginal = true
		case MarkerClose:
			if state != StateOriginal && state != StateOpen {
				return fmt.Errorf("nemesis: CLOSE marker outside a triple")
			}
			state = StateOutside
			if err := onTriple(cur); err != nil {
				return err
			}
			cur = Triple{}
		default:
			switch state {
			case StateOutside:
				if onContext != nil {
					if err := onContext(line); err != nil {
						return err
					}
				}
			case StateOpen:
				cur.NewLines = append(cur.NewLines, line)
			case StateOriginal:
				cur.OldLines = append(cur.OldLines, line)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("nemesis: scan: %w", err)
	}
	if state != StateOutside {
		return fmt.Errorf("nemesis: unterminated triple at EOF")
	}
	return nil
}
