/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchtree

import "testing"

func TestParseRange(t *testing.T) {
	tests := []struct {
		tok      string
		wantOK   bool
		wantErr  bool
		wantKind RangeKind
		wantFrom int
		wantTo   int
	}{
		{tok: "foo", wantOK: false},
		{tok: "[3]", wantOK: true, wantKind: RangeIndex, wantFrom: 3},
		{tok: "[2:5]", wantOK: true, wantKind: RangeFromTo, wantFrom: 2, wantTo: 5},
		{tok: "[2:]", wantOK: true, wantKind: RangeFrom, wantFrom: 2},
		{tok: "[:5]", wantOK: true, wantKind: RangeTo, wantTo: 5},
		{tok: "[:]", wantOK: true, wantKind: RangeFull},
		{tok: "[x]", wantOK: true, wantErr: true},
		{tok: "[x:5]", wantOK: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			rng, ok, err := ParseRange(tt.tok)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if rng.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", rng.Kind, tt.wantKind)
			}
			if rng.Start != tt.wantFrom {
				t.Errorf("Start = %d, want %d", rng.Start, tt.wantFrom)
			}
			if rng.End != tt.wantTo {
				t.Errorf("End = %d, want %d", rng.End, tt.wantTo)
			}
		})
	}
}

func TestRange_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		rng       Range
		length    int
		wantStart int
		wantEnd   int
		wantSingl bool
		wantErr   bool
	}{
		{name: "index in range", rng: Range{Kind: RangeIndex, Start: 2}, length: 5, wantStart: 2, wantEnd: 3, wantSingl: true},
		{name: "index at length is append point", rng: Range{Kind: RangeIndex, Start: 5}, length: 5, wantStart: 5, wantEnd: 6, wantSingl: true},
		{name: "index past length errors", rng: Range{Kind: RangeIndex, Start: 6}, length: 5, wantErr: true},
		{name: "from-to", rng: Range{Kind: RangeFromTo, Start: 1, End: 3}, length: 5, wantStart: 1, wantEnd: 3},
		{name: "from-to end before start errors", rng: Range{Kind: RangeFromTo, Start: 3, End: 1}, length: 5, wantErr: true},
		{name: "from within length", rng: Range{Kind: RangeFrom, Start: 2}, length: 5, wantStart: 2, wantEnd: 5},
		{name: "from past length clamps end to start", rng: Range{Kind: RangeFrom, Start: 7}, length: 5, wantStart: 7, wantEnd: 7},
		{name: "to", rng: Range{Kind: RangeTo, End: 3}, length: 5, wantStart: 0, wantEnd: 3},
		{name: "full", rng: Range{Kind: RangeFull}, length: 5, wantStart: 0, wantEnd: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, single, err := tt.rng.Bounds(tt.length)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Bounds = [%d:%d], want [%d:%d]", start, end, tt.wantStart, tt.wantEnd)
			}
			if single != tt.wantSingl {
				t.Errorf("single = %v, want %v", single, tt.wantSingl)
			}
		})
	}
}
