/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchop

import (
	"errors"
	"strconv"
	"testing"

	"github.com/ardikabs/d-merge/pkg/patchtree"
)

func newRoot() patchtree.Node {
	obj := patchtree.NewObject()
	obj.Set("speed", patchtree.F64(1.0))
	return patchtree.Object(obj)
}

func TestApplyPure_Replace(t *testing.T) {
	root := newRoot()
	err := ApplyPure(&root, patchtree.Path{"speed"}, Op{Kind: OpReplace, Value: patchtree.F64(2.5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := patchtree.Get(root, patchtree.Path{"speed"})
	if fv, _ := v.F64(); fv != 2.5 {
		t.Errorf("got %v, want 2.5", fv)
	}
}

func TestApplyPure_Add(t *testing.T) {
	root := newRoot()
	err := ApplyPure(&root, patchtree.Path{"newField"}, Op{Kind: OpAdd, Value: patchtree.Str("hi")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := patchtree.Get(root, patchtree.Path{"newField"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, _ := v.Str(); s != "hi" {
		t.Errorf("got %q, want %q", s, "hi")
	}
}

func TestApplyPure_AddAutoVivifiesMissingNestedObject(t *testing.T) {
	root := newRoot()
	err := ApplyPure(&root, patchtree.Path{"user", "address"}, Op{Kind: OpAdd, Value: patchtree.Str("123 Main St")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := patchtree.Get(root, patchtree.Path{"user", "address"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, _ := v.Str(); s != "123 Main St" {
		t.Errorf("got %q, want %q", s, "123 Main St")
	}
}

func TestApplyPure_AddGrowsExistingArrayWithNullPlaceholders(t *testing.T) {
	obj := patchtree.NewObject()
	obj.Set("items", patchtree.Array([]patchtree.Node{patchtree.I64(1), patchtree.I64(2)}))
	root := patchtree.Object(obj)

	err := ApplyPure(&root, patchtree.Path{"items", "4"}, Op{Kind: OpAdd, Value: patchtree.I64(42)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := patchtree.Get(root, patchtree.Path{"items", "4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := v.I64(); n != 42 {
		t.Errorf("got %v, want 42", n)
	}
	// indices 2-3 should have been grown with Null placeholders.
	for i := 2; i < 4; i++ {
		v, err := patchtree.Get(root, patchtree.Path{"items", strconv.Itoa(i)})
		if err != nil {
			t.Fatalf("unexpected error at index %d: %v", i, err)
		}
		if !v.IsNull() {
			t.Errorf("index %d = %v, want Null placeholder", i, v)
		}
	}
}

func TestApplyPure_ReplaceRejectsTypeMismatch(t *testing.T) {
	root := newRoot()
	err := ApplyPure(&root, patchtree.Path{"speed"}, Op{Kind: OpReplace, Value: patchtree.Str("fast")})
	if err == nil {
		t.Fatalf("expected a type error replacing a float field with a string")
	}
	if !errors.Is(err, patchtree.ErrTryType) {
		t.Errorf("error = %v, want it to wrap ErrTryType", err)
	}
}

func TestApplyPure_Remove(t *testing.T) {
	root := newRoot()
	err := ApplyPure(&root, patchtree.Path{"speed"}, Op{Kind: OpRemove})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := patchtree.Get(root, patchtree.Path{"speed"}); err == nil {
		t.Fatalf("expected field to be removed")
	}
}
