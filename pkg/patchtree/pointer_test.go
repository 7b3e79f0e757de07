/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchtree

import (
	"errors"
	"testing"
)

func fixtureTree() Node {
	animations := NewObject()
	animations.Set("name", Str("attack"))
	animations.Set("frames", Array([]Node{I64(1), I64(2), I64(3)}))

	root := NewObject()
	root.Set("speed", F64(1.5))
	root.Set("animation", Object(animations))
	return Object(root)
}

func TestGet_ObjectAndArray(t *testing.T) {
	root := fixtureTree()

	v, err := Get(root, Path{"animation", "name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, _ := v.Str(); s != "attack" {
		t.Errorf("got %q, want %q", s, "attack")
	}

	v, err = Get(root, Path{"animation", "frames", "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv, _ := v.I64(); iv != 2 {
		t.Errorf("got %d, want 2", iv)
	}
}

func TestGet_MissingKey(t *testing.T) {
	root := fixtureTree()
	if _, err := Get(root, Path{"nope"}); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestGet_RangeToken(t *testing.T) {
	root := fixtureTree()
	v, err := Get(root, Path{"animation", "frames", "[1:3]"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := v.Array()
	if !ok || len(arr) != 2 {
		t.Fatalf("got %v, want a 2-element array", v)
	}
}

func TestReplace_ObjectField(t *testing.T) {
	root := fixtureTree()
	if err := Replace(&root, Path{"speed"}, F64(3.0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := Get(root, Path{"speed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fv, _ := v.F64(); fv != 3.0 {
		t.Errorf("got %v, want 3.0", fv)
	}
}

func TestReplace_NewObjectKey(t *testing.T) {
	root := fixtureTree()
	if err := Replace(&root, Path{"animation", "duration"}, F64(0.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := Get(root, Path{"animation", "duration"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fv, _ := v.F64(); fv != 0.5 {
		t.Errorf("got %v, want 0.5", fv)
	}
}

func TestReplace_ArrayIndex(t *testing.T) {
	root := fixtureTree()
	if err := Replace(&root, Path{"animation", "frames", "1"}, I64(99)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := Get(root, Path{"animation", "frames", "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv, _ := v.I64(); iv != 99 {
		t.Errorf("got %d, want 99", iv)
	}
}

func TestReplace_RejectsBoolFieldSetToString(t *testing.T) {
	root := fixtureTree()
	obj, _ := root.Object()
	obj.Set("enabled", Bool(true))

	err := Replace(&root, Path{"enabled"}, Str("yes"))
	if err == nil {
		t.Fatalf("expected a type error replacing a bool field with a string")
	}
	if wrapErr(err) != ErrTryType {
		t.Errorf("error = %v, want it to wrap ErrTryType", err)
	}
}

func TestReplace_RejectsStringFieldSetToNumber(t *testing.T) {
	root := fixtureTree()
	err := Replace(&root, Path{"animation", "name"}, I64(5))
	if err == nil {
		t.Fatalf("expected a type error replacing a string field with a number")
	}
	if wrapErr(err) != ErrInvalidString {
		t.Errorf("error = %v, want it to wrap ErrInvalidString", err)
	}
}

func TestReplace_CoercesIntToFloatField(t *testing.T) {
	root := fixtureTree()
	if err := Replace(&root, Path{"speed"}, I64(7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := Get(root, Path{"speed"})
	if fv, _ := v.F64(); fv != 7.0 {
		t.Errorf("got %v, want 7.0 (int should coerce into a float field)", fv)
	}
}

func TestAdd_CreatesMissingIntermediateObject(t *testing.T) {
	root := fixtureTree()
	if err := Add(&root, Path{"owner", "name"}, Str("John")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := Get(root, Path{"owner", "name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, _ := v.Str(); s != "John" {
		t.Errorf("got %q, want %q", s, "John")
	}
}

func TestAdd_GrowsArrayPastLengthWithNull(t *testing.T) {
	root := fixtureTree()
	if err := Add(&root, Path{"animation", "frames", "5"}, I64(42)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := Get(root, Path{"animation", "frames", "5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := v.I64(); n != 42 {
		t.Errorf("got %v, want 42", n)
	}
	for _, i := range []string{"3", "4"} {
		v, err := Get(root, Path{"animation", "frames", i})
		if err != nil {
			t.Fatalf("unexpected error at index %s: %v", i, err)
		}
		if !v.IsNull() {
			t.Errorf("index %s = %v, want Null placeholder", i, v)
		}
	}
}

func TestAdd_CannotDescendIntoScalar(t *testing.T) {
	root := fixtureTree()
	err := Add(&root, Path{"speed", "nested"}, Str("x"))
	if err == nil {
		t.Fatalf("expected an error descending into a scalar field")
	}
	if wrapErr(err) != ErrInvalidTarget {
		t.Errorf("error = %v, want it to wrap ErrInvalidTarget", err)
	}
}

func wrapErr(err error) error {
	for _, sentinel := range []error{ErrTryType, ErrInvalidString, ErrInvalidTarget, ErrOutOfRange, ErrInvalidIndex} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}

func TestRemove_ObjectField(t *testing.T) {
	root := fixtureTree()
	if err := Remove(&root, Path{"speed"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Get(root, Path{"speed"}); err == nil {
		t.Fatalf("expected key to be removed")
	}
}

func TestRemove_MissingKey(t *testing.T) {
	root := fixtureTree()
	if err := Remove(&root, Path{"nope"}); err == nil {
		t.Fatalf("expected error removing missing key")
	}
}

func TestParentArray(t *testing.T) {
	root := fixtureTree()
	arrPtr, lastTok, err := ParentArray(&root, Path{"animation", "frames", "[1:]"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lastTok != "[1:]" {
		t.Errorf("lastTok = %q, want %q", lastTok, "[1:]")
	}
	if len(*arrPtr) != 3 {
		t.Errorf("len = %d, want 3", len(*arrPtr))
	}
}

func TestSetArrayAt_RootLevel(t *testing.T) {
	root := Array([]Node{I64(1), I64(2)})
	if err := SetArrayAt(&root, Path{}, []Node{I64(9)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, _ := root.Array()
	if len(arr) != 1 {
		t.Fatalf("len = %d, want 1", len(arr))
	}
	if iv, _ := arr[0].I64(); iv != 9 {
		t.Errorf("got %d, want 9", iv)
	}
}
