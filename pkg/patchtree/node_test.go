/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchtree

import "testing"

func TestObjectNode_SetPreservesOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("b", I64(2))
	obj.Set("a", I64(1))
	obj.Set("b", I64(20)) // overwrite, position stays

	want := []string{"b", "a"}
	got := obj.Keys()
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	v, ok := obj.Get("b")
	if !ok {
		t.Fatalf("expected key %q to be present", "b")
	}
	if iv, _ := v.I64(); iv != 20 {
		t.Errorf("obj[b] = %d, want 20 (overwrite should not append)", iv)
	}
}

func TestObjectNode_Delete(t *testing.T) {
	obj := NewObject()
	obj.Set("a", I64(1))
	obj.Set("b", I64(2))

	if !obj.Delete("a") {
		t.Fatalf("expected Delete(a) to report found")
	}
	if obj.Delete("a") {
		t.Errorf("expected second Delete(a) to report not found")
	}
	if obj.Len() != 1 {
		t.Errorf("Len() = %d, want 1", obj.Len())
	}
	if _, ok := obj.Get("a"); ok {
		t.Errorf("expected key %q removed", "a")
	}
}

func TestNode_Equal(t *testing.T) {
	a := Object(func() *ObjectNode {
		o := NewObject()
		o.Set("x", I64(1))
		o.Set("y", Array([]Node{Str("p"), Str("q")}))
		return o
	}())
	b := a.Clone()

	if !a.Equal(b) {
		t.Errorf("expected clone to be structurally equal to original")
	}

	obj, _ := b.Object()
	obj.Set("x", I64(2))
	if a.Equal(b) {
		t.Errorf("expected mutated clone to differ from original")
	}
}

func TestNode_CloneIsDeep(t *testing.T) {
	inner := NewObject()
	inner.Set("v", I64(1))
	original := Array([]Node{Object(inner)})

	cloned := original.Clone()
	clonedArr, _ := cloned.Array()
	clonedObj, _ := clonedArr[0].Object()
	clonedObj.Set("v", I64(99))

	origArr, _ := original.Array()
	origObj, _ := origArr[0].Object()
	v, _ := origObj.Get("v")
	if iv, _ := v.I64(); iv != 1 {
		t.Errorf("mutating the clone affected the original: v = %d, want 1", iv)
	}
}
