/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchtree

import "testing"

func TestFromJSON_RoundTripPreservesKeyOrder(t *testing.T) {
	const doc = `{"zed": 1, "alpha": {"nested": [1, 2, "three"]}, "mid": null}`

	node, err := FromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	obj, ok := node.Object()
	if !ok {
		t.Fatalf("expected object, got %v", node.Kind())
	}
	want := []string{"zed", "alpha", "mid"}
	got := obj.Keys()
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	b, err := node.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error marshaling: %v", err)
	}

	roundTripped, err := FromJSON(b)
	if err != nil {
		t.Fatalf("unexpected error re-decoding: %v", err)
	}
	if !node.Equal(roundTripped) {
		t.Errorf("round-tripped document is not structurally equal to the original")
	}
}

func TestFromJSON_NumberKinds(t *testing.T) {
	node, err := FromJSON([]byte(`{"i": 42, "f": 1.5}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, _ := node.Object()

	iv, _ := obj.Get("i")
	if iv.Kind() != KindI64 {
		t.Errorf("i Kind = %v, want %v", iv.Kind(), KindI64)
	}
	fv, _ := obj.Get("f")
	if fv.Kind() != KindF64 {
		t.Errorf("f Kind = %v, want %v", fv.Kind(), KindF64)
	}
}

func TestMarshalYAML_Scalars(t *testing.T) {
	node := Bool(true)
	v, err := node.MarshalYAML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v == nil {
		t.Errorf("expected a non-nil yaml node")
	}
}
