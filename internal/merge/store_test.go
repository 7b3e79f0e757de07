/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package merge

import (
	"strings"
	"testing"

	"github.com/ardikabs/d-merge/internal/patchop"
	"github.com/ardikabs/d-merge/pkg/patchtree"
)

func TestTemplateStore_LoadAndGet(t *testing.T) {
	s := NewTemplateStore()
	key := patchop.TemplateKey{TemplateName: "defaultmale"}
	root, err := patchtree.FromJSON([]byte(`{"speed":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Load(key, root)

	got, ok := s.Get(key)
	if !ok {
		t.Fatalf("expected the loaded key to be found")
	}
	obj, _ := got.Object()
	v, _ := obj.Get("speed")
	n, _ := v.I64()
	if n != 1 {
		t.Errorf("speed = %d, want 1", n)
	}
}

func TestTemplateStore_GetMissingKey(t *testing.T) {
	s := NewTemplateStore()
	if _, ok := s.Get(patchop.TemplateKey{TemplateName: "nope"}); ok {
		t.Errorf("expected ok=false for an unloaded key")
	}
}

func TestTemplateStore_Keys(t *testing.T) {
	s := NewTemplateStore()
	root, _ := patchtree.FromJSON([]byte(`{}`))
	s.Load(patchop.TemplateKey{TemplateName: "defaultmale"}, root)
	s.Load(patchop.TemplateKey{TemplateName: "defaultmale", Is1stPerson: true}, root)

	keys := s.Keys()
	if len(keys) != 2 {
		t.Fatalf("Keys() = %v, want 2 entries", keys)
	}
}

func TestTemplateStore_WithTemplateErrorsWhenNotLoaded(t *testing.T) {
	s := NewTemplateStore()
	_, err := s.withTemplate(patchop.TemplateKey{TemplateName: "missing", Is1stPerson: true})
	if err == nil {
		t.Fatalf("expected an error for an unloaded template")
	}
	if !strings.Contains(err.Error(), "missing") || !strings.Contains(err.Error(), "true") {
		t.Errorf("error = %q, want it to mention the template name and Is1stPerson", err.Error())
	}
}

func TestTemplateStore_LoadReplacesExistingEntry(t *testing.T) {
	s := NewTemplateStore()
	key := patchop.TemplateKey{TemplateName: "defaultmale"}
	first, _ := patchtree.FromJSON([]byte(`{"v":1}`))
	second, _ := patchtree.FromJSON([]byte(`{"v":2}`))

	s.Load(key, first)
	s.Load(key, second)

	got, _ := s.Get(key)
	obj, _ := got.Object()
	v, _ := obj.Get("v")
	n, _ := v.I64()
	if n != 2 {
		t.Errorf("v = %d, want 2 (the second Load should replace the first)", n)
	}
}
