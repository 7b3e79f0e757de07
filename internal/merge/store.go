/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package merge implements C9 (the apply driver orchestrating
// behavior_gen) and C10 (the template store).
package merge

import (
	"fmt"
	"sync"

	"github.com/ardikabs/d-merge/internal/patchop"
	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// TemplateStore is the concurrent map of behavior templates a run
// applies patches against, keyed by TemplateKey (C10). Grounded on
// internal/executor/interface.go's Registry (sync.RWMutex + map).
type TemplateStore struct {
	mu   sync.RWMutex
	data map[patchop.TemplateKey]*patchtree.Node
}

// NewTemplateStore returns an empty store.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{data: make(map[patchop.TemplateKey]*patchtree.Node)}
}

// Load registers the parsed document for key, replacing any existing
// entry. Callers load every template before a run starts; the apply
// driver only ever reads/mutates entries that already exist.
func (s *TemplateStore) Load(key patchop.TemplateKey, root patchtree.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = &root
}

// Get returns the document for key.
func (s *TemplateStore) Get(key patchop.TemplateKey) (*patchtree.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.data[key]
	return n, ok
}

// Keys returns every loaded TemplateKey.
func (s *TemplateStore) Keys() []patchop.TemplateKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]patchop.TemplateKey, 0, len(s.data))
	for k := range s.data {
		out = append(out, k)
	}
	return out
}

// withTemplate requires key to already be loaded and returns its node,
// wrapped for call sites that need a uniform "template not found" error.
func (s *TemplateStore) withTemplate(key patchop.TemplateKey) (*patchtree.Node, error) {
	n, ok := s.Get(key)
	if !ok {
		return nil, fmt.Errorf("merge: template %q (1st person=%t) is not loaded", key.TemplateName, key.Is1stPerson)
	}
	return n, nil
}
