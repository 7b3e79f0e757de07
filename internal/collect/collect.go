/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package collect implements C8: a concurrency-safe collector that groups
// decoded patches by the template they target, splitting each template's
// patches into one_map (Pure-shaped, keyed by field path) and seq_map
// (Seq/Discrete-shaped, keyed by array path) buckets the apply driver
// (internal/merge) consumes.
//
// Grounded on internal/executor/interface.go's Registry — a single
// sync.RWMutex-guarded map — generalized to a fixed number of lock shards
// so the collector does not serialize decoder goroutines targeting
// different templates behind one global lock.
package collect

import (
	"hash/fnv"
	"sync"

	"github.com/go-logr/logr"
	"github.com/samber/lo"

	"github.com/ardikabs/d-merge/internal/patchop"
)

const shardCount = 32

// TemplatePatchSet holds every patch collected so far for one template,
// split the way the apply driver needs to consume it: one_map groups
// Pure-shaped patches by the exact field path they address (each path may
// accumulate many PrioritizedPatch entries from different mods); seq_map
// groups Seq/Discrete-shaped patches the same way, by the array path.
type TemplatePatchSet struct {
	mu     sync.Mutex
	oneMap map[string][]patchop.PrioritizedPatch
	seqMap map[string][]patchop.PrioritizedPatch
}

func newTemplatePatchSet() *TemplatePatchSet {
	return &TemplatePatchSet{
		oneMap: make(map[string][]patchop.PrioritizedPatch),
		seqMap: make(map[string][]patchop.PrioritizedPatch),
	}
}

func (s *TemplatePatchSet) add(pp patchop.PrioritizedPatch) {
	key := pp.Patch.Path.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	switch pp.Patch.Shape {
	case patchop.ShapePure:
		s.oneMap[key] = append(s.oneMap[key], pp)
	default:
		s.seqMap[key] = append(s.seqMap[key], pp)
	}
}

// OneFieldPaths returns every distinct field path with at least one Pure
// patch, in no particular order — the apply driver sorts/iterates as it
// sees fit.
func (s *TemplatePatchSet) OneFieldPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Keys(s.oneMap)
}

// SequencePaths returns every distinct array path with at least one
// Seq/Discrete patch.
func (s *TemplatePatchSet) SequencePaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Keys(s.seqMap)
}

// OneFieldPatches returns the accumulated Pure patches for one path.
func (s *TemplatePatchSet) OneFieldPatches(path string) []patchop.PrioritizedPatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]patchop.PrioritizedPatch(nil), s.oneMap[path]...)
}

// SequencePatches returns the accumulated Seq/Discrete patches for one
// array path.
func (s *TemplatePatchSet) SequencePatches(path string) []patchop.PrioritizedPatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]patchop.PrioritizedPatch(nil), s.seqMap[path]...)
}

// shard is one lock-guarded partition of the collector's template map.
type shard struct {
	mu   sync.RWMutex
	sets map[patchop.TemplateKey]*TemplatePatchSet
}

// Collector is the concurrent per-template patch grouping store (C8).
// Decoder goroutines call Add concurrently from any template/priority;
// the apply driver later calls Get once decoding for a template is known
// to be finished.
type Collector struct {
	shards [shardCount]*shard
	log    logr.Logger
}

// New returns an empty Collector. log receives the zip-and-warn diagnostic
// Add emits when a Discrete patch's range count and value count disagree.
func New(log logr.Logger) *Collector {
	c := &Collector{log: log}
	for i := range c.shards {
		c.shards[i] = &shard{sets: make(map[patchop.TemplateKey]*TemplatePatchSet)}
	}
	return c
}

func (c *Collector) shardFor(key patchop.TemplateKey) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.TemplateName))
	if key.Is1stPerson {
		_, _ = h.Write([]byte{1})
	}
	return c.shards[h.Sum32()%shardCount]
}

// Add files pp under key's patch set, creating the set on first use. A
// Discrete-shaped pp is expanded here into one Seq-shaped entry per range,
// zipped against pp.Patch.Op.Value's array elements — per spec.md's
// collector-side Discrete expansion, matching the original's
// range_vec.zip(array) in nemesis_merge's patch collector.
func (c *Collector) Add(key patchop.TemplateKey, pp patchop.PrioritizedPatch) {
	sh := c.shardFor(key)
	sh.mu.Lock()
	set, ok := sh.sets[key]
	if !ok {
		set = newTemplatePatchSet()
		sh.sets[key] = set
	}
	sh.mu.Unlock()

	if pp.Patch.Shape != patchop.ShapeDiscrete {
		set.add(pp)
		return
	}
	for _, expanded := range c.expandDiscrete(pp) {
		set.add(expanded)
	}
}

// expandDiscrete zips pp's Discrete ranges against pp.Patch.Op.Value's
// array elements, producing one Seq patch per pair. A length mismatch
// zips to the shorter side and logs a warning rather than failing.
func (c *Collector) expandDiscrete(pp patchop.PrioritizedPatch) []patchop.PrioritizedPatch {
	ranges := pp.Patch.Discrete
	values, ok := pp.Patch.Op.Value.Array()
	if !ok {
		c.log.Info("discrete patch value is not an array, dropping", "path", pp.Patch.Path.String())
		return nil
	}

	n := len(ranges)
	if len(values) < n {
		n = len(values)
	}
	if len(ranges) != len(values) {
		c.log.Info("discrete patch length mismatch, zipping to shorter side",
			"path", pp.Patch.Path.String(), "ranges", len(ranges), "values", len(values))
	}

	out := make([]patchop.PrioritizedPatch, n)
	for i := 0; i < n; i++ {
		out[i] = patchop.PrioritizedPatch{
			Priority: pp.Priority,
			Patch: patchop.Patch{
				Shape: patchop.ShapeSeq,
				Path:  pp.Patch.Path,
				Op:    patchop.Op{Kind: pp.Patch.Op.Kind, Value: values[i]},
				Range: ranges[i],
			},
		}
	}
	return out
}

// Get returns the patch set for key, or nil if nothing was ever added
// under it.
func (c *Collector) Get(key patchop.TemplateKey) *TemplatePatchSet {
	sh := c.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.sets[key]
}

// Keys returns every TemplateKey with at least one patch, across all
// shards.
func (c *Collector) Keys() []patchop.TemplateKey {
	var out []patchop.TemplateKey
	for _, sh := range c.shards {
		sh.mu.RLock()
		for k := range sh.sets {
			out = append(out, k)
		}
		sh.mu.RUnlock()
	}
	return out
}
