/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package merge

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ardikabs/d-merge/internal/collect"
	"github.com/ardikabs/d-merge/internal/mergeerrors"
	"github.com/ardikabs/d-merge/internal/metrics"
	"github.com/ardikabs/d-merge/internal/patchop"
	"github.com/ardikabs/d-merge/internal/progress"
	"github.com/ardikabs/d-merge/pkg/mergeconfig"
	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// Driver is C9: the apply-driver orchestration of one behavior_gen run.
// It walks every collected template and, per template, applies that
// template's one-field (Pure) patches before its sequence (Seq/Discrete)
// patches — matching spec.md §4.9's ordering invariant — while running
// distinct templates in parallel.
//
// Grounded on cmd/runner/runner.go's staged reportProgress orchestration
// and restoreDataAccumulator batching pattern, generalized from "one
// target, several sequential phases" to "N templates, each independently
// staged, running concurrently."
type Driver struct {
	Store      *TemplateStore
	Collector  *collect.Collector
	Log        logr.Logger
	Reporter   *progress.Reporter
	Summary    *mergeerrors.Summary
	Concurrency int
	Target     mergeconfig.Target
}

// Run applies every collected template's patches. It always visits every
// template (fail-at-end): a single template's apply errors are recorded
// in Summary and do not stop other templates from being attempted. Run
// itself returns a non-nil error only for a context cancellation or a
// driver-level setup problem; check Summary.Empty() for the merge
// outcome.
func (d *Driver) Run(ctx context.Context) error {
	runID := uuid.NewString()
	keys := d.Collector.Keys()

	d.report(mergeconfig.Status{RunID: runID, Stage: "applying", Total: len(keys)})

	limit := d.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	completed := make(chan struct{}, len(keys))
	for _, key := range keys {
		key := key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d.applyTemplate(key)
			completed <- struct{}{}
			return nil
		})
	}

	go func() {
		n := 0
		for range completed {
			n++
			d.report(mergeconfig.Status{RunID: runID, Stage: "applying", Completed: n, Total: len(keys)})
			if n == len(keys) {
				return
			}
		}
	}()

	if err := g.Wait(); err != nil {
		close(completed)
		return err
	}
	close(completed)

	d.report(mergeconfig.Status{RunID: runID, Stage: "done", Completed: len(keys), Total: len(keys)})
	return nil
}

func (d *Driver) report(s mergeconfig.Status) {
	if d.Reporter != nil {
		d.Reporter.Report(s)
	}
}

// applyTemplate applies one template's collected patches: all Pure
// patches first, then all Seq/Discrete patches, per path. Every error is
// recorded on the shared Summary; applyTemplate never returns early on a
// single path's failure so sibling paths in the same template still get
// a chance to apply.
func (d *Driver) applyTemplate(key patchop.TemplateKey) {
	start := time.Now()
	defer func() {
		metrics.TemplateApplyDuration.WithLabelValues(key.TemplateName).Observe(time.Since(start).Seconds())
	}()

	root, err := d.Store.withTemplate(key)
	if err != nil {
		d.Summary.Add(mergeerrors.CategoryApply, key.TemplateName, "", err)
		metrics.ApplyErrorsTotal.WithLabelValues(mergeerrors.CategoryApply.String()).Inc()
		return
	}

	set := d.Collector.Get(key)
	if set == nil {
		return
	}

	log := d.Log.WithValues("template", key.TemplateName, "first_person", key.Is1stPerson)

	for _, pathStr := range set.OneFieldPaths() {
		patches := set.OneFieldPatches(pathStr)
		winner := pickHighestPriority(patches)
		path := decodePathString(pathStr)
		if err := applyOnePatch(root, path, winner.Patch); err != nil {
			cat := mergeerrors.ClassifyPathError(err)
			d.Summary.Add(cat, key.TemplateName, pathStr, err)
			metrics.ApplyErrorsTotal.WithLabelValues(cat.String()).Inc()
			log.Error(err, "one-field patch apply failed", "path", pathStr)
		}
	}

	for _, pathStr := range set.SequencePaths() {
		patches := set.SequencePatches(pathStr)
		path := decodePathString(pathStr)
		if err := patchop.ApplySequence(root, path, patches); err != nil {
			cat := mergeerrors.ClassifyPathError(err)
			d.Summary.Add(cat, key.TemplateName, pathStr, err)
			metrics.ApplyErrorsTotal.WithLabelValues(cat.String()).Inc()
			log.Error(err, "sequence patch apply failed", "path", pathStr)
		}
	}
}

// pickHighestPriority resolves a field's competing Pure patches by
// keeping the highest-priority entry, matching spec.md §4.3: at most one
// Pure patch ever wins a given field, unlike Seq patches which all
// contribute through C5's merge.
func pickHighestPriority(patches []patchop.PrioritizedPatch) patchop.PrioritizedPatch {
	best := patches[0]
	for _, p := range patches[1:] {
		if p.Priority >= best.Priority {
			best = p
		}
	}
	return best
}

func applyOnePatch(root *patchtree.Node, path patchtree.Path, p patchop.Patch) error {
	if p.Shape != patchop.ShapePure {
		return fmt.Errorf("merge: expected a Pure patch at %s", path)
	}
	return patchop.ApplyPure(root, path, p.Op)
}

func decodePathString(s string) patchtree.Path {
	if s == "" {
		return nil
	}
	var out patchtree.Path
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
