/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package dmerge exposes behavior_gen, the single synchronous entry point
// the whole merge engine is built around (spec.md §6). Everything else
// in this module — patch decoding, the sequence merger, the apply driver
// — exists to be orchestrated from here.
package dmerge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/ardikabs/d-merge/internal/collect"
	"github.com/ardikabs/d-merge/internal/fnis"
	"github.com/ardikabs/d-merge/internal/merge"
	"github.com/ardikabs/d-merge/internal/mergeerrors"
	"github.com/ardikabs/d-merge/internal/metrics"
	"github.com/ardikabs/d-merge/internal/nemesis"
	"github.com/ardikabs/d-merge/internal/patchop"
	"github.com/ardikabs/d-merge/internal/progress"
	"github.com/ardikabs/d-merge/pkg/mergeconfig"
	"github.com/ardikabs/d-merge/pkg/patchtree"
)

// BehaviorGen runs one full merge: it decodes every mod in patchMaps,
// collects the resulting patches per template, loads each referenced
// template from cfg.ResourceDir, applies patches via the driver (C9), and
// writes the merged templates plus any requested debug artifacts to
// cfg.OutputDir.
//
// Templates are loaded as JSON documents (`<ResourceDir>/<template>.json`
// or `<template>_1stperson.json`) rather than the original HKX/XML binary
// format: converting the game's native behavior graph encoding into this
// engine's tree representation is the non-goal spec.md carves out for a
// separate encoder/decoder component, so this entry point assumes that
// conversion already happened upstream and works purely in terms of
// patchtree.Node documents.
func BehaviorGen(ctx context.Context, log logr.Logger, patchMaps mergeconfig.PatchMaps, cfg mergeconfig.Config) (*mergeerrors.Summary, error) {
	start := time.Now()
	summary := mergeerrors.NewSummary()
	reporter := progress.NewReporter(cfg.StatusReport)
	defer reporter.Stop()

	col := collect.New(log)

	reporter.Report(mergeconfig.Status{Stage: "collecting", Total: len(patchMaps.NemesisEntries) + len(patchMaps.FnisEntries)})

	decodeNemesis(ctx, log, col, summary, patchMaps.NemesisEntries, cfg.Hack)
	decodeFNIS(col, summary, patchMaps.FnisEntries)

	if cfg.Debug.OutputPatchJSON {
		if err := writePatchDebug(col, cfg.OutputDir); err != nil {
			summary.Add(mergeerrors.CategoryApply, "", "", err)
		}
	}

	store := merge.NewTemplateStore()
	if err := loadTemplates(store, col.Keys(), cfg.ResourceDir); err != nil {
		reporter.Report(mergeconfig.Status{Stage: "done"})
		metrics.RunTotal.WithLabelValues(cfg.OutputTarget.String(), "error").Inc()
		return summary, fmt.Errorf("dmerge: loading templates: %w", err)
	}

	driver := &merge.Driver{
		Store:       store,
		Collector:   col,
		Log:         log,
		Reporter:    reporter,
		Summary:     summary,
		Concurrency: cfg.Concurrency,
		Target:      cfg.OutputTarget,
	}
	if err := driver.Run(ctx); err != nil {
		metrics.RunTotal.WithLabelValues(cfg.OutputTarget.String(), "error").Inc()
		return summary, fmt.Errorf("dmerge: apply driver: %w", err)
	}

	if err := writeOutputs(store, cfg); err != nil {
		summary.Add(mergeerrors.CategoryApply, "", "", err)
	}

	status := "ok"
	if !summary.Empty() {
		status = "failed"
	}
	metrics.RunDuration.WithLabelValues(cfg.OutputTarget.String(), status).Observe(time.Since(start).Seconds())
	metrics.RunTotal.WithLabelValues(cfg.OutputTarget.String(), status).Inc()

	if !summary.Empty() {
		return summary, summary.Error()
	}
	return summary, nil
}

func decodeNemesis(ctx context.Context, log logr.Logger, col *collect.Collector, summary *mergeerrors.Summary, entries mergeconfig.OrderedModEntries, hack nemesis.HackOptions) {
	for _, e := range entries {
		if ctx.Err() != nil {
			return
		}
		err := filepath.WalkDir(e.ModPath, func(path string, d os.DirEntry, werr error) error {
			if werr != nil {
				return werr
			}
			if d.IsDir() || !strings.HasSuffix(strings.ToLower(path), ".txt") {
				return nil
			}
			key := templateKeyFromPath(e.ModPath, path)
			f, ferr := os.Open(path)
			if ferr != nil {
				summary.Add(mergeerrors.CategoryPatch, key.TemplateName, path, ferr)
				return nil
			}
			defer f.Close()

			dec := nemesis.Decoder{Priority: e.Priority, Hack: hack}
			patches, derr := dec.Decode(f)
			if derr != nil {
				summary.Add(mergeerrors.CategoryPatch, key.TemplateName, path, derr)
				metrics.DecodeErrorsTotal.WithLabelValues("nemesis").Inc()
				log.V(1).Info("nemesis decode failed", "path", path, "error", derr.Error())
				return nil
			}
			for _, p := range patches {
				col.Add(key, p)
			}
			summary.IncPatchesRead(len(patches))
			metrics.PatchesDecodedTotal.WithLabelValues("nemesis").Add(float64(len(patches)))
			return nil
		})
		if err != nil {
			summary.Add(mergeerrors.CategoryOwnedFile, "", e.ModPath, err)
		}
	}
}

func decodeFNIS(col *collect.Collector, summary *mergeerrors.Summary, entries mergeconfig.OrderedModEntries) {
	for _, e := range entries {
		err := filepath.WalkDir(e.ModPath, func(path string, d os.DirEntry, werr error) error {
			if werr != nil {
				return werr
			}
			if d.IsDir() || !strings.HasSuffix(strings.ToLower(path), "list.txt") {
				return nil
			}
			creature := creatureIDFromFNISName(filepath.Base(path))
			f, ferr := os.Open(path)
			if ferr != nil {
				summary.Add(mergeerrors.CategoryFNIS, creature, path, ferr)
				return nil
			}
			defer f.Close()

			list, perr := fnis.ParseList(f, creature)
			if perr != nil {
				summary.Add(mergeerrors.CategoryFNIS, creature, path, perr)
				return nil
			}
			patches, gerr := fnis.GeneratePatches(list, e.Priority)
			if gerr != nil {
				summary.Add(mergeerrors.CategoryFNIS, creature, path, gerr)
				return nil
			}
			key := patchop.TemplateKey{TemplateName: creature}
			for _, p := range patches {
				col.Add(key, p)
			}
			summary.IncPatchesRead(len(patches))
			metrics.PatchesDecodedTotal.WithLabelValues("fnis").Add(float64(len(patches)))
			return nil
		})
		if err != nil {
			summary.Add(mergeerrors.CategoryFNIS, "", e.ModPath, err)
		}
	}
}

// templateKeyFromPath derives a TemplateKey from a Nemesis patch file's
// path relative to its mod root: the file's base name (without
// extension) is the template name, and "1st_person" or "1stperson"
// appearing anywhere in the relative path (directory or file name,
// case-insensitive) marks Is1stPerson.
func templateKeyFromPath(modRoot, path string) patchop.TemplateKey {
	rel, err := filepath.Rel(modRoot, path)
	if err != nil {
		rel = path
	}
	base := filepath.Base(rel)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	is1st := strings.Contains(strings.ToLower(rel), "1st_person") || strings.Contains(strings.ToLower(rel), "1stperson")
	return patchop.TemplateKey{TemplateName: base, Is1stPerson: is1st}
}

func creatureIDFromFNISName(base string) string {
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimPrefix(base, "FNIS_")
	base = strings.TrimSuffix(base, "_List")
	return base
}

// loadTemplates reads a JSON document for every collected TemplateKey
// from resourceDir, defaulting to an empty object when no file exists
// yet (a mod may add entirely new array elements to a template nothing
// else ships, e.g. a brand-new creature behavior).
func loadTemplates(store *merge.TemplateStore, keys []patchop.TemplateKey, resourceDir string) error {
	for _, key := range keys {
		name := key.TemplateName
		if key.Is1stPerson {
			name += "_1stperson"
		}
		path := filepath.Join(resourceDir, name+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				store.Load(key, patchtree.Object(patchtree.NewObject()))
				continue
			}
			return fmt.Errorf("reading template %q: %w", path, err)
		}
		node, perr := patchtree.FromJSON(data)
		if perr != nil {
			return fmt.Errorf("parsing template %q: %w", path, perr)
		}
		store.Load(key, node)
	}
	return nil
}
