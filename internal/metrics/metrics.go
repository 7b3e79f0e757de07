/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package metrics exposes the prometheus counters/histograms for one
// merge run, following internal/metrics/metrics.go's promauto style (this
// package replaces the teacher's hibernation-operator metric names with
// ones for patch decode/apply counts and durations).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunDuration tracks the wall-clock duration of one behavior_gen run.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dmerge_run_duration_seconds",
			Help:    "Duration of a behavior_gen run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to 204.8s (~3.4m)
		},
		[]string{"target", "status"},
	)

	// RunTotal counts completed runs by outcome.
	RunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmerge_run_total",
			Help: "Total number of behavior_gen runs",
		},
		[]string{"target", "status"},
	)

	// PatchesDecodedTotal counts patch operations successfully decoded
	// from source mods, by source format.
	PatchesDecodedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmerge_patches_decoded_total",
			Help: "Total number of patch operations decoded",
		},
		[]string{"format"},
	)

	// DecodeErrorsTotal counts decode-stage failures by category.
	DecodeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmerge_decode_errors_total",
			Help: "Total number of decode-stage failures",
		},
		[]string{"category"},
	)

	// ApplyErrorsTotal counts apply-stage failures by category.
	ApplyErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmerge_apply_errors_total",
			Help: "Total number of apply-stage failures",
		},
		[]string{"category"},
	)

	// TemplateApplyDuration tracks per-template apply duration.
	TemplateApplyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dmerge_template_apply_duration_seconds",
			Help:    "Duration of applying all patches to one template",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"template"},
	)

	// ActiveTemplatesGauge tracks templates currently being applied.
	ActiveTemplatesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dmerge_active_templates",
			Help: "Number of templates currently being applied",
		},
	)
)
