/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ardikabs/d-merge/pkg/dmerge"
	"github.com/ardikabs/d-merge/pkg/mergeconfig"
)

func newRunCommand(opts *RootOptions) *cobra.Command {
	var fnisArgs []string

	cmd := &cobra.Command{
		Use:   "run [nemesis-mod-dir=priority ...]",
		Short: "Run one merge pass over the given mods",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(opts, args, fnisArgs)
		},
	}
	cmd.Flags().StringArrayVar(&fnisArgs, "fnis", nil, "FNIS mod-dir=priority entry, may be repeated")
	return cmd
}

func runMerge(opts *RootOptions, args, fnisArgs []string) error {
	zapLog, err := newZapLogger(opts.Verbose)
	if err != nil {
		return fmt.Errorf("d-merge: building logger: %w", err)
	}
	defer func() { _ = zapLog.Sync() }()
	log := zapr.NewLogger(zapLog)

	if opts.MetricsAddr != "" {
		go serveMetrics(log, opts.MetricsAddr)
	}

	nemesisEntries, err := parseModEntries(args)
	if err != nil {
		return err
	}
	fnisEntries, err := parseModEntries(fnisArgs)
	if err != nil {
		return err
	}

	target := mergeconfig.SkyrimSE
	if strings.EqualFold(opts.Target, "le") {
		target = mergeconfig.SkyrimLE
	}

	cfg := mergeconfig.Config{
		ResourceDir:  opts.ResourceDir,
		OutputDir:    opts.OutputDir,
		OutputTarget: target,
		Hack:         mergeconfig.HackOptions{CastRagdollEvent: opts.CastRagdoll},
		Concurrency:  opts.Concurrency,
		Debug: mergeconfig.DebugOptions{
			OutputPatchJSON:  opts.DebugJSON,
			OutputMergedJSON: true,
			OutputMergedXML:  opts.DebugXML,
			OutputMergedYAML: opts.DebugYAML,
		},
		StatusReport: func(s mergeconfig.Status) {
			log.V(1).Info("status", "stage", s.Stage, "completed", s.Completed, "total", s.Total, "template", s.TemplateKey)
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		log.Info("received shutdown signal, cancelling run")
		cancel()
	}()

	summary, err := dmerge.BehaviorGen(ctx, log, mergeconfig.PatchMaps{
		NemesisEntries: nemesisEntries,
		FnisEntries:    fnisEntries,
	}, cfg)
	if err != nil {
		log.Error(err, "merge run failed", "patches_read", summary.PatchesRead())
		return err
	}
	log.Info("merge run completed", "patches_read", summary.PatchesRead())
	return nil
}

func newZapLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serveMetrics(log logr.Logger, addr string) {
	http.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error(err, "metrics server exited")
	}
}

func parseModEntries(args []string) (mergeconfig.OrderedModEntries, error) {
	entries := make(mergeconfig.OrderedModEntries, 0, len(args))
	for _, a := range args {
		parts := strings.SplitN(a, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("d-merge: expected path=priority, got %q", a)
		}
		priority, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("d-merge: invalid priority in %q: %w", a, err)
		}
		entries = append(entries, mergeconfig.ModEntry{ModPath: parts[0], Priority: priority})
	}
	return entries, nil
}
