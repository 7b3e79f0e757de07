/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package cli implements the d-merge command-line entry point, following
// cmd/kubectl-hibernator/cli/root.go's cobra root + subcommand shape and
// cmd/runner/main.go's zap/zapr logger setup and os/signal-driven graceful
// shutdown.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds the flags shared by every subcommand.
type RootOptions struct {
	ResourceDir  string
	OutputDir    string
	Target       string
	Verbose      bool
	CastRagdoll  bool
	DebugJSON    bool
	DebugXML     bool
	DebugYAML    bool
	Concurrency  int
	MetricsAddr  string
}

// NewRootCommand creates the root command for d-merge.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "d-merge",
		Short: "Merge Nemesis/FNIS behavior patches into Skyrim animation templates",
		Long: "d-merge applies a priority-ordered set of Nemesis and FNIS patches\n" +
			"on top of a Skyrim behavior template set and writes the merged result.\n\n" +
			"Usage:\n" +
			"  d-merge run --resource-dir ./templates --output-dir ./out nemesis1=10 nemesis2=20",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.ResourceDir, "resource-dir", "", "Directory containing template JSON documents")
	cmd.PersistentFlags().StringVar(&opts.OutputDir, "output-dir", "", "Directory merged output is written to")
	cmd.PersistentFlags().StringVar(&opts.Target, "target", "se", "Output target: se or le")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug-level logging")
	cmd.PersistentFlags().BoolVar(&opts.CastRagdoll, "hack-cast-ragdoll-event", false, "Enable the cast_ragdoll_event field-naming hack")
	cmd.PersistentFlags().BoolVar(&opts.DebugJSON, "debug-patch-json", false, "Write the raw collected patch set to <output-dir>/.d_merge/debug/patch.json")
	cmd.PersistentFlags().BoolVar(&opts.DebugXML, "debug-merged-xml", false, "Write each merged template as debug XML")
	cmd.PersistentFlags().BoolVar(&opts.DebugYAML, "debug-merged-yaml", false, "Write each merged template as debug YAML")
	cmd.PersistentFlags().IntVar(&opts.Concurrency, "concurrency", 0, "Max templates applied in parallel (0 = GOMAXPROCS)")
	cmd.PersistentFlags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (empty disables)")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}
