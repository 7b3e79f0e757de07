/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ardikabs/d-merge/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of d-merge",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("d-merge", version.GetVersion())
			return nil
		},
	}
}
