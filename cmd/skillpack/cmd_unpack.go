package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"skillpack/pkg/bundle"
)

// newUnpackCmd creates the "skillpack unpack" subcommand.
func newUnpackCmd() *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "unpack <bundle>",
		Short: "Extract a .skill bundle",
		Long:  "Extracts a bundle into the destination directory.\nEntries are confined to the destination; hostile archives are rejected.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnpack(cmd.OutOrStdout(), args[0], dest)
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", ".", "destination directory")

	return cmd
}

// runUnpack is the core logic for the unpack command, separated for testability.
func runUnpack(w io.Writer, path, dest string) error {
	if err := bundle.Unpack(path, dest); err != nil {
		return fmt.Errorf("unpack: %w", err)
	}
	fmt.Fprintf(w, "Unpacked %s into %s\n", path, dest)
	return nil
}
