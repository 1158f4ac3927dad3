package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"skillpack/pkg/bundle"
)

// newInspectCmd creates the "skillpack inspect" subcommand.
func newInspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <bundle>",
		Short: "Show the contents of a .skill bundle",
		Long: `Opens a built bundle, verifies it follows the consumer convention
(single top-level directory matching the manifest name, SKILL.md inside),
and prints its manifest, entries, and archive digest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the summary as JSON")

	return cmd
}

// runInspect is the core logic for the inspect command, separated for testability.
func runInspect(w io.Writer, path string, asJSON bool) error {
	sum, err := bundle.Inspect(path)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	fmt.Fprintf(w, "Skill:       %s\n", sum.Name)
	fmt.Fprintf(w, "Description: %s\n", sum.Manifest.Description)
	if sum.Manifest.Version != "" {
		fmt.Fprintf(w, "Version:     %s\n", sum.Manifest.Version)
	}
	fmt.Fprintf(w, "SHA256:      %s\n", sum.SHA256)
	fmt.Fprintf(w, "Entries:     %d (%d bytes uncompressed)\n\n", len(sum.Entries), sum.TotalBytes)

	for _, e := range sum.Entries {
		fmt.Fprintf(w, "  %8d  %s  %s\n", e.Size, e.Modified.Format("2006-01-02 15:04"), e.Path)
	}
	return nil
}
