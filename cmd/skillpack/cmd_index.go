package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"skillpack/pkg/index"
	"skillpack/pkg/skill"
)

// newIndexCmd creates the "skillpack index" subcommand.
func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [root]",
		Short: "Re-index a corpus for full-text search",
		Long:  "Replaces the indexed documents of the corpus's skill with the current\non-disk content of SKILL.md and its references.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.OutOrStdout(), corpusRoot(args))
		},
	}
	return cmd
}

// runIndex is the core logic for the index command, separated for testability.
func runIndex(w io.Writer, root string) error {
	c, err := skill.Load(root)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	paths, err := ResolvePaths()
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	db, err := index.Open(paths.IndexDBPath)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer db.Close()

	n, err := index.NewStore(db).Reindex(context.Background(), c)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	fmt.Fprintf(w, "Indexed %d document(s) for %s\n", n, c.Manifest.Name)
	return nil
}
