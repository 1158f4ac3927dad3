package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"skillpack/pkg/index"
)

// newSearchCmd creates the "skillpack search" subcommand.
func newSearchCmd() *cobra.Command {
	var (
		limit     int
		skillName string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over indexed documents",
		Long:  "BM25-ranked FTS5 search across every indexed corpus document.\nMatched terms are marked >>like this<< in snippets.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.OutOrStdout(), query, limit, skillName)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	cmd.Flags().StringVar(&skillName, "skill", "", "restrict results to one skill")

	return cmd
}

// runSearch is the core logic for the search command, separated for testability.
func runSearch(w io.Writer, query string, limit int, skillName string) error {
	paths, err := ResolvePaths()
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	db, err := index.Open(paths.IndexDBPath)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer db.Close()

	hits, err := index.NewStore(db).Search(context.Background(), query, index.SearchOpts{
		Limit: limit,
		Skill: skillName,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	fmt.Fprint(w, formatSearchResults(hits))
	return nil
}

// formatSearchResults formats search hits for CLI output.
func formatSearchResults(hits []index.Hit) string {
	if len(hits) == 0 {
		return "No documents found.\n"
	}

	var b strings.Builder
	for i, h := range hits {
		fmt.Fprintf(&b, "%d. [%s] %s (%s)\n", i+1, h.Skill, h.Path, h.Title)
		fmt.Fprintf(&b, "   %s\n", strings.ReplaceAll(h.Snippet, "\n", " "))
	}
	return b.String()
}
