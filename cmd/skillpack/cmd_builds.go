package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"skillpack/pkg/index"
)

// newBuildsCmd creates the "skillpack builds" subcommand.
func newBuildsCmd() *cobra.Command {
	var (
		limit     int
		skillName string
	)

	cmd := &cobra.Command{
		Use:   "builds",
		Short: "List recent bundle builds",
		Long:  "Shows the local build history recorded by 'skillpack build', newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuilds(cmd.OutOrStdout(), limit, skillName)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of rows")
	cmd.Flags().StringVar(&skillName, "skill", "", "restrict to one skill")

	return cmd
}

// runBuilds is the core logic for the builds command, separated for testability.
func runBuilds(w io.Writer, limit int, skillName string) error {
	paths, err := ResolvePaths()
	if err != nil {
		return fmt.Errorf("builds: %w", err)
	}
	db, err := index.Open(paths.IndexDBPath)
	if err != nil {
		return fmt.Errorf("builds: %w", err)
	}
	defer db.Close()

	recs, err := index.NewStore(db).ListBuilds(context.Background(), index.ListBuildsOpts{
		Limit: limit,
		Skill: skillName,
	})
	if err != nil {
		return fmt.Errorf("builds: %w", err)
	}

	if len(recs) == 0 {
		fmt.Fprintln(w, "No builds recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s %-10s %-6s %-10s %s\n", "Skill", "Version", "Files", "Bytes", "Built")
	for _, r := range recs {
		fmt.Fprintf(w, "%-20s %-10s %-6d %-10d %s\n",
			r.Skill, r.Version, r.FileCount, r.TotalBytes, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
