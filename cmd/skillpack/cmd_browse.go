package main

import (
	"github.com/spf13/cobra"

	"skillpack/pkg/browse"
)

// newBrowseCmd creates the "skillpack browse" subcommand.
func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [root]",
		Short: "Browse corpus documents interactively",
		Long: `Opens an interactive browser: a list of corpus documents with a styled
markdown preview. Edits to the corpus reload the preview automatically.
Requires an interactive terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return browse.Run(corpusRoot(args))
		},
	}
	return cmd
}
