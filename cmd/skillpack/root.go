package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"skillpack/internal/version"
)

// newRootCmd creates the root skillpack command with all subcommands attached.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "skillpack",
		Short:         "Author, validate, package, and publish skill bundles",
		Long:          "skillpack turns a documentation corpus (SKILL.md, references/, assets/)\ninto a .skill bundle ready for upload to an AI assistant's project knowledge.",
		Version:       fmt.Sprintf("skillpack %s", version.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(
		newInitCmd(),
		newBuildCmd(),
		newValidateCmd(),
		newInspectCmd(),
		newUnpackCmd(),
		newIndexCmd(),
		newSearchCmd(),
		newBuildsCmd(),
		newPreviewCmd(),
		newBrowseCmd(),
		newWatchCmd(),
		newServeCmd(),
		newPublishCmd(),
	)

	return cmd
}

// corpusRoot resolves the optional positional corpus root argument.
func corpusRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
