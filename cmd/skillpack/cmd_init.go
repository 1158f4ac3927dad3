package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"skillpack/pkg/skill"
)

// newInitCmd creates the "skillpack init" subcommand.
func newInitCmd() *cobra.Command {
	var (
		name        string
		description string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init <dir>",
		Short: "Scaffold a new skill corpus",
		Long: `Creates a skeleton corpus at <dir>: SKILL.md with frontmatter, a
references/ directory with an example sub-document, an assets/ directory,
skill.yaml, and a .gitignore for built bundles.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.OutOrStdout(), args[0], name, description, force)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "skill name (lowercase, hyphens)")
	cmd.Flags().StringVar(&description, "description", "", "one-line skill description")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing SKILL.md")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

// runInit is the core logic for the init command, separated for testability.
func runInit(w io.Writer, dir, name, description string, force bool) error {
	if err := skill.Scaffold(dir, name, description, force); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	fmt.Fprintf(w, "Scaffolded %s at %s\n", name, dir)
	fmt.Fprintf(w, "Next: edit %s/SKILL.md, then run 'skillpack build %s'\n", dir, dir)
	return nil
}
