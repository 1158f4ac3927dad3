package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"skillpack/pkg/skill"
	"skillpack/pkg/validate"
)

// newValidateCmd creates the "skillpack validate" subcommand.
func newValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [root]",
		Short: "Check a corpus against upload constraints and hygiene rules",
		Long: `Runs every validation rule against the corpus: manifest constraints,
broken and escaping links, unlisted references, template asset syntax,
size limits, and encoding.

Exits non-zero when the report contains errors, or any finding with --strict.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), corpusRoot(args), strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")

	return cmd
}

// runValidate is the core logic for the validate command, separated for testability.
func runValidate(w io.Writer, root string, strict bool) error {
	c, err := skill.Load(root)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	report := validate.Validate(c)
	printFindings(w, report)

	errs, warns := report.Counts()
	if len(report.Findings) == 0 {
		fmt.Fprintf(w, "OK: %s passes all checks (%d files)\n", c.Manifest.Name, len(c.Files))
		return nil
	}

	fmt.Fprintf(w, "%d error(s), %d warning(s)\n", errs, warns)
	if errs > 0 {
		return fmt.Errorf("validation failed with %d error(s)", errs)
	}
	if strict && warns > 0 {
		return fmt.Errorf("validation failed with %d warning(s) (--strict)", warns)
	}
	return nil
}
