package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"skillpack/pkg/bundle"
	"skillpack/pkg/index"
	"skillpack/pkg/skill"
	"skillpack/pkg/validate"
)

// newBuildCmd creates the "skillpack build" subcommand.
func newBuildCmd() *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "build [root]",
		Short: "Package a corpus into a .skill bundle",
		Long: `Validates the corpus, then writes its included files into a .skill zip
archive with every entry under the skill name directory. Validation errors
block the build unless --force is given; warnings never block.

Each successful build is recorded in the local build history
(see 'skillpack builds').`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.OutOrStdout(), corpusRoot(args), output, force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "bundle destination (file or directory)")
	cmd.Flags().BoolVar(&force, "force", false, "build even when validation reports errors")

	return cmd
}

// runBuild is the core logic for the build command, separated for testability.
func runBuild(w io.Writer, root, output string, force bool) error {
	c, err := skill.Load(root)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	report := validate.Validate(c)
	printFindings(w, report)
	if report.HasErrors() && !force {
		errs, _ := report.Counts()
		return fmt.Errorf("build blocked by %d validation error(s) (use --force to override)", errs)
	}

	fmt.Fprintf(w, "Building %s.skill...\n", c.Manifest.Name)
	res, err := bundle.Build(c, bundle.Options{Output: output, Progress: w})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	fmt.Fprintf(w, "sha256: %s\n", res.SHA256)

	recordBuild(w, c, res)
	return nil
}

// recordBuild appends the build to the local history. History failures are
// reported but never fail a build that already produced its artifact.
func recordBuild(w io.Writer, c *skill.Corpus, res *bundle.Result) {
	paths, err := ResolvePaths()
	if err != nil {
		fmt.Fprintf(w, "warning: build not recorded: %v\n", err)
		return
	}
	db, err := index.Open(paths.IndexDBPath)
	if err != nil {
		fmt.Fprintf(w, "warning: build not recorded: %v\n", err)
		return
	}
	defer db.Close()

	_, err = index.NewStore(db).RecordBuild(context.Background(), index.BuildRecord{
		Skill:      c.Manifest.Name,
		Version:    c.Manifest.Version,
		Output:     res.Path,
		FileCount:  res.FileCount,
		TotalBytes: res.TotalBytes,
		SHA256:     res.SHA256,
	})
	if err != nil {
		fmt.Fprintf(w, "warning: build not recorded: %v\n", err)
	}
}

// printFindings writes validation findings in "severity rule path: message" form.
func printFindings(w io.Writer, report *validate.Report) {
	for _, f := range report.Findings {
		path := f.Path
		if path == "" {
			path = "(corpus)"
		}
		fmt.Fprintf(w, "%-7s %-22s %s: %s\n", f.Severity, f.Rule, path, f.Message)
	}
}
