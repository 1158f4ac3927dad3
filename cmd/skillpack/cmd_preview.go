package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"skillpack/pkg/skill"
)

// newPreviewCmd creates the "skillpack preview" subcommand.
func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <doc> [root]",
		Short: "Render a corpus document to the terminal",
		Long: `Renders one markdown document with terminal styling. When stdout is not
a terminal the document is printed as plain text, so preview pipes cleanly.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 1 {
				root = args[1]
			}
			styled := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
			return runPreview(cmd.OutOrStdout(), root, args[0], styled)
		},
	}
	return cmd
}

// runPreview is the core logic for the preview command, separated for testability.
func runPreview(w io.Writer, root, doc string, styled bool) error {
	src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(doc)))
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	if filepath.Base(doc) == skill.IndexDoc {
		if _, body, fmErr := skill.ParseFrontmatter(src); fmErr == nil {
			src = body
		}
	}

	if !styled {
		_, err := w.Write(src)
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	out, err := renderer.Render(string(src))
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	fmt.Fprint(w, out)
	return nil
}
