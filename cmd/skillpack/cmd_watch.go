package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	xlog "skillpack/internal/log"
	"skillpack/pkg/bundle"
	"skillpack/pkg/skill"
	"skillpack/pkg/validate"
)

// watchDebounce coalesces editor save bursts into one rebuild.
const watchDebounce = 250 * time.Millisecond

// newWatchCmd creates the "skillpack watch" subcommand.
func newWatchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Rebuild the bundle on every corpus change",
		Long: `Watches SKILL.md, references/, and assets/ for changes. On each change
the corpus is re-validated and, when validation passes, rebuilt.
Ctrl-C exits cleanly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, corpusRoot(args), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "bundle destination (file or directory)")

	return cmd
}

// runWatch is the core loop for the watch command.
func runWatch(ctx context.Context, root, output string) error {
	xlog.Configure(xlog.Config{})
	logger := xlog.WithComponent("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}

	// Build once up front so the watcher starts from a known state.
	rebuild(logger, root, output)

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	logger.Info().Str("root", root).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Ignore our own bundle output and editor temp noise.
			if strings.HasSuffix(event.Name, ".skill") {
				continue
			}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			rebuild(logger, root, output)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// addWatchDirs registers the corpus root and its standard subdirectories.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	for _, sub := range []string{"references", "assets"} {
		dir := filepath.Join(root, sub)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return nil
}

// rebuild re-validates and re-packages the corpus, logging the outcome.
func rebuild(logger zerolog.Logger, root, output string) {
	c, err := skill.Load(root)
	if err != nil {
		logger.Error().Err(err).Msg("load failed")
		return
	}

	report := validate.Validate(c)
	errs, warns := report.Counts()
	if errs > 0 {
		for _, f := range report.Findings {
			if f.Severity == validate.SeverityError {
				logger.Error().Str("rule", f.Rule).Str("path", f.Path).Msg(f.Message)
			}
		}
		logger.Error().Int("errors", errs).Msg("validation failed, skipping build")
		return
	}

	res, err := bundle.Build(c, bundle.Options{Output: output})
	if err != nil {
		logger.Error().Err(err).Msg("build failed")
		return
	}

	logger.Info().
		Str("bundle", res.Path).
		Int("files", res.FileCount).
		Int64("bytes", res.TotalBytes).
		Int("warnings", warns).
		Msg("rebuilt")
}
