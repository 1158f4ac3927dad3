package browse

import (
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// fsChangeMsg is sent when a file change is detected under the corpus root.
type fsChangeMsg struct{}

// watchCorpus creates a file system watcher over the corpus root plus its
// references/ and assets/ subdirectories. Returns nil if watcher creation
// fails (the browser then shows stale content until re-selection).
func watchCorpus(root string) tea.Cmd {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}

	added := 0
	for _, dir := range []string{root, filepath.Join(root, "references"), filepath.Join(root, "assets")} {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := watcher.Add(dir); err == nil {
			added++
		}
	}
	if added == 0 {
		_ = watcher.Close()
		return nil
	}

	return runWatcher(watcher)
}

// runWatcher returns a tea.Cmd that blocks until a debounced change event
// arrives, then delivers a single fsChangeMsg. The watcher is closed on
// return; the model re-arms a fresh one after reloading.
func runWatcher(watcher *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		defer watcher.Close() //nolint:errcheck // best-effort close

		debounce := newDebounceTimer()
		defer debounce.Stop()

		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				resetDebounceTimer(debounce)

			case <-debounce.C:
				return fsChangeMsg{}

			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return nil
			}
		}
	}
}

// newDebounceTimer creates a stopped timer for debouncing file system events.
func newDebounceTimer() *time.Timer {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	return timer
}

// resetDebounceTimer resets the debounce timer to coalesce rapid-fire events.
func resetDebounceTimer(timer *time.Timer) {
	const debounceDuration = 100 * time.Millisecond
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(debounceDuration)
}
