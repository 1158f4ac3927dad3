// Package browse implements the interactive corpus browser: a document list
// on the left, a glamour-rendered preview on the right, and fsnotify-driven
// reload of the selected document.
package browse

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"skillpack/pkg/skill"
)

const listWidth = 34

// docItem is one corpus document in the list.
type docItem struct {
	path string
}

func (d docItem) Title() string       { return d.path }
func (d docItem) Description() string { return "" }
func (d docItem) FilterValue() string { return d.path }

// docRenderedMsg carries a freshly rendered document for the viewport.
type docRenderedMsg struct {
	path    string
	content string
}

// Model is the bubbletea model for the corpus browser.
type Model struct {
	root     string
	list     list.Model
	viewport viewport.Model
	theme    Theme
	ready    bool
	width    int
	height   int
	err      error
}

// NewModel builds the browser model for a loaded corpus.
func NewModel(c *skill.Corpus) Model {
	items := make([]list.Item, 0, len(c.Files))
	for _, f := range c.Documents() {
		items = append(items, docItem{path: f})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false

	l := list.New(items, delegate, listWidth, 20)
	l.Title = c.Manifest.Name
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return Model{
		root:  c.Root,
		list:  l,
		theme: DefaultTheme(),
	}
}

// Init renders the first document and arms the file watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.renderSelected()}
	if w := watchCorpus(m.root); w != nil {
		cmds = append(cmds, w)
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			return m, m.renderSelected()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetSize(listWidth, msg.Height-2)
		m.viewport = viewport.New(msg.Width-listWidth-4, msg.Height-2)
		return m, m.renderSelected()

	case docRenderedMsg:
		m.err = nil
		m.viewport.SetContent(msg.content)
		m.viewport.GotoTop()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case fsChangeMsg:
		// Reload the selected document and re-arm the watcher.
		cmds := []tea.Cmd{m.renderSelected()}
		if w := watchCorpus(m.root); w != nil {
			cmds = append(cmds, w)
		}
		return m, tea.Batch(cmds...)
	}

	var listCmd, vpCmd tea.Cmd
	prev := m.selectedPath()
	m.list, listCmd = m.list.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	cmds := []tea.Cmd{listCmd, vpCmd}
	if m.selectedPath() != prev {
		cmds = append(cmds, m.renderSelected())
	}
	return m, tea.Batch(cmds...)
}

// errMsg wraps a render failure.
type errMsg struct{ err error }

// selectedPath returns the corpus-relative path of the selected document.
func (m Model) selectedPath() string {
	item, ok := m.list.SelectedItem().(docItem)
	if !ok {
		return ""
	}
	return item.path
}

// renderSelected renders the selected document with glamour off the main
// goroutine.
func (m Model) renderSelected() tea.Cmd {
	path := m.selectedPath()
	if path == "" {
		return nil
	}

	root := m.root
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	return func() tea.Msg {
		src, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
		if err != nil {
			return errMsg{err}
		}
		if filepath.Base(path) == skill.IndexDoc {
			if _, body, fmErr := skill.ParseFrontmatter(src); fmErr == nil {
				src = body
			}
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return errMsg{err}
		}
		out, err := renderer.Render(string(src))
		if err != nil {
			return errMsg{err}
		}
		return docRenderedMsg{path: path, content: out}
	}
}

// View renders the split layout.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	preview := m.viewport.View()
	if m.err != nil {
		preview = lipgloss.NewStyle().Foreground(m.theme.Error).Render(fmt.Sprintf("error: %v", m.err))
	}

	left := lipgloss.NewStyle().Width(listWidth).Render(m.list.View())
	right := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(m.theme.Muted).
		Padding(0, 1).
		Render(preview)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// Run starts the browser over the corpus at root. It refuses to start when
// stdin is not a terminal.
func Run(root string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("browse requires an interactive terminal")
	}

	c, err := skill.Load(root)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewModel(c), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}
