package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/gubarz/lit/internal/config"
	"github.com/gubarz/lit/internal/markup"
)

// chromeHeight is the number of rows below the viewport (status + footer)
const chromeHeight = 2

// ============================================================================
// Preview Line
// ============================================================================

// previewLine is one line of the rendered program
type previewLine struct {
	text      string
	commented bool
}

// buildLines renders a document the same way WriteProgram does
func buildLines(doc []byte, opts markup.Options) []previewLine {
	classified := markup.Transform(doc, opts)
	lines := make([]previewLine, len(classified))
	for i, l := range classified {
		text := string(l.Text)
		if l.Commented {
			text = opts.Comment + " " + text
		}
		lines[i] = previewLine{text: text, commented: l.Commented}
	}
	return lines
}

// ============================================================================
// Preview Model
// ============================================================================

// previewModel is the Bubble Tea model for the read-only program preview
type previewModel struct {
	name  string
	lines []previewLine
	stats markup.Stats

	width    int
	height   int
	ready    bool
	quitting bool

	viewport    viewport.Model
	search      textinput.Model
	searching   bool
	query       string
	match       int // index of the highlighted line, -1 if none
	notFound    bool
	lineNumbers bool
}

// newPreviewModel creates a preview of doc converted with opts
func newPreviewModel(name string, doc []byte, opts markup.Options) previewModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search"
	ti.CharLimit = 256

	lines := buildLines(doc, opts)
	stats := markup.Stats{Lines: len(lines)}
	for _, l := range lines {
		if l.commented {
			stats.Prose++
		} else {
			stats.Code++
		}
	}

	return previewModel{
		name:        name,
		lines:       lines,
		stats:       stats,
		search:      ti,
		match:       -1,
		lineNumbers: config.GetLineNumbers(),
	}
}

// Init implements tea.Model
func (m previewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := max(1, msg.Height-chromeHeight)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.search.Width = max(1, msg.Width-4)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateSearch handles keys while the search prompt is open
func (m previewModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		m.query = m.search.Value()
		m.findNext()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input outside of the search prompt
func (m *previewModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		m.quitting = true
		return tea.Quit, true
	case "/":
		m.searching = true
		m.search.SetValue("")
		return m.search.Focus(), true
	case "n":
		m.findNext()
		return nil, true
	case "l":
		m.lineNumbers = !m.lineNumbers
		m.refresh()
		return nil, true
	case "home":
		m.viewport.GotoTop()
		return nil, true
	case "end":
		m.viewport.GotoBottom()
		return nil, true
	}
	return nil, false
}

// findNext moves to the next line after the current match containing the query
func (m *previewModel) findNext() {
	m.notFound = false
	if m.query == "" || len(m.lines) == 0 {
		return
	}

	start := m.match + 1
	for i := 0; i < len(m.lines); i++ {
		idx := (start + i) % len(m.lines)
		if strings.Contains(m.lines[idx].text, m.query) {
			m.match = idx
			m.refresh()
			m.viewport.SetYOffset(idx)
			return
		}
	}

	m.match = -1
	m.notFound = true
	m.refresh()
}

// refresh re-renders the viewport content
func (m *previewModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderLines())
}

// renderLines renders all lines with gutter and styles
func (m previewModel) renderLines() string {
	digits := len(fmt.Sprint(len(m.lines)))
	var b strings.Builder
	for i, l := range m.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if m.lineNumbers {
			b.WriteString(styles.Gutter.Render(fmt.Sprintf("%*d ", digits, i+1)))
		}

		style := styles.Code
		if l.commented {
			style = styles.Comment
		}
		if i == m.match {
			style = style.Inherit(styles.Match)
		}
		b.WriteString(style.Render(l.text))
	}
	return b.String()
}

// currentMode returns the mode of the highlighted match, or of the top
// visible line when nothing is highlighted
func (m previewModel) currentMode() markup.Mode {
	top := m.viewport.YOffset
	if m.match >= 0 {
		top = m.match
	}
	if top < 0 || top >= len(m.lines) || m.lines[top].commented {
		return markup.Prose
	}
	return markup.Code
}

// statusLine renders the bar below the viewport
func (m previewModel) statusLine() string {
	left := fmt.Sprintf(" %s  %d lines  %d prose  %d code  [%s]",
		m.name, m.stats.Lines, m.stats.Prose, m.stats.Code, m.currentMode())
	right := fmt.Sprintf("%3.0f%% ", m.viewport.ScrollPercent()*100)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styles.Status.Render(left + strings.Repeat(" ", gap) + right)
}

// footer renders the search prompt or key help
func (m previewModel) footer() string {
	switch {
	case m.searching:
		return styles.Prompt.Render(m.search.View())
	case m.notFound:
		return styles.Dim.Render(fmt.Sprintf(" no match for %q", m.query))
	default:
		return styles.Dim.Render(" ↑/↓ scroll • / search • n next • l line numbers • q quit")
	}
}

// View implements tea.Model
func (m previewModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}
	return m.viewport.View() + "\n" + m.statusLine() + "\n" + m.footer()
}

// ============================================================================
// Runner
// ============================================================================

// getTTY returns terminal handles, falling back to /dev/tty when stdout is
// redirected
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return os.Stdin, os.Stdout, func() {}
	}

	var closers []func()
	out, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		out = os.Stderr // Last resort fallback
	} else {
		closers = append(closers, func() { out.Close() })
	}

	in, err = os.OpenFile("/dev/tty", os.O_RDONLY, 0)
	if err != nil {
		in = os.Stdin
	} else {
		closers = append(closers, func() { in.Close() })
	}

	// Tell lipgloss to use the TTY for color detection
	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))

	return in, out, func() {
		for _, c := range closers {
			c()
		}
	}
}

// Preview shows doc converted with opts in an interactive pager
func Preview(name string, doc []byte, opts markup.Options) error {
	m := newPreviewModel(name, doc, opts)

	ttyIn, ttyOut, cleanup := getTTY()
	defer cleanup()
	RefreshStyles() // Refresh after getTTY sets up the renderer

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	_, err := p.Run()
	return err
}
