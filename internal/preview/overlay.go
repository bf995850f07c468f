// Package preview shows generated markup in a dismissible terminal overlay.
//
// The overlay has two states: hidden, and shown with content. Show moves it
// to shown when given non-empty markup; Escape (or q / ctrl+c) hides it.
package preview

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("63")).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Overlay is the preview model. The zero value is hidden.
type Overlay struct {
	html     string
	viewport viewport.Model
	ready    bool
}

// Visible reports whether the overlay is shown.
func (o *Overlay) Visible() bool { return o.html != "" }

// HTML returns the markup currently shown, or "".
func (o *Overlay) HTML() string { return o.html }

// Show displays html; empty markup leaves the overlay hidden.
func (o *Overlay) Show(html string) {
	o.html = html
	if o.ready {
		o.viewport.SetContent(Highlight(html))
		o.viewport.GotoTop()
	}
}

// Dismiss hides the overlay.
func (o *Overlay) Dismiss() { o.html = "" }

// Init implements tea.Model.
func (o *Overlay) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (o *Overlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "ctrl+c":
			o.Dismiss()
			return o, tea.Quit
		}
	case tea.WindowSizeMsg:
		// border (2) + title line (1) + hint line (1)
		w, h := msg.Width-2, msg.Height-4
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		if !o.ready {
			o.viewport = viewport.New(w, h)
			o.ready = true
			o.viewport.SetContent(Highlight(o.html))
		} else {
			o.viewport.Width = w
			o.viewport.Height = h
		}
		return o, nil
	}

	if !o.ready {
		return o, nil
	}
	var cmd tea.Cmd
	o.viewport, cmd = o.viewport.Update(msg)
	return o, cmd
}

// View implements tea.Model.
func (o *Overlay) View() string {
	if !o.Visible() {
		return ""
	}
	if !o.ready {
		return "loading preview…"
	}
	title := titleStyle.Render("Preview")
	hint := hintStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll • esc close", o.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, title, frameStyle.Render(o.viewport.View()), hint)
}

// Run shows html full-screen until the user dismisses it.
func Run(html string) error {
	o := &Overlay{}
	o.Show(html)
	if !o.Visible() {
		return nil
	}
	_, err := tea.NewProgram(o, tea.WithAltScreen()).Run()
	return err
}

// Highlight renders html with ANSI colours for the terminal; on any chroma
// failure the input comes back unchanged.
func Highlight(html string) string {
	lexer := lexers.Get("html")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, html)
	if err != nil {
		return html
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return html
	}
	return buf.String()
}
