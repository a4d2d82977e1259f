package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/cellmark/internal/render"
)

// previewModal shows the selected cell rendered by glamour inside a
// scrollable viewport.
type previewModal struct {
	vp     viewport.Model
	width  int
	height int
	padX   int
	padY   int
	box    lipglossv2.Style

	raw      string
	rendered render.Options
	content  string
}

func newPreviewModal(termW, termH int, ratio float64) *previewModal {
	m := &previewModal{padX: 2, padY: 1}
	m.resizeForTerm(termW, termH, ratio)
	return m
}

func (m *previewModal) resizeForTerm(termW, termH int, ratio float64) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * ratio)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(32, termW-2)
	}
	h := int(float64(termH) * 0.7)
	if termH < 20 {
		h = termH - 2
	}
	if h < 10 {
		h = max(8, termH-1)
	}
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(10, w-2-m.padX*2)
	innerH := max(5, h-2-m.padY*2)
	if m.vp.Width == 0 {
		m.vp = viewport.New(innerW, innerH)
	} else {
		m.vp.Width = innerW
		m.vp.Height = innerH
	}
	m.vp.SetContent(m.content)
}

// setMarkdown renders raw wrapped to the viewport or the configured
// column, whichever is narrower. Unchanged input is not
// re-rendered; new content scrolls back to the top.
func (m *previewModal) setMarkdown(raw string, o render.Options) {
	if o.Width <= 0 || o.Width > m.vp.Width {
		o.Width = m.vp.Width
	}
	if raw == m.raw && o == m.rendered && m.content != "" {
		return
	}
	out, err := render.Markdown(raw, o)
	if err != nil {
		out = raw
	}
	if raw != m.raw {
		m.vp.GotoTop()
	}
	m.raw, m.rendered, m.content = raw, o, out
	m.vp.SetContent(out)
}

func (m *previewModal) update(msg tea.Msg) (*previewModal, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyMsg:
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *previewModal) View() string { return m.box.Render(m.vp.View()) }
