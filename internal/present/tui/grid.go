package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/cellmark/internal/clip"
	"github.com/mithrel/cellmark/internal/host"
	"github.com/mithrel/cellmark/internal/preview"
	"github.com/mithrel/cellmark/internal/render"
	"github.com/mithrel/cellmark/pkg/api"
)

// Copier copies the raw preview text.
type Copier interface {
	Copy(text string) (clip.Method, error)
}

// Options configures the preview grid.
type Options struct {
	// Render holds the glamour styles and wrap column; Dark comes from the session.
	Render render.Options
	// WidthRatio is the share of the terminal width used by the preview.
	WidthRatio float64
	Copier     Copier
}

// Run opens the interactive grid for the session's base. Moving the cursor
// publishes selection events on bus; the session answers with the preview.
func Run(ctx context.Context, s *preview.Session, bus *host.Bus, opts Options) error {
	m := newModel(ctx, s, bus, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	s.Stop()
	return err
}

type model struct {
	ctx     context.Context
	session *preview.Session
	bus     *host.Bus
	opts    Options

	table   table.Model
	fields  []api.FieldMeta
	records []api.Record
	cells   [][]string
	col     int
	colOff  int
	lastSel api.SelectionEvent

	snap  preview.Snapshot
	modal *previewModal

	width        int
	height       int
	status       string
	lastDuration time.Duration
}

func newModel(ctx context.Context, s *preview.Session, bus *host.Bus, opts Options) model {
	if opts.WidthRatio <= 0 || opts.WidthRatio > 1 {
		opts.WidthRatio = 0.6
	}
	m := model{
		ctx:     ctx,
		session: s,
		bus:     bus,
		opts:    opts,
		snap:    s.Snapshot(),
		status:  "Loading table…",
	}
	m.table = table.New(table.WithFocused(true))
	m.applyStyles()
	return m
}

func (m model) Init() tea.Cmd { return startCmd(m.ctx, m.session) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		m.snap = msg.snap
		m.lastDuration = msg.dur
		if msg.err != nil {
			m.status = ""
			return m, nil
		}
		m.fields, m.records, m.cells = msg.grid.fields, msg.grid.records, msg.grid.cells
		m.status = fmt.Sprintf("Loaded %s", m.snap.Table.Name)
		m.rebuild()
		return m, m.selectCurrent()
	case snapshotMsg:
		m.applySnapshot(msg.snap)
		if msg.status != "" {
			m.status = msg.status
		}
		return m, nil
	case copyResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Copied via %s", msg.method)
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		if m.modal != nil {
			m.modal.resizeForTerm(m.width, m.height, m.opts.WidthRatio)
			m.modal.setMarkdown(m.snap.Content, m.renderOptions())
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "esc":
			if m.snap.Visible {
				return m, closeCmd(m.session)
			}
			return m, tea.Quit
		case "left", "h":
			if m.col > 0 {
				m.col--
				m.rebuild()
			}
			return m, m.selectCurrent()
		case "right", "l":
			if m.col < len(m.fields)-1 {
				m.col++
				m.rebuild()
			}
			return m, m.selectCurrent()
		case "c":
			if m.snap.Content == "" {
				m.status = "Nothing to copy"
				return m, nil
			}
			return m, copyCmd(m.opts.Copier, m.snap.Content)
		case "x":
			return m, clearCmd(m.session)
		case "t":
			return m, toggleDarkCmd(m.session)
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			if m.modal != nil && m.snap.Visible {
				var cmd tea.Cmd
				m.modal, cmd = m.modal.update(msg)
				return m, cmd
			}
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, tea.Batch(cmd, m.selectCurrent())
}

// selectCurrent publishes the cell under the cursor unless it was the last
// one published.
func (m *model) selectCurrent() tea.Cmd {
	row := m.table.Cursor()
	if len(m.fields) == 0 || row < 0 || row >= len(m.records) {
		return nil
	}
	ev := api.SelectionEvent{
		TableID:  m.snap.Table.ID,
		FieldID:  m.fields[m.col].ID,
		RecordID: m.records[row].ID,
	}
	if ev == m.lastSel {
		return nil
	}
	m.lastSel = ev
	return selectCmd(m.bus, m.session, ev)
}

func (m *model) applySnapshot(snap preview.Snapshot) {
	m.snap = snap
	if !snap.Visible {
		return
	}
	if m.modal == nil {
		m.modal = newPreviewModal(m.width, m.height, m.opts.WidthRatio)
	}
	m.modal.setMarkdown(snap.Content, m.renderOptions())
}

func (m model) renderOptions() render.Options {
	o := m.opts.Render
	o.Dark = m.snap.Dark
	return o
}

func (m model) currentField() (api.FieldMeta, bool) {
	if m.col < 0 || m.col >= len(m.fields) {
		return api.FieldMeta{}, false
	}
	return m.fields[m.col], true
}

func (m model) renderHeader() string {
	switch {
	case m.snap.State == preview.StateFailed, m.snap.Err != nil:
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.snap.Err))
	case m.snap.State == preview.StateLoading:
		return dimStyle.Render("Loading…")
	case len(m.snap.TextFields) == 0:
		return warnStyle.Render(fmt.Sprintf("%s has no text fields; nothing can be previewed", m.snap.Table.Name))
	}
	head := titleStyle.Render(m.snap.Table.Name)
	if f, ok := m.currentField(); ok {
		head += dimStyle.Render(fmt.Sprintf("  %s (%s)", f.Name, f.Type))
	}
	return head
}

func (m model) renderFooter() string {
	left := "↑/↓/←/→ select • esc=close • c=copy • x=clear cache • t=theme • q=exit"

	var right string
	if m.status != "" {
		if m.lastDuration > 0 {
			right = fmt.Sprintf("%s (%s) • ", m.status, m.lastDuration.Round(time.Millisecond))
		} else {
			right = m.status + " • "
		}
	}
	right += fmt.Sprintf("%d records • %d cached ", len(m.records), m.snap.Cached)

	width := m.width
	if width <= 0 {
		width = m.table.Width()
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func (m model) View() string {
	var body string
	switch {
	case m.snap.State != preview.StateReady:
		body = ""
	case len(m.records) == 0 || len(m.fields) == 0:
		body = "(no records)\n"
	default:
		body = m.table.View() + "\n"
	}
	base := m.renderHeader() + "\n" + body + m.renderFooter() + "\n"
	if m.modal != nil && m.snap.Visible {
		return m.renderOverlay(base, m.modal.View(), m.modal.width, m.modal.height)
	}
	return base
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(4, m.height-3))
	m.table.SetWidth(m.width)
	m.rebuild()
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)
