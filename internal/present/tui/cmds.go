package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/cellmark/internal/cellvalue"
	"github.com/mithrel/cellmark/internal/clip"
	"github.com/mithrel/cellmark/internal/host"
	"github.com/mithrel/cellmark/internal/preview"
	"github.com/mithrel/cellmark/pkg/api"
)

// cell previews in the grid are cut to this many columns before the
// table truncates them to the column width
const cellPreviewWidth = 120

type grid struct {
	fields  []api.FieldMeta
	records []api.Record
	cells   [][]string
}

// startedMsg conveys the outcome of starting the session and loading the grid.
type startedMsg struct {
	snap preview.Snapshot
	grid grid
	err  error
	dur  time.Duration
}

// snapshotMsg carries session state after an action.
type snapshotMsg struct {
	snap   preview.Snapshot
	status string
}

// copyResultMsg conveys the outcome of a copy.
type copyResultMsg struct {
	method clip.Method
	err    error
}

// startCmd starts the session and loads the active table into a grid.
func startCmd(ctx context.Context, s *preview.Session) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		if err := s.Start(ctx); err != nil {
			return startedMsg{snap: s.Snapshot(), err: err, dur: time.Since(start)}
		}
		g, err := loadGrid(ctx, s.Table())
		if err != nil {
			s.Fail(fmt.Errorf("load grid: %w", err))
		}
		return startedMsg{snap: s.Snapshot(), grid: g, err: err, dur: time.Since(start)}
	}
}

func loadGrid(ctx context.Context, t host.Table) (grid, error) {
	if t == nil {
		return grid{}, errors.New("no active table")
	}
	fields, err := t.GetFieldMetaList(ctx)
	if err != nil {
		return grid{}, err
	}
	records, err := t.GetRecordList(ctx)
	if err != nil {
		return grid{}, err
	}
	cells := make([][]string, len(records))
	for i, r := range records {
		row := make([]string, len(fields))
		for j, f := range fields {
			raw, err := t.GetCellValue(ctx, f.ID, r.ID)
			if err != nil {
				return grid{}, err
			}
			row[j] = cellLine(cellvalue.Normalize(raw), cellPreviewWidth)
		}
		cells[i] = row
	}
	return grid{fields: fields, records: records, cells: cells}, nil
}

// selectCmd publishes a selection; delivery is synchronous, so the
// snapshot taken afterwards reflects the handled event.
func selectCmd(bus *host.Bus, s *preview.Session, ev api.SelectionEvent) tea.Cmd {
	return func() tea.Msg {
		bus.Publish(&ev)
		return snapshotMsg{snap: s.Snapshot()}
	}
}

func closeCmd(s *preview.Session) tea.Cmd {
	return func() tea.Msg {
		s.ClosePreview()
		return snapshotMsg{snap: s.Snapshot()}
	}
}

func clearCmd(s *preview.Session) tea.Cmd {
	return func() tea.Msg {
		s.ClearCache()
		return snapshotMsg{snap: s.Snapshot(), status: "Cache cleared"}
	}
}

func toggleDarkCmd(s *preview.Session) tea.Cmd {
	return func() tea.Msg {
		status := "Light theme"
		if s.ToggleDark() {
			status = "Dark theme"
		}
		return snapshotMsg{snap: s.Snapshot(), status: status}
	}
}

func copyCmd(c Copier, text string) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return copyResultMsg{err: errors.New("clipboard unavailable")}
		}
		method, err := c.Copy(text)
		return copyResultMsg{method: method, err: err}
	}
}
