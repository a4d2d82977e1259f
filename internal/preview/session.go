// Package preview wires a host base to a markdown preview: it listens for
// cell selections, extracts the text of selected text cells through a
// per-session cache and holds the state shown by the presentation layer.
package preview

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mithrel/cellmark/internal/cache"
	"github.com/mithrel/cellmark/internal/host"
	"github.com/mithrel/cellmark/pkg/api"
)

type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "failed"
	}
}

// Snapshot is a copy of the session state for rendering.
type Snapshot struct {
	State      State
	Err        error
	Table      api.TableMeta
	TextFields []api.FieldMeta
	Content    string
	Visible    bool
	Dark       bool
	Cached     int
}

type Option func(*Session)

// WithDarkMode sets the initial theme.
func WithDarkMode(dark bool) Option {
	return func(s *Session) { s.dark = dark }
}

// WithObserver registers a callback run after every state change.
func WithObserver(fn func(Snapshot)) Option {
	return func(s *Session) { s.observe = fn }
}

// WithExtractor replaces the default extractor; it must share the
// session cache for ClearCache to apply.
func WithExtractor(ex *Extractor) Option {
	return func(s *Session) { s.ex = ex }
}

// Session is the top-level controller for one preview run. It owns the
// cell cache and is the Presenter its listener reports to.
type Session struct {
	base    host.Base
	cache   *cache.CellCache
	ex      *Extractor
	observe func(Snapshot)

	mu         sync.Mutex
	state      State
	err        error
	table      host.Table
	textFields []api.FieldMeta
	content    string
	visible    bool
	dark       bool
	listener   *Listener
}

func NewSession(base host.Base, c *cache.CellCache, opts ...Option) *Session {
	if c == nil {
		c = cache.New()
	}
	s := &Session{base: base, cache: c}
	for _, o := range opts {
		o(s)
	}
	if s.ex == nil {
		s.ex = NewExtractor(c)
	}
	return s
}

// Start resolves the active table and its text fields, then subscribes to
// selection changes. Any error leaves the session in StateFailed; it is
// not retried.
func (s *Session) Start(ctx context.Context) error {
	table, err := s.base.ActiveTable(ctx)
	if err != nil {
		return s.failStart(&InitError{Stage: StageTable, Err: err})
	}
	fields, err := table.GetFieldMetaList(ctx)
	if err != nil {
		return s.failStart(&InitError{Stage: StageFields, Err: err})
	}
	text := make([]api.FieldMeta, 0, len(fields))
	for _, f := range fields {
		if f.IsText() {
			text = append(text, f)
		}
	}

	s.mu.Lock()
	s.table = table
	s.textFields = text
	s.mu.Unlock()

	l := NewListener(ctx, table, s.ex, s)
	if err := l.Start(s.base); err != nil {
		return s.failStart(err)
	}

	s.mu.Lock()
	s.listener = l
	s.state = StateReady
	s.mu.Unlock()
	log.Info().Str("table", table.Meta().Name).Int("text_fields", len(text)).Msg("preview session ready")
	s.notify()
	return nil
}

func (s *Session) failStart(err error) error {
	s.mu.Lock()
	s.state = StateFailed
	s.err = err
	s.mu.Unlock()
	var ie *InitError
	if errors.As(err, &ie) {
		log.Error().Err(err).Str("stage", string(ie.Stage)).Msg("preview session init failed")
	} else {
		log.Error().Err(err).Msg("preview session listener failed")
	}
	s.notify()
	return err
}

// Stop unsubscribes from selection changes.
func (s *Session) Stop() {
	s.mu.Lock()
	l := s.listener
	s.listener = nil
	s.mu.Unlock()
	if l != nil {
		l.Stop()
	}
}

// Show implements Presenter.
func (s *Session) Show(content string) {
	s.mu.Lock()
	s.content = content
	s.visible = true
	s.mu.Unlock()
	s.notify()
}

// Fail implements Presenter. The first selection error is kept for display;
// the session keeps handling events.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.notify()
}

// ClosePreview hides the preview, keeping its content.
func (s *Session) ClosePreview() {
	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()
	s.notify()
}

func (s *Session) ToggleDark() bool {
	s.mu.Lock()
	s.dark = !s.dark
	d := s.dark
	s.mu.Unlock()
	s.notify()
	return d
}

// ClearCache drops every memoized cell so the next selection re-reads it.
func (s *Session) ClearCache() {
	n := s.cache.Len()
	s.cache.Clear()
	log.Info().Int("entries", n).Msg("cell cache cleared")
	s.notify()
}

// Table returns the active table once started.
func (s *Session) Table() host.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:      s.state,
		Err:        s.err,
		TextFields: append([]api.FieldMeta(nil), s.textFields...),
		Content:    s.content,
		Visible:    s.visible,
		Dark:       s.dark,
		Cached:     s.cache.Len(),
	}
	if s.table != nil {
		snap.Table = s.table.Meta()
	}
	return snap
}

func (s *Session) notify() {
	if s.observe != nil {
		s.observe(s.Snapshot())
	}
}
