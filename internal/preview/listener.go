package preview

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/mithrel/cellmark/internal/host"
	"github.com/mithrel/cellmark/pkg/api"
)

// Presenter is the surface that displays extracted cell text.
type Presenter interface {
	Show(content string)
	Fail(err error)
}

// Listener turns selection events on text cells into Presenter.Show calls.
type Listener struct {
	ctx   context.Context
	table host.Table
	ex    *Extractor
	out   Presenter

	failed atomic.Bool
	mu     sync.Mutex
	unsub  host.Unsubscribe
}

func NewListener(ctx context.Context, table host.Table, ex *Extractor, out Presenter) *Listener {
	return &Listener{ctx: ctx, table: table, ex: ex, out: out}
}

// Start subscribes to the base's selection changes. It registers at most
// once; a failed registration is returned wrapped in ErrListenerSetup.
func (l *Listener) Start(base host.Base) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.unsub != nil {
		return nil
	}
	unsub, err := base.OnSelectionChange(l.Handle)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListenerSetup, err)
	}
	l.unsub = unsub
	return nil
}

// Stop detaches from the base.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.unsub != nil {
		l.unsub()
		l.unsub = nil
	}
}

// Handle processes one selection event. Incomplete events, events for
// another table, unknown fields and non-text fields are ignored. Lookup
// failures are reported to the presenter once per listener.
func (l *Listener) Handle(ev *api.SelectionEvent) {
	if !ev.Complete() {
		return
	}
	meta := l.table.Meta()
	if ev.TableID != "" && ev.TableID != meta.ID {
		return
	}
	field, err := l.table.GetFieldMetaByID(l.ctx, ev.FieldID)
	if err != nil {
		l.fail(ev, err)
		return
	}
	if field == nil || !field.IsText() {
		return
	}
	text, err := l.ex.Extract(l.ctx, l.table, ev.FieldID, ev.RecordID)
	if err != nil {
		l.fail(ev, err)
		return
	}
	l.out.Show(text)
}

func (l *Listener) fail(ev *api.SelectionEvent, err error) {
	log.Error().Err(err).Str("field", ev.FieldID).Str("record", ev.RecordID).Msg("selection lookup failed")
	if l.failed.CompareAndSwap(false, true) {
		l.out.Fail(fmt.Errorf("read cell %s/%s: %w", ev.RecordID, ev.FieldID, err))
	}
}
