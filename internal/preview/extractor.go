package preview

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mithrel/cellmark/internal/cache"
	"github.com/mithrel/cellmark/internal/cellvalue"
	"github.com/mithrel/cellmark/internal/host"
)

// Extractor reads a cell through the host and returns its flat text,
// memoized per (record, field) in the session cache.
type Extractor struct {
	cache     *cache.CellCache
	normalize func(raw any) cellvalue.Value
}

func NewExtractor(c *cache.CellCache) *Extractor {
	return &Extractor{cache: c, normalize: cellvalue.Parse}
}

// WithNormalizer swaps the normalization step.
func (e *Extractor) WithNormalizer(fn func(raw any) cellvalue.Value) *Extractor {
	e.normalize = fn
	return e
}

// Extract returns the cached text for the cell, or fetches and normalizes
// it and caches the result. Only the host lookup can fail; normalization
// always produces a string.
func (e *Extractor) Extract(ctx context.Context, t host.Table, fieldID, recordID string) (string, error) {
	if s, ok := e.cache.Get(recordID, fieldID); ok {
		log.Debug().Str("record", recordID).Str("field", fieldID).Str("cache", "hit").Msg("extract")
		return s, nil
	}
	raw, err := t.GetCellValue(ctx, fieldID, recordID)
	if err != nil {
		return "", err
	}
	v := e.normalize(raw)
	text := v.Text()
	e.cache.Set(recordID, fieldID, text)
	log.Debug().
		Str("record", recordID).
		Str("field", fieldID).
		Str("cache", "miss").
		Stringer("kind", v.Kind).
		Int("len", len(text)).
		Msg("extract")
	return text, nil
}
