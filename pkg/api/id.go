package api

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewID generates a sortable-ish ID using time and randomness, prefixed
// with kind ("tbl", "fld", "rec").
func NewID(kind string) string {
	now := time.Now().UnixNano()
	ts := strconv.FormatInt(now, 36)
	var buf [6]byte
	_, _ = rand.Read(buf[:])
	return kind + ts + hex.EncodeToString(buf[:])
}
