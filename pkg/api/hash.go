package api

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// CellDigest returns a deterministic BLAKE3 hash of a stored cell.
// The encoded value is the JSON form persisted by the store.
func CellDigest(recordID, fieldID string, encoded []byte) string {
	h := blake3.New()

	h.Write([]byte(recordID))
	h.Write([]byte{0})

	h.Write([]byte(fieldID))
	h.Write([]byte{0})

	h.Write(encoded)

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}
