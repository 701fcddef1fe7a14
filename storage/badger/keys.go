package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/iamshreeyyy/hackxr/core"
)

// Key prefixes for different data types. Entry keys and document index
// keys use disjoint prefixes so iteration never has to skip.
const (
	entryPrefix    = "idxent"
	entryDocPrefix = "idxdoc"
)

// makeEntryKey generates a key for an index entry by chunk ID.
func makeEntryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", entryPrefix, id))
}

// makeEntryDocKey generates a composite key for the document index.
// Format: prefix:source:id
func makeEntryDocKey(sourceDocument string, id core.ID) []byte {
	prefix := entryDocPrefix + ":" + sourceDocument + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// BigEndian so lexicographic sort matches numeric order
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialEntryDocKey generates a partial key for per-document scans.
func makePartialEntryDocKey(sourceDocument string) []byte {
	return []byte(entryDocPrefix + ":" + sourceDocument + ":")
}
