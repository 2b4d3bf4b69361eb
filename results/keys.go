package results

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/wikirag/core"
)

// Key prefixes for different data types
const (
	recordPrefix    = "evlrec"
	recordRunPrefix = "evlrun"
)

// makeRecordKey generates a key for an evaluation record by ID.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", recordPrefix, id))
}

// makeRunKey generates a composite key for the run index.
// Format: prefix:run:id
func makeRunKey(run string, id core.ID) []byte {
	prefix := recordRunPrefix + ":" + run + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialRunKey generates a partial key for run scans.
// Format: prefix:run:
func makePartialRunKey(run string) []byte {
	return []byte(recordRunPrefix + ":" + run + ":")
}
