package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/costiera/concierge/core"
)

// Key prefixes for different data types
const (
	documentPrefix = "docrec"
	documentIDSeq  = "docrecseq"
	linkPrefix     = "lnkrec"
	linkDocPrefix  = "lnkrecd"
	linkIDSeq      = "lnkrecseq"
	presplitPrefix = "chkpre"
	splitPrefix    = "chkspl"
	snapshotVerKey = "chkver"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeLinkKey generates a key for a link by ID.
func makeLinkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", linkPrefix, id))
}

// makeLinkDocKey generates a composite key for the link-by-document index.
// Format: prefix:documentID:linkID
func makeLinkDocKey(docID, linkID core.ID) []byte {
	prefix := linkDocPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for documentID + 8 bytes for linkID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(linkID))
	return buf
}

// makePartialLinkDocKey generates a partial key for per-document link scans.
// Format: prefix:documentID
func makePartialLinkDocKey(docID core.ID) []byte {
	prefix := linkDocPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for documentID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makeChunkKey generates a key for a chunk by snapshot kind and position.
// BigEndian position keeps iteration in ingestion order.
func makeChunkKey(prefix string, position int) []byte {
	prefixBytes := []byte(prefix + ":")
	prefixSize := len(prefixBytes)
	buf := make([]byte, prefixSize+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(position))
	return buf
}
