package ingestion

import (
	"encoding/hex"
	"fmt"

	"github.com/costiera/concierge/core"
	"github.com/go-crypt/x/blake2b"
)

// corpusVersion hashes the raw loaded corpus into a version string. Raw
// content is hashed before link rewriting so the version is stable across
// runs even though placeholder ids are not.
func corpusVersion(loaded []*documentBlocks) string {
	h, _ := blake2b.New(16, nil)
	for _, doc := range loaded {
		fmt.Fprintf(h, "%d\x00", doc.document.Id)
		for _, block := range doc.blocks {
			h.Write([]byte(block.PageContent))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// documentBlocks pairs a document with its loaded pre-split blocks.
type documentBlocks struct {
	document *core.Document
	blocks   []*core.Chunk
}
