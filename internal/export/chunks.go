package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/reportgest/internal/chunker"
	"github.com/dgallion1/reportgest/internal/report"
)

// Chunks writes the report's retrieval chunks as JSON Lines.
func Chunks(w io.Writer, doc *report.Document, cfg chunker.Config) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, c := range chunker.ChunkReport(doc, cfg) {
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encode chunk %d: %w", c.Index, err)
		}
	}
	return nil
}
