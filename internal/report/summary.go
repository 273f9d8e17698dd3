package report

import (
	"fmt"
	"io"
	"strings"
)

// Summary holds the data point counts of a document.
type Summary struct {
	Chapters      int `json:"chapters"`
	Sections      int `json:"sections"`
	TableRows     int `json:"table_rows"`
	Stats         int `json:"stats"`
	Trends        int `json:"trends"`
	Cards         int `json:"cards"`
	Notes         int `json:"notes"`
	Diagrams      int `json:"diagrams"`
	GlossaryTerms int `json:"glossary_terms"`
}

// Summarize counts the data points in doc.
func Summarize(doc *Document) Summary {
	s := Summary{
		Chapters:      len(doc.Chapters),
		GlossaryTerms: len(doc.Glossary),
	}
	for _, ch := range doc.Chapters {
		s.Sections += len(ch.Sections)
		for _, sec := range ch.Sections {
			for _, b := range sec.Content {
				switch b := b.(type) {
				case *Table:
					s.TableRows += len(b.Rows)
				case *Stats:
					s.Stats += len(b.Items)
				case *Trends:
					s.Trends += len(b.Items)
				case *Cards:
					s.Cards += len(b.Items)
				case *Note:
					s.Notes++
				case *Diagram:
					s.Diagrams++
				}
			}
		}
	}
	return s
}

// WriteSummary prints the per-chapter outline followed by the totals.
func WriteSummary(w io.Writer, doc *Document) error {
	s := Summarize(doc)
	var b strings.Builder

	fmt.Fprintf(&b, "Extracted: %d chapters\n", s.Chapters)
	for _, ch := range doc.Chapters {
		fmt.Fprintf(&b, "  %s: %s (%d sections)\n", ch.ID, ch.Title, len(ch.Sections))
		for _, sec := range ch.Sections {
			types := make([]string, 0, len(sec.Content))
			for _, blk := range sec.Content {
				types = append(types, string(blk.Type()))
			}
			fmt.Fprintf(&b, "    - %s: [%s]\n", sec.Title, strings.Join(types, ", "))
		}
	}
	fmt.Fprintf(&b, "\n  Table rows: %d\n", s.TableRows)
	fmt.Fprintf(&b, "  Stats: %d\n", s.Stats)
	fmt.Fprintf(&b, "  Trends: %d\n", s.Trends)
	fmt.Fprintf(&b, "  Cards: %d\n", s.Cards)
	fmt.Fprintf(&b, "  Notes: %d\n", s.Notes)
	fmt.Fprintf(&b, "  Diagrams: %d\n", s.Diagrams)
	fmt.Fprintf(&b, "  Glossary: %d terms\n", s.GlossaryTerms)

	_, err := io.WriteString(w, b.String())
	return err
}
